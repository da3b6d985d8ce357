package vocab

// specialWords are the most frequent English words. They are seeded first, in
// this order, so "hello" is id 0 and "the" is id 2.
var specialWords = []string{
	"hello", "world", "the", "is", "and", "to", "of", "a", "in", "that",
	"have", "i", "it", "for", "not", "on", "with", "he", "as", "you",
	"do", "at", "this", "but", "his", "by", "from", "they", "we", "say",
	"her", "she", "or", "an", "will", "my", "one", "all", "would", "there",
	"their", "what", "so", "up", "out", "if", "about", "who", "get", "which",
	"go", "me", "when", "make", "can", "like", "time", "no", "just", "him",
	"know", "take", "people", "into", "year", "your", "good", "some", "could", "them",
	"see", "other", "than", "then", "now", "look", "only", "come", "its", "over",
	"think", "also", "back", "after", "use", "two", "how", "our", "work", "first",
	"well", "way", "even", "new", "want", "because", "any", "these", "give", "day",
	"most", "us",
}

// commonWords follow the special words. "any" and "other" also appear in
// specialWords, and "few" and "same" appear twice; every repeat keeps the id
// of its first occurrence and is classified as special where applicable.
var commonWords = []string{
	"very", "much", "still", "should", "through", "before", "here", "too", "any", "each",
	"those", "same", "both", "every", "few", "many", "such", "long", "great", "little",
	"own", "other", "old", "right", "big", "high", "different", "small", "large",
	"next", "early", "young", "important", "few", "public", "bad", "same", "able",
}

var (
	specialSet = toSet(specialWords)
	commonSet  = difference(toSet(commonWords), specialSet)
)

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func difference(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a))
	for w := range a {
		if _, ok := b[w]; !ok {
			out[w] = struct{}{}
		}
	}
	return out
}

// IsSpecial reports whether the lower-cased word is in the special list.
func IsSpecial(word string) bool {
	_, ok := specialSet[word]
	return ok
}

// IsCommon reports whether the lower-cased word is in the common list and not
// in the special list.
func IsCommon(word string) bool {
	_, ok := commonSet[word]
	return ok
}

// SpecialWords returns the special seed words in seeding order.
func SpecialWords() []string {
	return append([]string(nil), specialWords...)
}

// CommonWords returns the common seed words in seeding order, without words
// that are already special and without repeats.
func CommonWords() []string {
	out := make([]string, 0, len(commonSet))
	seen := make(map[string]struct{}, len(commonSet))
	for _, w := range commonWords {
		if _, ok := commonSet[w]; !ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
