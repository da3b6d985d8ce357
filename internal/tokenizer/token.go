package tokenizer

import (
	"encoding/json"
	"fmt"
)

// Type classifies a token.
type Type uint8

const (
	TypeDefault Type = iota
	TypeCommon
	TypeSpecial
	TypeNumber
	TypePunctuation
	TypeWhitespace
)

var typeNames = [...]string{
	TypeDefault:     "default",
	TypeCommon:      "common",
	TypeSpecial:     "special",
	TypeNumber:      "number",
	TypePunctuation: "punctuation",
	TypeWhitespace:  "whitespace",
}

// Types lists every token type in display order.
func Types() []Type {
	return []Type{TypeCommon, TypeSpecial, TypeNumber, TypePunctuation, TypeWhitespace, TypeDefault}
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if int(t) >= len(typeNames) {
		return nil, fmt.Errorf("unknown token type %d", uint8(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	for i, name := range typeNames {
		if name == string(b) {
			*t = Type(i) //nolint:gosec // len(typeNames) < 256
			return nil
		}
	}
	return fmt.Errorf("unknown token type %q", b)
}

// NoID is the id carried by whitespace tokens, which are never added to the
// vocabulary. It is rendered as JSON null.
const NoID int64 = -1

// Token is one classified span of the input.
type Token struct {
	Text  string
	Type  Type
	Index int   // position in the token sequence, whitespace included
	ID    int64 // vocabulary id, NoID for whitespace
}

// HasID reports whether the token carries a vocabulary id.
func (t Token) HasID() bool { return t.ID >= 0 }

type tokenJSON struct {
	Text         string `json:"text"`
	Type         Type   `json:"type"`
	Index        int    `json:"index"`
	VocabularyID *int64 `json:"vocabularyId"`
}

// MarshalJSON implements json.Marshaler.
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(tokenJSON{Text: t.Text, Type: t.Type, Index: t.Index, VocabularyID: idPtr(t.ID)})
}

// EncodedToken is the display projection of a Token: its id, its original
// text and its type.
type EncodedToken struct {
	ID           int64
	OriginalText string
	Type         Type
}

type encodedTokenJSON struct {
	ID           *int64 `json:"id"`
	OriginalText string `json:"originalText"`
	Type         Type   `json:"type"`
}

// MarshalJSON implements json.Marshaler.
func (e EncodedToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodedTokenJSON{ID: idPtr(e.ID), OriginalText: e.OriginalText, Type: e.Type})
}

// UnmarshalJSON implements json.Unmarshaler. A null or missing id becomes NoID.
func (e *EncodedToken) UnmarshalJSON(b []byte) error {
	var raw encodedTokenJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	e.ID = NoID
	if raw.ID != nil {
		e.ID = *raw.ID
	}
	e.OriginalText = raw.OriginalText
	e.Type = raw.Type

	return nil
}

func idPtr(id int64) *int64 {
	if id < 0 {
		return nil
	}
	return &id
}
