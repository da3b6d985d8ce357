package tokenizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned by ParseIDs for input that is neither a
// bracketed integer array nor a comma-separated integer list.
var ErrInvalidFormat = errors.New("invalid format, use [1,2,3] or 1,2,3")

// ParseIDs parses user-supplied token ids.
//
// Input wrapped in brackets is read as a JSON array whose elements are
// integers or arrays of integers. Nested arrays are flattened one level so
// that the output of line-grouped encoding, [[1,2],[3]], can be pasted back
// as-is. Any other input is read as a comma-separated list of integers.
//
// Every failure wraps ErrInvalidFormat.
func ParseIDs(input string) ([]int64, error) {
	trimmed := strings.TrimSpace(input)

	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		return parseArray(trimmed)
	}

	return parseList(trimmed)
}

func parseArray(s string) ([]int64, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(s), &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	out := make([]int64, 0, len(elems))
	for i, raw := range elems {
		raw = json.RawMessage(strings.TrimSpace(string(raw)))

		if len(raw) > 0 && raw[0] == '[' {
			var inner []json.RawMessage
			if err := json.Unmarshal(raw, &inner); err != nil {
				return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidFormat, i, err)
			}
			for j, v := range inner {
				id, err := parseInt(string(v))
				if err != nil {
					return nil, fmt.Errorf("%w: element %d.%d: %v", ErrInvalidFormat, i, j, err)
				}
				out = append(out, id)
			}
			continue
		}

		id, err := parseInt(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidFormat, i, err)
		}
		out = append(out, id)
	}

	return out, nil
}

func parseList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")

	out := make([]int64, 0, len(parts))
	for i, p := range parts {
		id, err := parseInt(p)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidFormat, i, err)
		}
		out = append(out, id)
	}

	return out, nil
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value")
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}

	return id, nil
}
