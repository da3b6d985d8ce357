//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/example/go-tokenmaster/internal/stats"
	"github.com/example/go-tokenmaster/internal/tokenizer"
	"github.com/example/go-tokenmaster/internal/vocab"
)

// One table for the lifetime of the page.
var tok = tokenizer.New(vocab.New())

func main() {
	kernel := map[string]any{
		"version":       "0.1.0-wasm",
		"tokenize":      js.FuncOf(tokenizeText),
		"encode":        js.FuncOf(encodeText),
		"encodeLines":   js.FuncOf(encodeLines),
		"encodedTokens": js.FuncOf(encodedTokens),
		"decode":        js.FuncOf(decodeIDs),
		"decodeRecords": js.FuncOf(decodeRecords),
		"stats":         js.FuncOf(textStats),
		"vocabSize":     js.FuncOf(vocabSize),
	}

	js.Global().Set("TokenMasterKernel", js.ValueOf(kernel))
	println("TokenMaster wasm kernel loaded")
	select {}
}

func tokenizeText(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("missing text argument")
	}

	return jsResult("tokens", tok.Tokenize(args[0].String()))
}

func encodeText(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("missing text argument")
	}

	ids, err := tok.Encode(args[0].String())
	if err != nil {
		return errResult(err.Error())
	}

	return jsResult("ids", ids)
}

func encodeLines(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("missing text argument")
	}

	lines, err := tok.EncodeByLine(args[0].String())
	if err != nil {
		return errResult(err.Error())
	}

	return jsResult("lines", lines)
}

func encodedTokens(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("missing text argument")
	}

	records, err := tok.EncodedTokens(args[0].String())
	if err != nil {
		return errResult(err.Error())
	}

	return jsResult("records", records)
}

// decodeIDs accepts either the raw user string ("[1,2,3]" or "1,2,3") or a
// JS array, flat or line-grouped.
func decodeIDs(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("missing ids argument")
	}

	input := args[0]
	raw := ""
	if input.Type() == js.TypeString {
		raw = input.String()
	} else {
		raw = js.Global().Get("JSON").Call("stringify", input).String()
	}

	text, err := tok.DecodeString(raw)
	if err != nil {
		return errResult(err.Error())
	}

	return okResult(map[string]any{"text": text})
}

func decodeRecords(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("missing records argument")
	}

	raw := js.Global().Get("JSON").Call("stringify", args[0]).String()

	var records []tokenizer.EncodedToken
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return errResult(fmt.Sprintf("invalid records: %v", err))
	}

	return okResult(map[string]any{"text": tokenizer.DecodeRecords(records)})
}

func textStats(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("missing text argument")
	}

	return jsResult("stats", stats.ForText(tok, args[0].String()))
}

func vocabSize(_ js.Value, _ []js.Value) any {
	return okResult(map[string]any{"size": tok.Vocabulary().Len()})
}

// jsResult converts v through its JSON form so custom encodings, such as
// null whitespace ids, reach JavaScript unchanged.
func jsResult(key string, v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return errResult(err.Error())
	}

	return okResult(map[string]any{
		key: js.Global().Get("JSON").Call("parse", string(b)),
	})
}

func okResult(payload map[string]any) map[string]any {
	payload["ok"] = true
	return payload
}

func errResult(msg string) map[string]any {
	return map[string]any{
		"ok":    false,
		"error": msg,
	}
}
