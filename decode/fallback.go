package decode

import (
	"encoding/base64"
	"encoding/json"
	"unicode/utf8"
)

// jsonInterpreter matches any buffer that parses as JSON text and adopts
// the parsed value as-is.
type jsonInterpreter struct{}

func (jsonInterpreter) Tag() Tag { return TagJSON }

func (jsonInterpreter) Attempt(in Input) (any, bool) {
	var v any
	if err := json.Unmarshal(in.Bytes, &v); err != nil {
		return nil, false
	}
	return v, true
}

// textInterpreter matches any non-empty buffer of valid UTF-8 and wraps it
// under a content key. Empty buffers are left to the terminal interpreter.
type textInterpreter struct{}

func (textInterpreter) Tag() Tag { return TagText }

func (textInterpreter) Attempt(in Input) (any, bool) {
	if len(in.Bytes) == 0 || !utf8.Valid(in.Bytes) {
		return nil, false
	}
	return map[string]any{"content": string(in.Bytes)}, true
}

// binaryInterpreter is the terminal fallback. It always matches and
// re-encodes the original pre-decompression bytes, so truly
// uninterpretable input is preserved losslessly.
type binaryInterpreter struct{}

func (binaryInterpreter) Tag() Tag { return TagBase64 }

func (binaryInterpreter) Attempt(in Input) (any, bool) {
	return map[string]any{
		"content":  base64.StdEncoding.EncodeToString(in.Raw),
		"encoding": "base64",
		"format":   "binary",
	}, true
}
