package seo

import (
	"encoding/json"
	"fmt"
)

// SerializeJSONLD marshals a schema value to a compact JSON string.
// encoding/json escapes "<" to "\u003c" inside string values, which means a
// literal "</script>" in the input cannot prematurely close an embedding
// <script> tag. That escaping is part of this function's contract, not an
// implementation accident; the output otherwise round-trips to an object
// deep-equal to the input.
func SerializeJSONLD(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("seo: serialize json-ld: %w", err)
	}
	return string(b), nil
}

// ScriptType is the MIME type for embedded JSON-LD scripts.
const ScriptType = "application/ld+json"

// Script is the embed record a rendering layer turns into a script tag.
// No markup is produced here; that belongs to the presentation layer.
type Script struct {
	Type    string
	Content string
}

// NewScript serializes v and wraps it with the ld+json script type.
func NewScript(v any) (Script, error) {
	content, err := SerializeJSONLD(v)
	if err != nil {
		return Script{}, err
	}
	return Script{Type: ScriptType, Content: content}, nil
}
