// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package utilfn

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// MarshalIndentNoHTMLString marshals the value to JSON with indentation and SetEscapeHTML(false), returning a string
func MarshalIndentNoHTMLString(v any, prefix, indent string) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent(prefix, indent)
	err := encoder.Encode(v)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func MustPrettyPrintJSON(v any) string {
	str, _ := MarshalIndentNoHTMLString(v, "", "  ")
	return str
}

func ReUnmarshal(out any, in any) error {
	barr, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(barr, out)
}

// does a mapstructure using "json" tags
func DoMapStructure(out any, input any) error {
	dconfig := &mapstructure.DecoderConfig{
		Result:  out,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(dconfig)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// DoWeakMapStructure is DoMapStructure with weak typing ("true" -> true, 1 -> "1", etc).
// Used for hand-written input (YAML layout files) where scalars are loosely typed.
// Keys of input that do not map to a field are returned in unused.
func DoWeakMapStructure(out any, input any) (unused []string, err error) {
	var md mapstructure.Metadata
	dconfig := &mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		Metadata:         &md,
	}
	decoder, err := mapstructure.NewDecoder(dconfig)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(input); err != nil {
		return nil, err
	}
	return md.Unused, nil
}
