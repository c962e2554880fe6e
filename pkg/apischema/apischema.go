// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package apischema produces JSON schemas describing the values components
// transmit, for documentation and client generators.
package apischema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

func makeReflector(expand bool) *jsonschema.Reflector {
	return &jsonschema.Reflector{
		ExpandedStruct: expand,
		DoNotReference: expand,
	}
}

// Reflect returns the full schema (with $defs) for the type of v.
func Reflect(v any) *jsonschema.Schema {
	return makeReflector(false).Reflect(v)
}

// TypeInfo returns an inlined schema for the type of v as a plain map,
// the shape components return from ApiInfo.
func TypeInfo(v any) (map[string]any, error) {
	schema := makeReflector(true).Reflect(v)
	barr, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema for %T: %w", v, err)
	}
	var rtn map[string]any
	if err := json.Unmarshal(barr, &rtn); err != nil {
		return nil, fmt.Errorf("unmarshaling schema for %T: %w", v, err)
	}
	delete(rtn, "$schema")
	delete(rtn, "$id")
	return rtn, nil
}

// SchemaSet maps a name to the value whose type should be described.
type SchemaSet map[string]any

// MarshalSchemas reflects every entry of set and marshals the result as indented JSON keyed by name.
func MarshalSchemas(set SchemaSet) ([]byte, error) {
	out := make(map[string]*jsonschema.Schema, len(set))
	for name, v := range set {
		out[name] = Reflect(v)
	}
	return json.MarshalIndent(out, "", "  ")
}
