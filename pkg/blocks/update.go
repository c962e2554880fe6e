// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package blocks

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/wavetermdev/waveblocks/pkg/util/utilfn"
	"github.com/wavetermdev/waveblocks/pkg/utilds"
)

const TypeKey = "__type__"
const UpdateTypeTag = "update"
const UnchangedTypeTag = "unchanged"

// UnchangedType marks an update field the caller did not mention.
type UnchangedType struct{}

// Unchanged is the sentinel carried by update payload fields that were not set.
var Unchanged = UnchangedType{}

func (UnchangedType) MarshalJSON() ([]byte, error) {
	return []byte(`{"` + TypeKey + `":"` + UnchangedTypeTag + `"}`), nil
}

func (UnchangedType) String() string {
	return UnchangedTypeTag
}

// Opt is an update field: either unset (leave unchanged) or set to a value (which may be a zero value).
type Opt[T any] struct {
	val T
	set bool
}

func Set[T any](v T) Opt[T] {
	return Opt[T]{val: v, set: true}
}

func (o Opt[T]) IsSet() bool {
	return o.set
}

func (o Opt[T]) Get() (T, bool) {
	return o.val, o.set
}

// PayloadVal is the value placed into an update payload.
func (o Opt[T]) PayloadVal() any {
	if !o.set {
		return Unchanged
	}
	return o.val
}

// Update is a partial-update payload. Every field key maps either to a value or to Unchanged.
type Update map[string]any

func MakeUpdate() Update {
	return Update{TypeKey: UpdateTypeTag}
}

func (u Update) IsUpdate() bool {
	tag, _ := u[TypeKey].(string)
	return tag == UpdateTypeTag
}

func (u Update) IsUnchanged(key string) bool {
	val, ok := u[key]
	if !ok {
		return true
	}
	_, unchanged := val.(UnchangedType)
	return unchanged
}

// SetFields returns the keys that carry a real value, sorted.
func (u Update) SetFields() []string {
	var rtn []string
	for key := range u {
		if key == TypeKey || u.IsUnchanged(key) {
			continue
		}
		rtn = append(rtn, key)
	}
	sort.Strings(rtn)
	return rtn
}

func isUnchangedMarker(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	tag, _ := m[TypeKey].(string)
	return tag == UnchangedTypeTag
}

// DecodeUpdate parses a JSON update payload, restoring Unchanged markers.
func DecodeUpdate(data []byte) (Update, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, utilds.MakeCodedError(utilds.ErrCode_Update, fmt.Errorf("invalid update payload: %w", err))
	}
	u := Update(m)
	if !u.IsUpdate() {
		return nil, utilds.Errorf(utilds.ErrCode_Update, "payload %s is %v, not %q", TypeKey, m[TypeKey], UpdateTypeTag)
	}
	for key, val := range u {
		if isUnchangedMarker(val) {
			u[key] = Unchanged
		}
	}
	return u, nil
}

// GetUpdateField decodes field key of u into out.
// Returns false (and leaves out alone) when the field is unchanged.
func GetUpdateField[T any](u Update, key string, out *T) (bool, error) {
	if u.IsUnchanged(key) {
		return false, nil
	}
	raw := u[key]
	if raw == nil {
		var zero T
		*out = zero
		return true, nil
	}
	if typed, ok := raw.(T); ok {
		*out = typed
		return true, nil
	}
	var decoded T
	if err := utilfn.DoMapStructure(&decoded, raw); err != nil {
		return false, utilds.MakeSubCodedError(utilds.ErrCode_Update, key, fmt.Errorf("update field %q: %w", key, err))
	}
	*out = decoded
	return true, nil
}
