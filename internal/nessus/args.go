// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Args carries loosely typed operation arguments. Values may be Go strings,
// bools, integers, float64 or json.Number (as produced by encoding/json),
// slices of those, or comma separated strings for list arguments.
type Args map[string]any

func normalizeKey(k string) string {
	k = strings.ToLower(k)
	return strings.NewReplacer("_", "", "-", "").Replace(k)
}

// lookup returns the first present, non-nil value among keys.
func (a Args) lookup(keys ...string) (any, bool) {
	if len(a) == 0 {
		return nil, false
	}
	for _, want := range keys {
		nk := normalizeKey(want)
		for k, v := range a {
			if v != nil && normalizeKey(k) == nk {
				return v, true
			}
		}
	}
	return nil, false
}

// String returns the first present key as a trimmed string, or "".
func (a Args) String(keys ...string) string {
	v, ok := a.lookup(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Text returns the first present key as given, without trimming. Names are
// sent the way the caller wrote them.
func (a Args) Text(keys ...string) string {
	v, ok := a.lookup(keys...)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the first present key as an integer. A missing or empty value
// is 0; a value that is not an integer is an InvalidArgument error naming field.
func (a Args) Int(field string, keys ...string) (int64, error) {
	v, ok := a.lookup(keys...)
	if !ok {
		return 0, nil
	}
	n, ok := toInt(v)
	if !ok {
		return 0, invalidArgument("%s must be a positive integer", field)
	}
	return n, nil
}

// Ints returns a list of integers from a slice or a comma separated string.
func (a Args) Ints(field string, keys ...string) ([]int64, error) {
	v, ok := a.lookup(keys...)
	if !ok {
		return nil, nil
	}
	var items []any
	switch t := v.(type) {
	case string:
		for _, s := range splitList(t) {
			items = append(items, s)
		}
	case []any:
		items = t
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	case []int:
		for _, n := range t {
			items = append(items, n)
		}
	case []int64:
		return append([]int64(nil), t...), nil
	default:
		items = []any{t}
	}
	out := make([]int64, 0, len(items))
	for _, it := range items {
		n, ok := toInt(it)
		if !ok {
			return nil, invalidArgument("%s must contain only positive integers", field)
		}
		out = append(out, n)
	}
	return out, nil
}

// Strings returns a list of trimmed, non-empty strings from a slice or a comma
// separated string. A missing or blank value is nil.
func (a Args) Strings(keys ...string) []string {
	v, ok := a.lookup(keys...)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return splitList(t)
	case []string:
		return splitList(strings.Join(t, ","))
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			parts = append(parts, fmt.Sprint(it))
		}
		return splitList(strings.Join(parts, ","))
	default:
		return splitList(fmt.Sprint(t))
	}
}

// Bool returns the first present key as a bool; missing is false.
func (a Args) Bool(keys ...string) (bool, error) {
	v, ok := a.lookup(keys...)
	if !ok {
		return false, nil
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, invalidArgument("%s must be true or false", keys[0])
		}
		return b, nil
	default:
		return false, invalidArgument("%s must be true or false", keys[0])
	}
}

func (a Args) pagination() (*PaginationOptions, error) {
	limit, err := a.Int("Limit", "limit")
	if err != nil {
		return nil, err
	}
	offset, err := a.Int("Offset", "offset")
	if err != nil {
		return nil, err
	}
	p := &PaginationOptions{
		Limit:  int(limit),
		Offset: int(offset),
		Sort:   a.String("sort"),
		Order:  a.String("order"),
	}
	if *p == (PaginationOptions{}) {
		return nil, nil
	}
	return p, nil
}

func (a Args) exportRef() (int64, int64, error) {
	id, err := a.Int(fieldScanID, "scanId", "id")
	if err != nil {
		return 0, 0, err
	}
	file, err := a.Int("File ID", "fileId", "file")
	if err != nil {
		return 0, 0, err
	}
	return id, file, nil
}

func (a Args) policyPayload() (PolicyPayload, error) {
	p := PolicyPayload{
		TemplateUUID: a.String("policyUuid", "templateUuid", "uuid"),
		Name:         a.String("name", "policyName"),
		Description:  a.String("description"),
	}
	v, ok := a.lookup("settings")
	if !ok {
		return p, nil
	}
	switch t := v.(type) {
	case map[string]any:
		p.Settings = t
	case string:
		if strings.TrimSpace(t) == "" {
			return p, nil
		}
		if err := json.Unmarshal([]byte(t), &p.Settings); err != nil {
			return p, invalidArgument("settings must be a JSON object")
		}
	default:
		return p, invalidArgument("settings must be a JSON object")
	}
	return p, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, true
		}
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
