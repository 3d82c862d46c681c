// Package data implements the cascading data mapping and its merge strategies.
package data

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cast"
)

// Reserved keys read by the build core.
const (
	KeyMergedKeys = "mergedKeys"
	KeyURL        = "url"
	KeyDate       = "date"
	KeyContent    = "content"
)

// Strategy declares how a key combines across cascade levels.
type Strategy string

const (
	StrategyReplace     Strategy = "replace"
	StrategyArray       Strategy = "array"
	StrategyStringArray Strategy = "stringArray"
	StrategyObject      Strategy = "object"
)

// ParseStrategy maps a declared strategy name to a Strategy. Unknown names
// behave as StrategyReplace.
func ParseStrategy(v any) Strategy {
	var s Strategy
	switch name := v.(type) {
	case Strategy:
		s = name
	default:
		s = Strategy(toText(v))
	}
	switch s {
	case StrategyArray, StrategyStringArray, StrategyObject:
		return s
	default:
		return StrategyReplace
	}
}

// Data is a page or directory data mapping.
type Data map[string]any

// MergedKeys returns the declared merge strategies of d.
func (d Data) MergedKeys() map[string]Strategy {
	return strategies(d[KeyMergedKeys])
}

// Clone returns a shallow copy of d.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	maps.Copy(out, d)
	return out
}

// Merge folds layers left to right; later layers win. Keys without a declared
// strategy are overwritten shallowly. The mergedKeys meta-mapping merges key by
// key, so any layer can introduce or change a strategy. No input is mutated.
func Merge(layers ...Data) Data {
	result := Data{}
	for _, layer := range layers {
		result = mergePair(result, layer)
	}
	return result
}

func mergePair(previous, current Data) Data {
	out := make(Data, len(previous)+len(current))
	maps.Copy(out, previous)
	maps.Copy(out, current)

	mergedKeys := previous.MergedKeys()
	maps.Copy(mergedKeys, current.MergedKeys())

	for key, strategy := range mergedKeys {
		switch strategy {
		case StrategyArray:
			out[key] = mergeArrays(previous[key], current[key])
		case StrategyStringArray:
			out[key] = mergeStringArrays(previous[key], current[key])
		case StrategyObject:
			out[key] = mergeObjects(previous[key], current[key])
		}
	}

	if len(mergedKeys) > 0 {
		out[KeyMergedKeys] = mergedKeys
	} else {
		delete(out, KeyMergedKeys)
	}
	return out
}

func strategies(v any) map[string]Strategy {
	out := map[string]Strategy{}
	switch m := v.(type) {
	case nil:
	case map[string]Strategy:
		maps.Copy(out, m)
	default:
		for k, s := range asMap(v) {
			out[k] = ParseStrategy(s)
		}
	}
	return out
}

// toSlice treats absent values as empty and scalars as one-element sequences.
func toSlice(v any) []any {
	if v == nil {
		return nil
	}
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func mergeArrays(previous, current any) []any {
	merged := append(append([]any{}, toSlice(previous)...), toSlice(current)...)
	out := make([]any, 0, len(merged))
	for _, item := range merged {
		seen := false
		for _, kept := range out {
			if structurallyEqual(kept, item) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, item)
		}
	}
	return out
}

func mergeStringArrays(previous, current any) []string {
	merged := append(append([]any{}, toSlice(previous)...), toSlice(current)...)
	out := make([]string, 0, len(merged))
	seen := make(map[string]struct{}, len(merged))
	for _, item := range merged {
		s := toText(item)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// toText converts v to its text form. Named string types and values cast
// cannot handle fall back to fmt formatting.
func toText(v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func mergeObjects(previous, current any) map[string]any {
	out := map[string]any{}
	maps.Copy(out, asMap(previous))
	maps.Copy(out, asMap(current))
	return out
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case nil:
		return nil
	case Data:
		return m
	case map[string]any:
		return m
	default:
		out, err := cast.ToStringMapE(v)
		if err != nil {
			return nil
		}
		return out
	}
}

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

func structurallyEqual(a, b any) bool {
	return cmp.Equal(a, b, exportAll)
}
