package record

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString converts various types to string. Numeric values render without a
// trailing ".0"; text segment lists from the remote API are flattened.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if seg, ok := item.(map[string]any); ok {
				if text, ok := seg["text"].(string); ok {
					parts = append(parts, text)
					continue
				}
			}
			parts = append(parts, ToString(item))
		}
		return strings.Join(parts, "")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Truthy reports whether a value is non-empty in the loose sense used when
// deciding to apply defaults: nil, false, zero numbers, empty strings and
// empty collections are all falsy.
func Truthy(val any) bool {
	switch v := val.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

// ToStringSlice converts a value to a slice of strings. Scalars become a
// single-element slice; nil becomes nil.
func ToStringSlice(val any) []string {
	switch v := val.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, ToString(item))
		}
		return out
	default:
		return []string{ToString(v)}
	}
}

// CollapseSpaces trims a string and collapses internal whitespace runs to
// single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
