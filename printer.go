package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Keyword is a self-evaluating EDN keyword value, stored without the
// leading colon ("log-level" prints as ":log-level").
type Keyword string

// String returns the printed form including the leading colon.
func (k Keyword) String() string {
	return ":" + string(k)
}

// printValue renders a configuration value in its canonical EDN form.
// Callers are expected to pass well-formed serializable values; as a
// last resort unknown types fall back to fmt's %v so rendering never
// fails mid-document.
func printValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case string:
		return quoteString(val)
	case Keyword:
		return val.String()
	case Name:
		return val.String()
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case json.Number:
		return val.String()
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = printValue(item)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case map[any]any:
		return printMap(val)
	case map[string]any:
		converted := make(map[any]any, len(val))
		for k, item := range val {
			converted[k] = item
		}
		return printMap(converted)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// quoteString renders a string literal. Only the quote and backslash
// are escaped; newlines and tabs stay literal, which is what lets the
// layout policy detect multi-line values and split the entry.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
	return sb.String()
}

// printMap renders a map literal with keys in sorted printed order so
// nested maps serialize deterministically.
func printMap(m map[any]any) string {
	type kv struct {
		key   string
		value string
	}

	pairs := make([]kv, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, kv{key: printValue(k), value: printValue(v)})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.key + " " + p.value
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
