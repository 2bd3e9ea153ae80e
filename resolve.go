package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Resolved is the merged runtime view of one reconciliation: every
// wanted name mapped to its configured value, or to its default when
// nothing was configured. Unbound and unused names do not appear.
type Resolved map[Name]any

// Resolve overlays configured values on declared defaults for the
// names the declarations want.
func Resolve(decls Declarations, configured map[Name]any) Resolved {
	resolved := make(Resolved, len(decls.Defaults))

	for n, def := range decls.Defaults {
		resolved[n] = def
	}
	for n, value := range configured {
		if _, defaulted := decls.Defaults[n]; defaulted || decls.Required[n] {
			resolved[n] = value
		}
	}
	return resolved
}

// Get retrieves a resolved value. The second return value reports
// whether the name resolved at all.
func (r Resolved) Get(name string) (any, bool) {
	n, err := ParseName(name)
	if err != nil {
		return nil, false
	}
	value, exists := r[n]
	return value, exists
}

// String retrieves a string value, converting common scalar types.
func (r Resolved) String(name string) (string, error) {
	val, found := r.Get(name)
	if !found {
		return "", fmt.Errorf("name not resolved: %s", name)
	}
	if val == nil {
		return "", nil
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case Keyword:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to string for name %s", val, name)
	}
}

// Int64 retrieves an int64 value, converting numeric types and
// parsable strings.
func (r Resolved) Int64(name string) (int64, error) {
	val, found := r.Get(name)
	if !found {
		return 0, fmt.Errorf("name not resolved: %s", name)
	}

	switch v := val.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string '%s' to int64: %w", v, err)
		}
		return i, nil
	}
	return 0, fmt.Errorf("cannot convert %T to int64", val)
}

// Bool retrieves a boolean value, converting parsable strings and
// numbers.
func (r Resolved) Bool(name string) (bool, error) {
	val, found := r.Get(name)
	if !found {
		return false, fmt.Errorf("name not resolved: %s", name)
	}

	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("cannot convert string '%s' to bool: %w", v, err)
		}
		return b, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	}
	return false, fmt.Errorf("cannot convert %T to bool", val)
}

// Float64 retrieves a float64 value, converting numeric types and
// parsable strings.
func (r Resolved) Float64(name string) (float64, error) {
	val, found := r.Get(name)
	if !found {
		return 0.0, fmt.Errorf("name not resolved: %s", name)
	}

	switch v := val.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0.0, fmt.Errorf("cannot convert string '%s' to float64: %w", v, err)
		}
		return f, nil
	}
	return 0.0, fmt.Errorf("cannot convert %T to float64", val)
}
