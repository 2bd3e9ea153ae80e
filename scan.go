package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes one namespace's resolved values into the target struct
// or map. Locals become field names via the `config` tag; dotted
// locals ("db.host") populate nested structs. The target must be a
// non-nil pointer.
func Scan(decls Declarations, configured map[Name]any, namespace string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("target of Scan must be a non-nil pointer, got %T", target)
	}

	resolved := Resolve(decls, configured)

	nested := make(map[string]any)
	for n, value := range resolved {
		if n.Namespace != namespace {
			continue
		}
		setNestedValue(nested, n.Local, value)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "config",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			keywordToStringHook(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(nested); err != nil {
		return fmt.Errorf("failed to scan namespace %q into %T: %w", namespace, target, err)
	}
	return nil
}

// keywordToStringHook lets keyword-valued entries populate plain
// string fields.
func keywordToStringHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if kw, ok := data.(Keyword); ok && to.Kind() == reflect.String {
			return string(kw), nil
		}
		return data, nil
	}
}

// setNestedValue sets a value in a nested map using a dot-notation
// local name, creating intermediate maps as needed. A non-map value
// in the way is replaced by a new map.
func setNestedValue(nested map[string]any, local string, value any) {
	segments := strings.Split(local, ".")
	current := nested

	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]

		next, exists := current[segment]
		if !exists {
			newMap := make(map[string]any)
			current[segment] = newMap
			current = newMap
			continue
		}

		if nextMap, isMap := next.(map[string]any); isMap {
			current = nextMap
		} else {
			newMap := make(map[string]any)
			current[segment] = newMap
			current = newMap
		}
	}

	current[segments[len(segments)-1]] = value
}
