package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// declaration holds everything one declaration site recorded for a name.
type declaration struct {
	defaultValue any
	hasDefault   bool
	required     bool
	doc          string
}

// Registry collects configuration declarations from anywhere in a
// codebase so they can be reconciled centrally. It is an explicit
// object rather than process-global state; the discovery step that
// walks a codebase builds one per invocation.
type Registry struct {
	mutex sync.RWMutex
	decls map[Name]declaration
}

// NewRegistry creates an empty declaration registry.
func NewRegistry() *Registry {
	return &Registry{
		decls: make(map[Name]declaration),
	}
}

// DeclareOptions describes one declaration. A declaration either
// carries a default (HasDefault) or mandates a configured value
// (Required); it never does both.
type DeclareOptions struct {
	// Default is the value used when nothing is configured.
	// Only meaningful when HasDefault is set: a nil default is a
	// legitimate value, so presence is tracked explicitly.
	Default    any
	HasDefault bool

	// Required marks a name that must be configured at runtime.
	Required bool

	// Doc is the documentation rendered above the generated entry.
	Doc string
}

// Declare records a declaration for the given qualified name.
// Re-declaring a name replaces the previous declaration, matching
// reload-a-declaration-site semantics.
func (r *Registry) Declare(name string, opts DeclareOptions) error {
	n, err := ParseName(name)
	if err != nil {
		return err
	}
	if opts.Required && opts.HasDefault {
		return fmt.Errorf("declaration %q cannot be both required and defaulted", name)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.decls[n] = declaration{
		defaultValue: opts.Default,
		hasDefault:   opts.HasDefault,
		required:     opts.Required,
		doc:          opts.Doc,
	}
	return nil
}

// DeclareDefault declares a name with a default value and optional doc.
func (r *Registry) DeclareDefault(name string, defaultValue any, doc string) error {
	return r.Declare(name, DeclareOptions{Default: defaultValue, HasDefault: true, Doc: doc})
}

// DeclareRequired declares a name that must be configured, with
// optional doc.
func (r *Registry) DeclareRequired(name string, doc string) error {
	return r.Declare(name, DeclareOptions{Required: true, Doc: doc})
}

// Undeclare removes a declaration.
func (r *Registry) Undeclare(name string) error {
	n, err := ParseName(name)
	if err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.decls[n]; !exists {
		return fmt.Errorf("name not declared: %s", name)
	}
	delete(r.decls, n)
	return nil
}

// DeclareStruct declares one defaulted name per exported field of the
// given struct, under the given namespace. Field names come from the
// `config` tag when present; nested structs contribute dotted local
// names ("db.host"). Fields tagged "-" are skipped.
func (r *Registry) DeclareStruct(namespace string, structWithDefaults any) error {
	v := reflect.ValueOf(structWithDefaults)

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("DeclareStruct requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("DeclareStruct requires a struct or struct pointer, got %T", structWithDefaults)
	}

	var errs []string
	r.declareFields(v, namespace, "", &errs)

	if len(errs) > 0 {
		return fmt.Errorf("failed to declare %d field(s): %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// declareFields walks struct fields recursively, accumulating errors
// rather than stopping at the first bad field.
func (r *Registry) declareFields(v reflect.Value, namespace, localPrefix string, errs *[]string) {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("config")
		if tag == "-" {
			continue
		}

		key := field.Name
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				key = parts[0]
			}
		}

		local := key
		if localPrefix != "" {
			local = localPrefix + "." + key
		}

		fieldType := fieldValue.Type()
		isStruct := fieldValue.Kind() == reflect.Struct
		isPtrToStruct := fieldValue.Kind() == reflect.Ptr && fieldType.Elem().Kind() == reflect.Struct

		if isStruct || isPtrToStruct {
			nested := fieldValue
			if isPtrToStruct {
				if fieldValue.IsNil() {
					// Nil pointers give no well-defined default.
					continue
				}
				nested = fieldValue.Elem()
			}
			r.declareFields(nested, namespace, local, errs)
			continue
		}

		name := namespace + "/" + local
		doc := field.Tag.Get("doc")
		if err := r.DeclareDefault(name, fieldValue.Interface(), doc); err != nil {
			*errs = append(*errs, fmt.Sprintf("field %s (name %s): %v", field.Name, name, err))
		}
	}
}

// Names returns all declared names whose canonical form starts with
// the given prefix ("" for all).
func (r *Registry) Names(prefix string) map[Name]bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[Name]bool)
	for n := range r.decls {
		if strings.HasPrefix(n.String(), prefix) {
			result[n] = true
		}
	}
	return result
}

// Doc returns the documentation declared for a name.
func (r *Registry) Doc(n Name) (string, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	d, exists := r.decls[n]
	if !exists || d.doc == "" {
		return "", false
	}
	return d.doc, true
}

// Default returns a name's declared default value.
func (r *Registry) Default(n Name) (any, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	d, exists := r.decls[n]
	if !exists || !d.hasDefault {
		return nil, false
	}
	return d.defaultValue, true
}

// Declarations snapshots the registry for reconciliation. The snapshot
// is independent of later registry mutation except for the Doc lookup,
// which reads through to the registry (doc retrieval is defined to be
// best-effort and never fails).
func (r *Registry) Declarations() Declarations {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	defaults := make(map[Name]any)
	required := make(map[Name]bool)
	for n, d := range r.decls {
		if d.hasDefault {
			defaults[n] = d.defaultValue
		}
		if d.required {
			required[n] = true
		}
	}

	return Declarations{
		Defaults: defaults,
		Required: required,
		Doc:      r.Doc,
	}
}
