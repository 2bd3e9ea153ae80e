package config

import (
	"fmt"
	"sort"
	"strings"
)

// Name identifies a declared configuration var as a qualified symbol:
// a namespace plus a local name, e.g. "com.example.web/port". Names
// order lexicographically on their canonical string form so every
// enumeration in this package is reproducible.
type Name struct {
	Namespace string
	Local     string
}

// NewName builds a Name from its two components.
func NewName(namespace, local string) Name {
	return Name{Namespace: namespace, Local: local}
}

// ParseName parses a qualified symbol of the form "namespace/local".
// The namespace may contain dots ("com.example.web"); the local part
// must not contain a slash. An unqualified symbol (no slash) is valid
// and has an empty namespace.
func ParseName(s string) (Name, error) {
	if s == "" {
		return Name{}, fmt.Errorf("config name cannot be empty")
	}

	idx := strings.Index(s, "/")
	if idx < 0 {
		if !isValidNamePart(s) {
			return Name{}, fmt.Errorf("invalid config name %q", s)
		}
		return Name{Local: s}, nil
	}

	ns, local := s[:idx], s[idx+1:]
	if ns == "" || local == "" {
		return Name{}, fmt.Errorf("invalid config name %q: empty namespace or local part", s)
	}
	if strings.Contains(local, "/") {
		return Name{}, fmt.Errorf("invalid config name %q: local part cannot contain '/'", s)
	}
	if !isValidNamePart(ns) || !isValidNamePart(local) {
		return Name{}, fmt.Errorf("invalid config name %q", s)
	}

	return Name{Namespace: ns, Local: local}, nil
}

// MustParseName is like ParseName but panics on error. Intended for
// declaration sites with literal names.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return n
}

// String returns the canonical "namespace/local" form.
func (n Name) String() string {
	if n.Namespace == "" {
		return n.Local
	}
	return n.Namespace + "/" + n.Local
}

// Less reports whether n sorts before other in canonical order.
func (n Name) Less(other Name) bool {
	return n.String() < other.String()
}

// IsZero reports whether the name is the zero value.
func (n Name) IsZero() bool {
	return n.Namespace == "" && n.Local == ""
}

// sortedNames returns the keys of a name set in ascending canonical order.
func sortedNames(set map[Name]bool) []Name {
	names := make([]Name, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Less(names[j]) })
	return names
}

// isValidNamePart checks one side of a qualified symbol. Segments are
// dot-separated sequences of letters, digits and the symbol
// punctuation commonly seen in namespaced keys (-, _, *, +, !, ?).
func isValidNamePart(s string) bool {
	if s == "" {
		return false
	}
	for _, segment := range strings.Split(s, ".") {
		if !isValidNameSegment(segment) {
			return false
		}
	}
	return true
}

// isValidNameSegment checks a single dot-free segment.
func isValidNameSegment(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'

		switch {
		case isLetter || isDigit:
		case r == '-' || r == '_' || r == '*' || r == '+' || r == '!' || r == '?':
		default:
			return false
		}
	}
	return true
}
