package config

import (
	"fmt"
	"strings"
)

// Section headers for the three categories of the generated file.
const (
	unboundHeader = ";; UNBOUND CONFIG VARS:"
	unusedHeader  = ";; UNUSED CONFIG ENTRIES:"
	usedHeader    = ";; CONFIG ENTRIES:"
)

// Declarations is an immutable snapshot of everything the declaration
// mechanism knows: per-name defaults, the required-without-default
// set, and a documentation lookup. Build one via Registry.Declarations
// or assemble it by hand for out-of-process generation.
type Declarations struct {
	// Defaults maps each defaulted name to its default value.
	Defaults map[Name]any

	// Required holds names whose declaration mandates a configured
	// value and specified no default.
	Required map[Name]bool

	// Doc looks up documentation for a name. May be nil.
	Doc DocFunc
}

// Classification partitions the relevant names of one reconciliation.
// The three slices are pairwise disjoint and sorted ascending.
type Classification struct {
	// Unbound: required names with neither a configured value nor a
	// default. These will be unbound at runtime.
	Unbound []Name

	// Unused: configured or defaulted names no declaration currently
	// wants, e.g. stale entries left behind by removed declarations.
	Unused []Name

	// Used: names both wanted and resolvable.
	Used []Name
}

// Classify computes the set algebra of one reconciliation:
//
//	available = keys(configured) ∪ keys(defaults)
//	wanted    = required ∪ keys(defaults)
//	unbound   = required − available
//	unused    = available − wanted
//	used      = available ∩ wanted
//
// A name configured but never declared anywhere still counts as
// available, so it surfaces under unused rather than vanishing.
func Classify(decls Declarations, configured map[Name]any) Classification {
	available := make(map[Name]bool, len(configured)+len(decls.Defaults))
	for n := range configured {
		available[n] = true
	}
	for n := range decls.Defaults {
		available[n] = true
	}

	wanted := make(map[Name]bool, len(decls.Required)+len(decls.Defaults))
	for n := range decls.Required {
		wanted[n] = true
	}
	for n := range decls.Defaults {
		wanted[n] = true
	}

	unbound := make(map[Name]bool)
	for n := range decls.Required {
		if !available[n] {
			unbound[n] = true
		}
	}

	unused := make(map[Name]bool)
	used := make(map[Name]bool)
	for n := range available {
		if wanted[n] {
			used[n] = true
		} else {
			unused[n] = true
		}
	}

	return Classification{
		Unbound: sortedNames(unbound),
		Unused:  sortedNames(unused),
		Used:    sortedNames(used),
	}
}

// Generate reconciles declarations against the configured values and
// renders the canonical config file content: a single map literal
// containing the unbound, unused, and used sections in that order,
// each section present only when non-empty. Output is deterministic
// for identical inputs regardless of map iteration order.
func Generate(decls Declarations, configured map[Name]any) string {
	class := Classify(decls, configured)
	f := formatter{docs: decls.Doc}

	var sections []string

	if len(class.Unbound) > 0 {
		blocks := make([]string, len(class.Unbound))
		for i, n := range class.Unbound {
			blocks[i] = f.renderUnbound(n)
		}
		sections = append(sections, section(unboundHeader, blocks))
	}

	if len(class.Unused) > 0 {
		blocks := make([]string, len(class.Unused))
		for i, n := range class.Unused {
			// Unused names are never defaulted, so the configured value
			// is always present here.
			blocks[i] = f.renderEntry(n, configured[n])
		}
		sections = append(sections, section(unusedHeader, blocks))
	}

	if len(class.Used) > 0 {
		blocks := make([]string, len(class.Used))
		for i, n := range class.Used {
			value, hasValue := configured[n]
			defaultValue, hasDefault := decls.Defaults[n]

			switch {
			case hasValue && hasDefault:
				blocks[i] = f.renderEntryDefault(n, value, defaultValue)
			case hasValue:
				blocks[i] = f.renderEntry(n, value)
			default:
				// used ⊆ wanted, so an unconfigured used name must carry
				// a default.
				blocks[i] = f.renderDefaultOnly(n, defaultValue)
			}
		}
		sections = append(sections, section(usedHeader, blocks))
	}

	if len(sections) == 0 {
		return "{\n}"
	}
	return "{\n\n" + strings.Join(sections, "\n\n") + "\n\n}"
}

// section joins one header with its blocks, blank line separated.
func section(header string, blocks []string) string {
	return header + "\n\n" + strings.Join(blocks, "\n\n")
}

// CheckUnbound implements the strict-mode post-generation check: it
// returns ErrUnboundVars listing the sorted unbound names, or nil when
// every required name is resolvable.
func CheckUnbound(decls Declarations, configured map[Name]any) error {
	class := Classify(decls, configured)
	if len(class.Unbound) == 0 {
		return nil
	}

	names := make([]string, len(class.Unbound))
	for i, n := range class.Unbound {
		names[i] = n.String()
	}
	return fmt.Errorf("%w: %s", ErrUnboundVars, strings.Join(names, ", "))
}
