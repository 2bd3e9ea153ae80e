package config

import "strings"

const (
	// maxLineWidth is the single-line budget for rendered entries.
	maxLineWidth = 80

	// discardMarker disables a form when the file is reloaded.
	discardMarker = "#_"

	// commentPrefix introduces documentation and section comments.
	commentPrefix = ";;"
)

// DocFunc looks up the documentation attached to a declared name. A
// false return means no documentation; implementations must not panic.
type DocFunc func(Name) (string, bool)

// formatter renders single declarations into canonical text blocks.
// Documentation lookup is injected so rendering has no dependency on
// how declarations store their docs.
type formatter struct {
	docs DocFunc
}

// needsSplit reports whether rendered fragments must be laid out one
// per line: any fragment with an embedded newline forces a split, as
// does a joined width over the line budget (fragment lengths plus one
// separating space between each pair).
func needsSplit(fragments ...string) bool {
	width := len(fragments) - 1
	for _, f := range fragments {
		if strings.Contains(f, "\n") {
			return true
		}
		width += len(f)
	}
	return width > maxLineWidth
}

// joinFragments lays fragments out on one line when they fit the
// budget, otherwise one fragment per line.
func joinFragments(fragments ...string) string {
	if needsSplit(fragments...) {
		return strings.Join(fragments, "\n")
	}
	return strings.Join(fragments, " ")
}

// renderDoc produces the comment block for a name's documentation, or
// "" when the name has none. The first line of a docstring is at zero
// indent while continuation lines carry the declaration site's indent,
// so the minimum leading whitespace of the non-first lines is stripped
// before commenting.
func (f formatter) renderDoc(name Name) string {
	if f.docs == nil {
		return ""
	}
	doc, ok := f.docs(name)
	if !ok || doc == "" {
		return ""
	}

	lines := strings.Split(doc, "\n")

	// Drop leading and trailing blank lines.
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	indent := -1
	for _, line := range lines[1:] {
		width := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || width < indent {
			indent = width
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if i > 0 && indent > 0 && len(line) >= indent {
			line = line[indent:]
		}
		out[i] = commentPrefix + " " + line
	}
	return strings.Join(out, "\n")
}

// renderEntry renders an active name/value pair.
func (f formatter) renderEntry(name Name, value any) string {
	return joinFragments(name.String(), printValue(value))
}

// renderEntryDefault renders an active name/value pair whose
// declaration also carries a default; the default trails the value
// behind the discard marker so it stays inert on reload.
func (f formatter) renderEntryDefault(name Name, value, defaultValue any) string {
	entry := joinFragments(name.String(), printValue(value), discardMarker+printValue(defaultValue))
	return f.withDoc(name, entry)
}

// renderUnbound renders a commented-out placeholder for a required
// name that has neither a value nor a default.
func (f formatter) renderUnbound(name Name) string {
	return f.withDoc(name, discardMarker+name.String())
}

// renderDefaultOnly renders a declared-but-unconfigured name alongside
// its default, both disabled, as an editable template for the entry.
func (f formatter) renderDefaultOnly(name Name, defaultValue any) string {
	entry := joinFragments(discardMarker+name.String(), discardMarker+printValue(defaultValue))
	return f.withDoc(name, entry)
}

// withDoc prepends the name's documentation block when present.
func (f formatter) withDoc(name Name, entry string) string {
	if doc := f.renderDoc(name); doc != "" {
		return doc + "\n" + entry
	}
	return entry
}
