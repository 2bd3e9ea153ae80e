package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// envTag is the value-substitution directive: #config/env "VAR" reads
// the named environment variable at load time. An unset variable
// substitutes nil.
const envTag = "config/env"

// ReadConfig parses canonical config file content: a single map
// literal keyed by qualified symbols. Line comments (;) and discarded
// forms (#_) are skipped, so generated placeholders and inert defaults
// round-trip silently.
func ReadConfig(data []byte) (map[Name]any, error) {
	rd := &reader{src: string(data)}

	form, err := rd.readForm()
	if err != nil {
		return nil, err
	}

	m, ok := form.(map[any]any)
	if !ok {
		return nil, fmt.Errorf("config file must contain a map literal, got %T", form)
	}

	rd.skipSpace()
	if rd.pos < len(rd.src) {
		return nil, fmt.Errorf("unexpected trailing content at offset %d", rd.pos)
	}

	result := make(map[Name]any, len(m))
	for k, v := range m {
		name, ok := k.(Name)
		if !ok {
			return nil, fmt.Errorf("config keys must be qualified symbols, got %v (%T)", k, k)
		}
		result[name] = v
	}
	return result, nil
}

// reader is a minimal EDN reader covering the forms the generator
// emits plus the env substitution tag.
type reader struct {
	src string
	pos int
}

// skipSpace advances past whitespace (commas included), line comments,
// and discarded forms.
func (rd *reader) skipSpace() {
	for rd.pos < len(rd.src) {
		c := rd.src[rd.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',':
			rd.pos++
		case c == ';':
			for rd.pos < len(rd.src) && rd.src[rd.pos] != '\n' {
				rd.pos++
			}
		case c == '#' && rd.pos+1 < len(rd.src) && rd.src[rd.pos+1] == '_':
			rd.pos += 2
			// Discard exactly one following form.
			if _, err := rd.readForm(); err != nil {
				return
			}
		default:
			return
		}
	}
}

// readForm reads the next form.
func (rd *reader) readForm() (any, error) {
	rd.skipSpace()
	if rd.pos >= len(rd.src) {
		return nil, fmt.Errorf("unexpected end of input at offset %d", rd.pos)
	}

	switch c := rd.src[rd.pos]; {
	case c == '{':
		return rd.readMap()
	case c == '[':
		return rd.readVector()
	case c == '"':
		return rd.readString()
	case c == ':':
		return rd.readKeyword()
	case c == '#':
		return rd.readTagged()
	case c == '}' || c == ']':
		return nil, fmt.Errorf("unexpected %q at offset %d", c, rd.pos)
	default:
		return rd.readAtom()
	}
}

func (rd *reader) readMap() (any, error) {
	rd.pos++ // consume '{'
	m := make(map[any]any)

	for {
		rd.skipSpace()
		if rd.pos >= len(rd.src) {
			return nil, fmt.Errorf("unterminated map literal")
		}
		if rd.src[rd.pos] == '}' {
			rd.pos++
			return m, nil
		}

		key, err := rd.readForm()
		if err != nil {
			return nil, err
		}

		rd.skipSpace()
		if rd.pos < len(rd.src) && rd.src[rd.pos] == '}' {
			return nil, fmt.Errorf("map literal has key %v with no value", key)
		}

		value, err := rd.readForm()
		if err != nil {
			return nil, err
		}
		m[key] = value
	}
}

func (rd *reader) readVector() (any, error) {
	rd.pos++ // consume '['
	var items []any

	for {
		rd.skipSpace()
		if rd.pos >= len(rd.src) {
			return nil, fmt.Errorf("unterminated vector literal")
		}
		if rd.src[rd.pos] == ']' {
			rd.pos++
			return items, nil
		}

		item, err := rd.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (rd *reader) readString() (any, error) {
	rd.pos++ // consume opening quote
	var sb strings.Builder

	for rd.pos < len(rd.src) {
		c := rd.src[rd.pos]
		switch c {
		case '"':
			rd.pos++
			return sb.String(), nil
		case '\\':
			rd.pos++
			if rd.pos >= len(rd.src) {
				return nil, fmt.Errorf("unterminated string escape")
			}
			switch e := rd.src[rd.pos]; e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"', '\\':
				sb.WriteByte(e)
			default:
				return nil, fmt.Errorf("unsupported string escape \\%c", e)
			}
			rd.pos++
		default:
			sb.WriteByte(c)
			rd.pos++
		}
	}
	return nil, fmt.Errorf("unterminated string literal")
}

func (rd *reader) readKeyword() (any, error) {
	rd.pos++ // consume ':'
	token := rd.readToken()
	if token == "" {
		return nil, fmt.Errorf("empty keyword at offset %d", rd.pos)
	}
	return Keyword(token), nil
}

// readTagged handles dispatch forms. Only the env substitution tag is
// supported; #_ is consumed by skipSpace before this is reached.
func (rd *reader) readTagged() (any, error) {
	rd.pos++ // consume '#'
	tag := rd.readToken()
	if tag != envTag {
		return nil, fmt.Errorf("unsupported tagged literal #%s", tag)
	}

	form, err := rd.readForm()
	if err != nil {
		return nil, err
	}
	varName, ok := form.(string)
	if !ok {
		return nil, fmt.Errorf("#%s requires a string argument, got %T", envTag, form)
	}

	if value, exists := os.LookupEnv(varName); exists {
		return value, nil
	}
	return nil, nil
}

func (rd *reader) readAtom() (any, error) {
	start := rd.pos
	token := rd.readToken()
	if token == "" {
		return nil, fmt.Errorf("unexpected character %q at offset %d", rd.src[rd.pos], rd.pos)
	}

	switch token {
	case "nil":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	if c := token[0]; c == '-' || c == '+' || (c >= '0' && c <= '9') {
		if i, err := strconv.ParseInt(token, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(token, 64); err == nil {
			return f, nil
		}
		if c != '+' && c != '-' {
			return nil, fmt.Errorf("invalid number %q at offset %d", token, start)
		}
	}

	name, err := ParseName(token)
	if err != nil {
		return nil, fmt.Errorf("invalid symbol %q at offset %d", token, start)
	}
	return name, nil
}

// readToken consumes characters up to the next delimiter.
func (rd *reader) readToken() string {
	start := rd.pos
	for rd.pos < len(rd.src) {
		c := rd.src[rd.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',' ||
			c == '{' || c == '}' || c == '[' || c == ']' || c == '"' || c == ';' {
			break
		}
		rd.pos++
	}
	return rd.src[start:rd.pos]
}
