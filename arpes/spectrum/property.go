package spectrum

import (
	"fmt"
	"strings"
)

// Property is an insertion-ordered string map. The zero value is not usable;
// call NewProperty.
//
// Its text form is a Python dict literal with string keys and values, e.g.
//
//	{"Dimension":"(3, 2)","XMin":"0.000000","Path":"C:\\data\\cut.pxt"}
type Property struct {
	keys   []string
	values map[string]string
}

// NewProperty returns an empty property map.
func NewProperty() *Property {
	return &Property{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (p *Property) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (p *Property) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Delete removes key.
func (p *Property) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (p *Property) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of entries.
func (p *Property) Len() int {
	return len(p.keys)
}

// Clone returns an independent copy.
func (p *Property) Clone() *Property {
	c := &Property{
		keys:   append([]string(nil), p.keys...),
		values: make(map[string]string, len(p.values)),
	}
	for k, v := range p.values {
		c.values[k] = v
	}
	return c
}

// Equal reports whether p and q hold the same entries in the same order.
func (p *Property) Equal(q *Property) bool {
	if p.Len() != q.Len() {
		return false
	}
	for i, k := range p.keys {
		if q.keys[i] != k || q.values[k] != p.values[k] {
			return false
		}
	}
	return true
}

// Lines returns one `"Key":"Value"` entry per property, in order.
func (p *Property) Lines() []string {
	out := make([]string, len(p.keys))
	for i, k := range p.keys {
		out[i] = quote(k) + ":" + quote(p.values[k])
	}
	return out
}

// String renders the dict-literal text form.
func (p *Property) String() string {
	return "{" + strings.Join(p.Lines(), ",") + "}"
}

// MarshalText implements encoding.TextMarshaler.
func (p *Property) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Existing entries are
// replaced.
func (p *Property) UnmarshalText(text []byte) error {
	parsed, err := ParseProperty(string(text))
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// ParseProperty parses the dict-literal text form. Surrounding braces are
// optional and entries may be separated by commas and/or newlines, so the
// header lines of a text export parse directly. Both quote styles and
// backslash escapes are accepted.
func ParseProperty(text string) (*Property, error) {
	p := NewProperty()
	r := &dictReader{s: text}

	r.skipSpace()
	braced := r.consume('{')
	for {
		r.skipSeparators()
		if r.eof() {
			if braced {
				return nil, fmt.Errorf("%w: unterminated property dict", ErrParse)
			}
			return p, nil
		}
		if r.consume('}') {
			if !braced {
				return nil, fmt.Errorf("%w: unexpected '}' at offset %d", ErrParse, r.pos-1)
			}
			r.skipSeparators()
			if !r.eof() {
				return nil, fmt.Errorf("%w: trailing text after property dict", ErrParse)
			}
			return p, nil
		}

		key, err := r.quoted()
		if err != nil {
			return nil, err
		}
		r.skipSpace()
		if !r.consume(':') {
			return nil, fmt.Errorf("%w: expected ':' after key %q", ErrParse, key)
		}
		r.skipSpace()
		value, err := r.quoted()
		if err != nil {
			return nil, err
		}
		p.Set(key, value)
	}
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

type dictReader struct {
	s   string
	pos int
}

func (r *dictReader) eof() bool { return r.pos >= len(r.s) }

func (r *dictReader) consume(c byte) bool {
	if !r.eof() && r.s[r.pos] == c {
		r.pos++
		return true
	}
	return false
}

func (r *dictReader) skipSpace() {
	for !r.eof() {
		switch r.s[r.pos] {
		case ' ', '\t', '\n', '\r':
			r.pos++
		default:
			return
		}
	}
}

func (r *dictReader) skipSeparators() {
	for !r.eof() {
		switch r.s[r.pos] {
		case ' ', '\t', '\n', '\r', ',':
			r.pos++
		default:
			return
		}
	}
}

func (r *dictReader) quoted() (string, error) {
	if r.eof() {
		return "", fmt.Errorf("%w: expected string at end of input", ErrParse)
	}
	q := r.s[r.pos]
	if q != '"' && q != '\'' {
		return "", fmt.Errorf("%w: expected quoted string at offset %d", ErrParse, r.pos)
	}
	r.pos++

	var b strings.Builder
	for !r.eof() {
		c := r.s[r.pos]
		r.pos++
		switch {
		case c == q:
			return b.String(), nil
		case c == '\\':
			if r.eof() {
				return "", fmt.Errorf("%w: dangling escape", ErrParse)
			}
			e := r.s[r.pos]
			r.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '\\', '"', '\'':
				b.WriteByte(e)
			default:
				// Unknown escapes are kept verbatim, as Python does.
				b.WriteByte('\\')
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", fmt.Errorf("%w: unterminated string", ErrParse)
}
