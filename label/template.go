package label

import (
	"fmt"
	"strings"
	"unicode"
)

// PhaseKey is the placeholder that names the phase segment of a label.
const PhaseKey = "phase"

type segment struct {
	literal []rune // set for literal runs
	name    string // set for placeholders
}

func (s segment) isPlaceholder() bool { return s.name != "" }

// Template is a compiled name format such as "{phase}-{bal} {name}".
//
// Literal runs must match exactly, ignoring case. Every placeholder captures at
// least one character; interior placeholders take the shortest run that lets
// the rest of the format match, the last placeholder takes the longest. The
// whole label must be consumed. A Template is immutable and safe for
// concurrent use.
type Template struct {
	source string
	segs   []segment
	names  []string
	last   int // index in segs of the final placeholder, -1 if none
}

// Compile parses a name format. Placeholders are {word} where word is made of
// letters, digits and underscores. Unbalanced braces, empty or invalid names
// and repeated names are errors.
func Compile(format string) (*Template, error) {
	t := &Template{source: format, last: -1}
	seen := map[string]bool{}
	var lit []rune

	flush := func() {
		if len(lit) > 0 {
			t.segs = append(t.segs, segment{literal: lit})
			lit = nil
		}
	}

	rs := []rune(format)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '{':
			end := -1
			for j := i + 1; j < len(rs); j++ {
				if rs[j] == '}' {
					end = j
					break
				}
				if rs[j] == '{' {
					break
				}
			}
			if end < 0 {
				return nil, fmt.Errorf("unclosed '{' at offset %d", i)
			}
			name := string(rs[i+1 : end])
			if !validName(name) {
				return nil, fmt.Errorf("invalid placeholder {%s}", name)
			}
			if seen[name] {
				return nil, fmt.Errorf("placeholder {%s} used twice", name)
			}
			seen[name] = true
			flush()
			t.segs = append(t.segs, segment{name: name})
			t.names = append(t.names, name)
			t.last = len(t.segs) - 1
			i = end
		case '}':
			return nil, fmt.Errorf("unexpected '}' at offset %d", i)
		default:
			lit = append(lit, rs[i])
		}
	}
	flush()

	return t, nil
}

// MustCompile is like Compile but panics on error. Meant for built-in formats.
func MustCompile(format string) *Template {
	t, err := Compile(format)
	if err != nil {
		panic(fmt.Sprintf("label: Compile(%q): %v", format, err))
	}
	return t
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (t *Template) String() string { return t.source }

// Placeholders returns the placeholder names in format order.
func (t *Template) Placeholders() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Match splits label into its placeholder values.
func (t *Template) Match(label string) (map[string]string, bool) {
	m := matcher{
		t:      t,
		in:     []rune(label),
		caps:   make([]int, 2*len(t.segs)),
		failed: map[[2]int]bool{},
	}
	if !m.match(0, 0) {
		return nil, false
	}
	out := make(map[string]string, len(t.names))
	for i, s := range t.segs {
		if s.isPlaceholder() {
			out[s.name] = string(m.in[m.caps[2*i]:m.caps[2*i+1]])
		}
	}
	return out, true
}

// Segment returns the trimmed value of one placeholder. An empty value counts
// as no match.
func (t *Template) Segment(label, name string) (string, bool) {
	vals, ok := t.Match(label)
	if !ok {
		return "", false
	}
	v := strings.TrimSpace(vals[name])
	if v == "" {
		return "", false
	}
	return v, true
}

type matcher struct {
	t      *Template
	in     []rune
	caps   []int
	failed map[[2]int]bool // (segment, offset) pairs known not to match
}

func (m *matcher) match(seg, pos int) bool {
	if seg == len(m.t.segs) {
		return pos == len(m.in)
	}
	key := [2]int{seg, pos}
	if m.failed[key] {
		return false
	}

	s := m.t.segs[seg]
	ok := false
	switch {
	case !s.isPlaceholder():
		n := len(s.literal)
		if pos+n <= len(m.in) && strings.EqualFold(string(m.in[pos:pos+n]), string(s.literal)) {
			ok = m.match(seg+1, pos+n)
		}
	case seg == m.t.last:
		for end := len(m.in); end > pos && !ok; end-- {
			ok = m.capture(seg, pos, end)
		}
	default:
		for end := pos + 1; end <= len(m.in) && !ok; end++ {
			ok = m.capture(seg, pos, end)
		}
	}

	if !ok {
		m.failed[key] = true
	}
	return ok
}

func (m *matcher) capture(seg, start, end int) bool {
	m.caps[2*seg], m.caps[2*seg+1] = start, end
	return m.match(seg+1, end)
}

// ExtractPhaseSegment compiles format and returns the {phase} value of label.
// A missing or malformed format, or a label that does not fit it, yields
// false so the caller can fall back to the whole label.
func ExtractPhaseSegment(label, format string) (string, bool) {
	if format == "" || label == "" {
		return "", false
	}
	t, err := Compile(format)
	if err != nil {
		return "", false
	}
	return t.Segment(label, PhaseKey)
}
