package label

import (
	"strings"

	"github.com/rustyeddy/propfund/domain"
)

// Classifier resolves account labels for one fund. Build it once when the
// fund is loaded; it is immutable and safe for concurrent use.
type Classifier struct {
	tmpl     *Template
	patterns []domain.AccountNamePattern
}

// NewClassifier compiles format (which may be empty) and keeps a copy of the
// ordered patterns.
func NewClassifier(format string, patterns []domain.AccountNamePattern) (*Classifier, error) {
	c := &Classifier{patterns: append([]domain.AccountNamePattern(nil), patterns...)}
	if format != "" {
		t, err := Compile(format)
		if err != nil {
			return nil, err
		}
		c.tmpl = t
	}
	return c, nil
}

// Classify returns the program/phase for label. When a name format is set,
// the {phase} segment is searched first and the whole label second.
func (c *Classifier) Classify(label string) (domain.Classification, bool) {
	if label == "" {
		return domain.Classification{}, false
	}

	if c.tmpl != nil {
		if seg, ok := c.tmpl.Segment(label, PhaseKey); ok {
			if res, ok := firstMatch(seg, c.patterns); ok {
				return res, true
			}
		}
	}
	return firstMatch(label, c.patterns)
}

// Classify is the one-shot form of Classifier.Classify. A format that does not
// compile is ignored and the whole label is searched.
func Classify(label, format string, patterns []domain.AccountNamePattern) (domain.Classification, bool) {
	c, err := NewClassifier(format, patterns)
	if err != nil {
		c = &Classifier{patterns: patterns}
	}
	return c.Classify(label)
}

// firstMatch honours declaration order, not specificity.
func firstMatch(text string, patterns []domain.AccountNamePattern) (domain.Classification, bool) {
	lower := strings.ToLower(text)
	for _, p := range patterns {
		if p.Contains == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p.Contains)) {
			return domain.Classification{Program: p.Program, Phase: p.Phase}, true
		}
	}
	return domain.Classification{}, false
}
