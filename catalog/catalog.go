// Package catalog holds the fund definitions the engine evaluates against:
// built-in templates, catalog files, and lookups by server name, program id
// and account label.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/propfund/domain"
	"github.com/rustyeddy/propfund/label"
	"gopkg.in/yaml.v3"
)

// Catalog is a validated, read-only set of funds. Build it with New or
// LoadFromFile; it is safe for concurrent use once built.
type Catalog struct {
	Funds []domain.Fund `json:"funds" yaml:"funds"`

	classifiers []*label.Classifier
	programs    map[int64]programRef
}

type programRef struct {
	fund    int
	program int
}

// Enrollment is where an account lands in the catalog.
type Enrollment struct {
	Fund       string `json:"fund_name"`
	ProgramID  int64  `json:"program_id"`
	Program    string `json:"program_name"`
	Phase      string `json:"phase_name"`
	Classified bool   `json:"classified"` // false: program/phase are the fund defaults
}

// New validates funds and prepares the lookup indexes. Programs without an id
// get the next free one, in declaration order.
func New(funds []domain.Fund) (*Catalog, error) {
	own := make([]domain.Fund, len(funds))
	for i, f := range funds {
		f.Programs = append([]domain.Program(nil), f.Programs...)
		f.Patterns = append([]domain.AccountNamePattern(nil), f.Patterns...)
		own[i] = f
	}

	c := &Catalog{Funds: own}
	if err := c.build(); err != nil {
		return nil, err
	}
	return c, nil
}

// Builtin returns a catalog of every built-in template.
func Builtin() *Catalog {
	all := Templates()
	funds := make([]domain.Fund, 0, len(TemplateNames))
	for _, name := range TemplateNames {
		funds = append(funds, all[name])
	}
	c, err := New(funds)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in templates invalid: %v", err))
	}
	return c
}

func checkTemplate(format string) ([]string, error) {
	t, err := label.Compile(format)
	if err != nil {
		return nil, err
	}
	return t.Placeholders(), nil
}

func (c *Catalog) build() error {
	var errs []error
	names := map[string]bool{}
	for i := range c.Funds {
		f := &c.Funds[i]
		if names[f.Name] {
			errs = append(errs, domain.NewConfigurationError("duplicate fund %q", f.Name))
		}
		names[f.Name] = true
		if err := f.Validate(checkTemplate); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	var next int64 = 1
	used := map[int64]bool{}
	for _, f := range c.Funds {
		for _, p := range f.Programs {
			if p.ID > 0 {
				if used[p.ID] {
					return domain.NewConfigurationError("program id %d used twice", p.ID)
				}
				used[p.ID] = true
				if p.ID >= next {
					next = p.ID + 1
				}
			}
		}
	}

	c.programs = map[int64]programRef{}
	c.classifiers = make([]*label.Classifier, len(c.Funds))
	for i := range c.Funds {
		f := &c.Funds[i]
		for j := range f.Programs {
			p := &f.Programs[j]
			if p.ID == 0 {
				p.ID = next
				next++
			}
			c.programs[p.ID] = programRef{fund: i, program: j}
		}
		cl, err := label.NewClassifier(f.NameFormat, f.Patterns)
		if err != nil {
			return fmt.Errorf("fund %q: %w", f.Name, err)
		}
		c.classifiers[i] = cl
	}
	return nil
}

// Fund returns the fund with the given name.
func (c *Catalog) Fund(name string) (*domain.Fund, bool) {
	for i := range c.Funds {
		if c.Funds[i].Name == name {
			return &c.Funds[i], true
		}
	}
	return nil, false
}

// Program returns a program and its fund by id.
func (c *Catalog) Program(id int64) (*domain.Program, *domain.Fund, bool) {
	ref, ok := c.programs[id]
	if !ok {
		return nil, nil, false
	}
	f := &c.Funds[ref.fund]
	return &f.Programs[ref.program], f, true
}

// MatchServer returns the first fund whose server pattern appears in server,
// ignoring case.
func (c *Catalog) MatchServer(server string) (*domain.Fund, bool) {
	s := strings.ToLower(server)
	if s == "" {
		return nil, false
	}
	for i := range c.Funds {
		if strings.Contains(s, strings.ToLower(c.Funds[i].ServerPattern)) {
			return &c.Funds[i], true
		}
	}
	return nil, false
}

// Classify resolves label against one fund's format and patterns.
func (c *Catalog) Classify(fund, accountLabel string) (domain.Classification, bool) {
	for i := range c.Funds {
		if c.Funds[i].Name == fund {
			return c.classifiers[i].Classify(accountLabel)
		}
	}
	return domain.Classification{}, false
}

// Enroll places an account by its server and label. The label decides the
// program and phase; when it matches no pattern the fund's first program and
// its lowest phase are used. Accounts on unknown servers are not enrolled.
func (c *Catalog) Enroll(server, accountLabel string) (Enrollment, bool) {
	f, ok := c.MatchServer(server)
	if !ok || len(f.Programs) == 0 {
		return Enrollment{}, false
	}

	if cls, ok := c.Classify(f.Name, accountLabel); ok {
		if p, ok := f.Program(cls.Program); ok {
			return Enrollment{Fund: f.Name, ProgramID: p.ID, Program: p.Name, Phase: cls.Phase, Classified: true}, true
		}
	}

	p := &f.Programs[0]
	e := Enrollment{Fund: f.Name, ProgramID: p.ID, Program: p.Name}
	if first, ok := p.FirstPhase(); ok {
		e.Phase = first.Name
	}
	return e, true
}

// LoadFromFile reads a catalog file (YAML, falling back to JSON) and validates it.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog data (YAML, falling back to JSON) and validates it.
func Parse(data []byte) (*Catalog, error) {
	var file struct {
		Funds []domain.Fund `json:"funds" yaml:"funds"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		if jerr := json.Unmarshal(data, &file); jerr != nil {
			return nil, fmt.Errorf("parse catalog (tried YAML and JSON): %w", err)
		}
	}
	c, err := New(file.Funds)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// SaveToFile writes the catalog as YAML for .yaml/.yml paths and JSON otherwise.
func (c *Catalog) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	return nil
}
