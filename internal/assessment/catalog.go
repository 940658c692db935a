package assessment

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed questionnaires/*.yaml
var fixtureFS embed.FS

// Validate checks the structural invariants of a definition. A declared
// maximum that disagrees with the questions is reported as a
// *MaxScoreDriftError after every structural check has passed.
func (d *Definition) Validate() error {
	if !d.Kind.Valid() {
		return &FixtureError{Kind: d.Kind, Reason: "unknown kind"}
	}
	if len(d.Questions) == 0 {
		return &FixtureError{Kind: d.Kind, Reason: "no questions"}
	}
	seen := make(map[string]bool, len(d.Questions))
	for _, q := range d.Questions {
		if q.ID == "" {
			return &FixtureError{Kind: d.Kind, Reason: "question without id"}
		}
		if seen[q.ID] {
			return &FixtureError{Kind: d.Kind, Reason: fmt.Sprintf("duplicate question id %q", q.ID)}
		}
		seen[q.ID] = true
		if len(q.Options) == 0 {
			return &FixtureError{Kind: d.Kind, Reason: fmt.Sprintf("question %q has no options", q.ID)}
		}
		for _, o := range q.Options {
			if o.Score < 0 {
				return &FixtureError{Kind: d.Kind, Reason: fmt.Sprintf("question %q has a negative option score", q.ID)}
			}
		}
	}
	if derived := d.DerivedMaxScore(); derived != d.MaxScore {
		return &MaxScoreDriftError{Kind: d.Kind, Declared: d.MaxScore, Derived: derived}
	}
	return nil
}

// Catalog holds the loaded questionnaires in fixture order.
type Catalog struct {
	defs   []*Definition
	byKind map[Kind]*Definition
}

// Fixtures returns the questionnaire files embedded in the binary.
func Fixtures() fs.FS {
	sub, err := fs.Sub(fixtureFS, "questionnaires")
	if err != nil {
		panic(err)
	}
	return sub
}

// DefaultCatalog loads the questionnaires embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(Fixtures(), false)
}

// LoadCatalog parses every *.yaml file at the root of fsys. Files are read
// in name order. When strict is false a drifting max score is logged and
// replaced by the derived value; when strict is true it is an error.
func LoadCatalog(fsys fs.FS, strict bool) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read questionnaires: %w", err)
	}

	c := &Catalog{byKind: make(map[Kind]*Definition)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		def, err := ParseDefinition(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path.Base(e.Name()), err)
		}
		if err := def.Validate(); err != nil {
			var drift *MaxScoreDriftError
			if !errors.As(err, &drift) || strict {
				return nil, fmt.Errorf("%s: %w", e.Name(), err)
			}
			slog.Warn("questionnaire max score drift, using derived value",
				"kind", def.Kind, "declared", drift.Declared, "derived", drift.Derived)
			def.MaxScore = drift.Derived
		}
		if _, dup := c.byKind[def.Kind]; dup {
			return nil, fmt.Errorf("%s: duplicate questionnaire kind %q", e.Name(), def.Kind)
		}
		c.defs = append(c.defs, def)
		c.byKind[def.Kind] = def
		slog.Debug("loaded questionnaire", "kind", def.Kind, "questions", len(def.Questions), "max_score", def.MaxScore)
	}
	if len(c.defs) == 0 {
		return nil, errors.New("no questionnaires found")
	}
	return c, nil
}

// ParseDefinition decodes a single YAML questionnaire.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// Get returns the questionnaire of the given kind.
func (c *Catalog) Get(kind Kind) (*Definition, bool) {
	d, ok := c.byKind[kind]
	return d, ok
}

// List returns all questionnaires in fixture order.
func (c *Catalog) List() []*Definition {
	out := make([]*Definition, len(c.defs))
	copy(out, c.defs)
	return out
}
