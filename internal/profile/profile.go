// Package profile holds the book-specific tables that drive extraction:
// part structure, attribution names, significant vocabulary, characters and
// the theme catalog.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/abdulachik/litminer/internal/chapters"
	"github.com/abdulachik/litminer/internal/model"
)

// Range is an inclusive chapter range.
type Range struct {
	First int `yaml:"first" toml:"first" json:"first"`
	Last  int `yaml:"last" toml:"last" json:"last"`
}

// Contains reports whether chapter lies within the range.
func (r Range) Contains(chapter int) bool {
	return chapter >= r.First && chapter <= r.Last
}

// Attribution maps a surface name to a character id. Order matters: the
// first listed name found in a quote's lead-in wins.
type Attribution struct {
	Name        string `yaml:"name" toml:"name" json:"name"`
	CharacterID string `yaml:"character_id" toml:"character_id" json:"character_id"`
}

// Character is a known character of the book.
type Character struct {
	ID      string   `yaml:"id" toml:"id" json:"id"`
	Name    string   `yaml:"name" toml:"name" json:"name"`
	Aliases []string `yaml:"aliases" toml:"aliases" json:"aliases"`
	Gender  string   `yaml:"gender" toml:"gender" json:"gender"`
}

// Profile describes one book.
type Profile struct {
	Title            string           `yaml:"title" toml:"title" json:"title"`
	Parts            []chapters.Part  `yaml:"parts" toml:"parts" json:"parts"`
	InitialChapter   int              `yaml:"initial_chapter" toml:"initial_chapter" json:"initial_chapter"`
	HighSignificance Range            `yaml:"high_significance" toml:"high_significance" json:"high_significance"`
	SignificantTerms []string         `yaml:"significant_terms" toml:"significant_terms" json:"significant_terms"`
	Attribution      []Attribution    `yaml:"attribution" toml:"attribution" json:"attribution"`
	Characters       []Character      `yaml:"characters" toml:"characters" json:"characters"`
	Themes           []model.ThemeDef `yaml:"themes" toml:"themes" json:"themes"`
}

// Load reads a profile from a YAML (.yaml, .yml) or TOML (.toml) file.
// Fields left empty in the file keep their built-in defaults.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse profile yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &p); err != nil {
			return nil, fmt.Errorf("parse profile toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported profile format: %s", filepath.Ext(path))
	}

	p.fillDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// LoadOrDefault loads the profile at path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (p *Profile) fillDefaults() {
	if p.InitialChapter == 0 {
		p.InitialChapter = 1
	}
	for i := range p.Characters {
		if p.Characters[i].Gender == "" {
			p.Characters[i].Gender = "unknown"
		}
	}
}

// Validate checks that the tables are usable.
func (p *Profile) Validate() error {
	var errs []error

	if len(p.Parts) == 0 {
		errs = append(errs, errors.New("profile needs at least one part"))
	}
	for i, part := range p.Parts {
		if part.First <= 0 || part.Last < part.First {
			errs = append(errs, fmt.Errorf("part %d has invalid range %d-%d", part.Number, part.First, part.Last))
		}
		for _, other := range p.Parts[:i] {
			if part.First <= other.Last && other.First <= part.Last {
				errs = append(errs, fmt.Errorf("parts %d and %d overlap", other.Number, part.Number))
			}
		}
	}

	if p.HighSignificance.Last < p.HighSignificance.First {
		errs = append(errs, fmt.Errorf("high significance range %d-%d is empty", p.HighSignificance.First, p.HighSignificance.Last))
	}

	ids := make(map[string]bool, len(p.Characters))
	for _, c := range p.Characters {
		if c.ID == "" || c.Name == "" {
			errs = append(errs, fmt.Errorf("character %q needs an id and a name", c.Name))
			continue
		}
		if ids[c.ID] {
			errs = append(errs, fmt.Errorf("duplicate character id %q", c.ID))
		}
		ids[c.ID] = true
	}

	for _, a := range p.Attribution {
		if a.Name == "" {
			errs = append(errs, errors.New("attribution entry without a name"))
		}
		if len(ids) > 0 && !ids[a.CharacterID] {
			errs = append(errs, fmt.Errorf("attribution %q points at unknown character %q", a.Name, a.CharacterID))
		}
	}

	for _, th := range p.Themes {
		if th.Name == "" || len(th.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("theme %q needs a name and keywords", th.Name))
		}
	}

	return errors.Join(errs...)
}

// Names maps character ids to display names.
func (p *Profile) Names() map[string]string {
	names := make(map[string]string, len(p.Characters))
	for _, c := range p.Characters {
		names[c.ID] = c.Name
	}
	return names
}

// CharacterNames returns display names in profile order.
func (p *Profile) CharacterNames() []string {
	out := make([]string, 0, len(p.Characters))
	for _, c := range p.Characters {
		out = append(out, c.Name)
	}
	return out
}

// GenderOf looks up a character's gender by any of its names, case-insensitively.
func (p *Profile) GenderOf(name string) string {
	for _, c := range p.Characters {
		if strings.EqualFold(c.Name, name) {
			return c.Gender
		}
		for _, alias := range c.Aliases {
			if strings.EqualFold(alias, name) {
				return c.Gender
			}
		}
	}
	return "unknown"
}

// Mapper builds a chapter mapper over the profile's parts.
func (p *Profile) Mapper() *chapters.Mapper {
	return chapters.NewMapper(p.Parts)
}
