package assistant

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

// Knowledge is the static content the assistant answers from: synonym
// tables, advisory templates, follow-ups and medicine blocks. It is
// read-only once loaded; a reload builds a new value.
type Knowledge struct {
	Conditions []Condition                         `yaml:"conditions"`
	Detection  DetectionTable                      `yaml:"detection"`
	Synonyms   map[Language]map[Condition][]string `yaml:"synonyms"`
	Templates  map[Condition]map[Language]string   `yaml:"templates"`
	FollowUps  map[Condition]map[Language]string   `yaml:"follow_ups"`
	Medicine   MedicineTable                       `yaml:"medicine"`
}

type DetectionTable struct {
	Order    []Language            `yaml:"order"`
	Keywords map[Language][]string `yaml:"keywords"`
	Accents  []AccentRule          `yaml:"accents"`
}

type AccentRule struct {
	Language Language `yaml:"language"`
	Chars    string   `yaml:"chars"`
}

type MedicineTable struct {
	IntentKeywords []string                       `yaml:"intent_keywords"`
	Actionable     []Condition                    `yaml:"actionable"`
	ByCondition    map[Condition][]string         `yaml:"by_condition"`
	Heading        map[Language]string            `yaml:"heading"`
	Info           map[string]map[Language]string `yaml:"info"`
	Disclaimer     map[Language]string            `yaml:"disclaimer"`
}

// DefaultKnowledge returns the built-in tables.
func DefaultKnowledge() (*Knowledge, error) {
	return ParseKnowledge(defaultKnowledge)
}

// LoadKnowledge reads tables from a YAML file.
func LoadKnowledge(path string) (*Knowledge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	return ParseKnowledge(data)
}

// ParseKnowledge decodes and validates YAML tables.
func ParseKnowledge(data []byte) (*Knowledge, error) {
	var k Knowledge
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("decode knowledge: %w", err)
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return &k, nil
}

// Validate reports every gap that would make a lookup fail at runtime.
// All problems are returned together.
func (k *Knowledge) Validate() error {
	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	if len(k.Conditions) == 0 {
		fail("no conditions declared")
	}
	seen := make(map[Condition]bool, len(k.Conditions))
	for _, c := range k.Conditions {
		switch {
		case c == General:
			fail("condition %q is implicit and must not be declared", General)
		case seen[c]:
			fail("condition %q declared twice", c)
		}
		seen[c] = true
	}

	if strings.TrimSpace(k.Templates[General][English]) == "" {
		fail("missing terminal template %s/%s", General, English)
	}
	if strings.TrimSpace(k.Medicine.Disclaimer[English]) == "" {
		fail("missing medicine disclaimer for %s", English)
	}

	for _, lang := range Languages {
		table, ok := k.Synonyms[lang]
		if !ok {
			fail("no synonym table for %s", lang)
			continue
		}
		for _, c := range k.Conditions {
			if !hasKeyword(table[c]) {
				fail("condition %q has no keywords for %s", c, lang)
			}
		}
	}
	for lang := range k.Synonyms {
		if !lang.Valid() {
			fail("synonym table for unsupported language %q", lang)
		}
	}

	for _, lang := range k.Detection.Order {
		if !lang.Valid() {
			fail("detection order names unsupported language %q", lang)
		}
	}
	for _, a := range k.Detection.Accents {
		if !a.Language.Valid() {
			fail("accent rule for unsupported language %q", a.Language)
		}
		if a.Chars == "" {
			fail("accent rule for %s has no characters", a.Language)
		}
	}

	if !hasKeyword(k.Medicine.IntentKeywords) {
		fail("no medicine intent keywords")
	}
	for _, c := range k.Medicine.Actionable {
		if !seen[c] {
			fail("actionable condition %q is not declared", c)
		}
		if len(k.Medicine.ByCondition[c]) == 0 {
			fail("actionable condition %q has no medicines", c)
		}
	}
	for c, meds := range k.Medicine.ByCondition {
		for _, m := range meds {
			if strings.TrimSpace(k.Medicine.Info[m][English]) == "" {
				fail("medicine %q for %q has no %s info block", m, c, English)
			}
		}
	}

	return result.ErrorOrNil()
}

func hasKeyword(words []string) bool {
	for _, w := range words {
		if strings.TrimSpace(w) != "" {
			return true
		}
	}
	return false
}
