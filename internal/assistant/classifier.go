package assistant

import "strings"

// Condition is a symptom category recognized by the classifier.
type Condition string

const (
	Headache Condition = "headache"
	Fever    Condition = "fever"
	Cough    Condition = "cough"
	Cold     Condition = "cold"
	Stomach  Condition = "stomach"
	Pain     Condition = "pain"
	// General is returned when nothing matched.
	General Condition = "general"
)

func (c Condition) String() string { return string(c) }

// Classifier maps free text to a condition by keyword containment against
// the synonym table of one language.
type Classifier struct {
	order  []Condition
	tables map[Language]map[Condition][]string
}

func NewClassifier(k *Knowledge) *Classifier {
	tables := make(map[Language]map[Condition][]string, len(k.Synonyms))
	for lang, table := range k.Synonyms {
		lowered := make(map[Condition][]string, len(table))
		for cond, words := range table {
			for _, w := range words {
				if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
					lowered[cond] = append(lowered[cond], w)
				}
			}
		}
		tables[lang] = lowered
	}
	order := make([]Condition, len(k.Conditions))
	copy(order, k.Conditions)
	return &Classifier{order: order, tables: tables}
}

// Classify walks conditions in declaration order and returns the first one
// with a keyword contained in text. When text carries keywords of several
// conditions the earliest declared wins; "cough and cold" is Cough.
// A language without a table is classified with the English one.
func (c *Classifier) Classify(text string, lang Language) Condition {
	table, ok := c.tables[lang]
	if !ok {
		table = c.tables[English]
	}
	lower := strings.ToLower(text)
	if lower == "" {
		return General
	}
	for _, cond := range c.order {
		for _, w := range table[cond] {
			if strings.Contains(lower, w) {
				return cond
			}
		}
	}
	return General
}
