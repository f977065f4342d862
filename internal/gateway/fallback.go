package gateway

import (
	"regexp"
	"strings"
)

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// CleanText replaces punctuation with spaces and collapses whitespace.
// Letters of any script are kept.
func CleanText(text string) string {
	text = nonWord.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

type dictionaryEntry struct {
	term       string
	definition string
}

// localDictionary is scanned when the term service is unavailable.
var localDictionary = []dictionaryEntry{
	{"fever", "Elevated body temperature often due to infection or illness"},
	{"sick", "Feeling unwell or suffering from illness"},
	{"allergy", "Immune system reaction to foreign substances like pollen or food"},
	{"headache", "Pain in the head or neck area"},
	{"cough", "A reflex action to clear the throat and breathing passages"},
	{"cold", "A mild viral infection of the nose and throat"},
	{"pain", "An unpleasant physical sensation"},
	{"asthma", "A respiratory condition marked by spasms in the lungs"},
	{"diabetes", "A metabolic disorder affecting blood sugar levels"},
	{"hypertension", "High blood pressure condition"},
	{"infection", "Invasion of the body by harmful microorganisms"},
	{"inflammation", "Body response to injury or infection causing swelling"},
}

// LocalTerms returns the dictionary terms that appear as whole words in
// text, in dictionary order.
func LocalTerms(text string) []MedicalTerm {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(CleanText(text))) {
		words[w] = true
	}

	var terms []MedicalTerm
	for _, e := range localDictionary {
		if !words[e.term] {
			continue
		}
		terms = append(terms, MedicalTerm{
			OriginalTerm:         e.term,
			TranslatedTerm:       e.term,
			OriginalDefinition:   e.definition,
			TranslatedDefinition: e.definition,
			NormalizedTerm:       e.term,
		})
	}
	return terms
}
