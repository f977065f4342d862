package assistant

import "strings"

// Augmenter appends medicine information when the user asks for it.
type Augmenter struct {
	intent     []string
	actionable map[Condition][]string
	heading    map[Language]string
	info       map[string]map[Language]string
	disclaimer map[Language]string
}

func NewAugmenter(k *Knowledge) *Augmenter {
	a := &Augmenter{
		actionable: make(map[Condition][]string, len(k.Medicine.Actionable)),
		heading:    k.Medicine.Heading,
		info:       k.Medicine.Info,
		disclaimer: k.Medicine.Disclaimer,
	}
	for _, w := range k.Medicine.IntentKeywords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			a.intent = append(a.intent, w)
		}
	}
	for _, c := range k.Medicine.Actionable {
		a.actionable[c] = k.Medicine.ByCondition[c]
	}
	return a
}

// WantsMedicine reports whether text asks for medication advice. Only the
// English trigger words are recognized, whatever language text is in.
func (a *Augmenter) WantsMedicine(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range a.intent {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// MaybeAugment appends the medicine blocks for cond followed by the
// disclaimer when the user asked for medicine and cond is actionable.
// Otherwise base is returned unchanged. The bool reports whether anything
// was appended; when it is true the result always ends with the disclaimer.
func (a *Augmenter) MaybeAugment(userText string, cond Condition, lang Language, base string) (string, bool) {
	meds, ok := a.actionable[cond]
	if !ok || !a.WantsMedicine(userText) {
		return base, false
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n")
	b.WriteString(localized(a.heading, lang))
	for _, m := range meds {
		if block := localized(a.info[m], lang); block != "" {
			b.WriteString("\n\n")
			b.WriteString(block)
		}
	}
	b.WriteString("\n\n")
	b.WriteString(a.Disclaimer(lang))
	return b.String(), true
}

// Disclaimer returns the consult-a-doctor text for lang.
func (a *Augmenter) Disclaimer(lang Language) string {
	return localized(a.disclaimer, lang)
}

func localized(m map[Language]string, lang Language) string {
	if s := m[lang]; s != "" {
		return s
	}
	return m[English]
}
