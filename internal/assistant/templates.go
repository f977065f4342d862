package assistant

// Responder produces localized advisory text for a condition.
type Responder struct {
	templates map[Condition]map[Language]string
	followUps map[Condition]map[Language]string
}

func NewResponder(k *Knowledge) *Responder {
	return &Responder{templates: k.Templates, followUps: k.FollowUps}
}

// Respond looks up condition/lang, then condition/English, then
// General/lang, and finally General/English, which Validate guarantees.
func (r *Responder) Respond(cond Condition, lang Language) string {
	if s := r.templates[cond][lang]; s != "" {
		return s
	}
	if s := r.templates[cond][English]; s != "" {
		return s
	}
	if s := r.templates[General][lang]; s != "" {
		return s
	}
	return r.templates[General][English]
}

// FollowUp returns the follow-up prompt for cond, falling back to the
// general one for the same language.
func (r *Responder) FollowUp(cond Condition, lang Language) (string, bool) {
	if s := r.followUps[cond][lang]; s != "" {
		return s, true
	}
	if s := r.followUps[General][lang]; s != "" {
		return s, true
	}
	return "", false
}

// RespondWithFollowUp is Respond plus the follow-up prompt when one exists.
// The bool reports whether a follow-up was appended.
func (r *Responder) RespondWithFollowUp(cond Condition, lang Language) (string, bool) {
	text := r.Respond(cond, lang)
	followUp, ok := r.FollowUp(cond, lang)
	if !ok {
		return text, false
	}
	return text + "\n\n" + followUp, true
}
