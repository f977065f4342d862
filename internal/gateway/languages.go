package gateway

import "strings"

// TargetLanguage is a language the translation service can translate into.
type TargetLanguage struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TargetLanguages is the list accepted by Translate callers.
var TargetLanguages = []TargetLanguage{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi"},
	{Code: "ta", Name: "Tamil"},
	{Code: "fr", Name: "French"},
	{Code: "es", Name: "Spanish"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ru", Name: "Russian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese"},
}

// IsTargetLanguage reports whether code is in TargetLanguages.
func IsTargetLanguage(code string) bool {
	for _, l := range TargetLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// termLanguageNames maps codes to the language names used by the
// term-lookup service in its "language" field.
var termLanguageNames = map[string]string{
	"hi": "hindi",
	"ta": "tamil",
	"fr": "french",
	"es": "spanish",
	"de": "german",
	"ko": "korean",
	"ja": "japanese",
	"ru": "russian",
	"it": "italian",
	"en": "english",
}

func termLanguageName(code string) string {
	if name, ok := termLanguageNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return "english"
}
