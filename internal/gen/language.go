// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gen

import "strings"

// DefaultLanguage is used whenever an unsupported language is requested.
const DefaultLanguage = "English"

// Language pairs the English name of an output language with its native
// display form.
type Language struct {
	Name   string
	Native string
}

var supportedLanguages = []Language{
	{"English", "English"},
	{"Hindi", "हिन्दी (Hindi)"},
	{"Marathi", "मराठी (Marathi)"},
	{"Sanskrit", "संस्कृतम् (Sanskrit)"},
	{"Tamil", "தமிழ் (Tamil)"},
	{"Telugu", "తెలుగు (Telugu)"},
	{"Bengali", "বাংলা (Bengali)"},
	{"Gujarati", "ગુજરાતી (Gujarati)"},
	{"Kannada", "ಕನ್ನಡ (Kannada)"},
	{"Urdu", "اردو (Urdu)"},
	{"Malayalam", "മലയാളം (Malayalam)"},
	{"Punjabi", "ਪੰਜਾਬੀ (Punjabi)"},
}

// Languages returns the supported output languages in display order.
func Languages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// NormalizeLanguage maps a requested language onto the supported set,
// defaulting to English for anything unknown.
func NormalizeLanguage(s string) string {
	for _, l := range supportedLanguages {
		if strings.EqualFold(s, l.Name) {
			return l.Name
		}
	}
	return DefaultLanguage
}
