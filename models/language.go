// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// Language is the preferred UI language of a user.
type Language string

const (
	LanguageEN Language = "EN"
	LanguageES Language = "ES"
	LanguageEU Language = "EU"
)

// Languages lists every supported language.
var Languages = []Language{LanguageEN, LanguageES, LanguageEU}

// ParseLanguage maps a two-letter code (any case) to a supported Language.
// The second result is false when the code is unknown.
func ParseLanguage(code string) (Language, bool) {
	candidate := Language(strings.ToUpper(strings.TrimSpace(code)))
	for _, l := range Languages {
		if l == candidate {
			return l, true
		}
	}
	return "", false
}

func (l Language) String() string {
	return string(l)
}
