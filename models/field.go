// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Field names a single mutable profile attribute. The string value doubles
// as the JSON name of the attribute and the profile table column.
type Field string

const (
	FieldDisplayName       Field = "display_name"
	FieldBirthDate         Field = "birth_date"
	FieldGender            Field = "gender"
	FieldEmail             Field = "email"
	FieldPreferredLanguage Field = "preferred_language"
	FieldRole              Field = "role"
)

// Fields lists every attribute that may be changed with a single-field update.
var Fields = []Field{
	FieldDisplayName,
	FieldBirthDate,
	FieldGender,
	FieldEmail,
	FieldPreferredLanguage,
	FieldRole,
}

// IsValid reports whether f is one of [Fields].
func (f Field) IsValid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

func (f Field) String() string {
	return string(f)
}
