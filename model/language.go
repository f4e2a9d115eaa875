package model

import (
	"fmt"
	"strings"
)

type Language struct {
	Name        string
	DisplayName string
}

// SupportedLanguages lists the languages accepted by the search endpoint
// DisplayName is the value sent to github in the language qualifier
var SupportedLanguages = []Language{
	{Name: "JAVA", DisplayName: "Java"},
	{Name: "JAVASCRIPT", DisplayName: "JavaScript"},
	{Name: "TYPESCRIPT", DisplayName: "TypeScript"},
	{Name: "NODE", DisplayName: "Node"},
	{Name: "KOTLIN", DisplayName: "Kotlin"},
	{Name: "GO", DisplayName: "Go"},
	{Name: "C", DisplayName: "C"},
	{Name: "CPLUSPLUS", DisplayName: "C++"},
	{Name: "CSHARP", DisplayName: "C#"},
	{Name: "PYTHON", DisplayName: "Python"},
	{Name: "RUBY", DisplayName: "Ruby"},
	{Name: "SWIFT", DisplayName: "Swift"},
	{Name: "PHP", DisplayName: "PHP"},
	{Name: "HTML", DisplayName: "Html"},
	{Name: "CSS", DisplayName: "Css"},
	{Name: "SHELL", DisplayName: "Shell"},
	{Name: "RUST", DisplayName: "Rust"},
	{Name: "DART", DisplayName: "Dart"},
	{Name: "SCALA", DisplayName: "Scala"},
	{Name: "R", DisplayName: "R"},
	{Name: "OBJECTIVEC", DisplayName: "Objective-C"},
	{Name: "GROOVY", DisplayName: "Groovy"},
	{Name: "PERL", DisplayName: "Perl"},
}

// ParseLanguage resolves a language by its name or display name, case insensitive
func ParseLanguage(value string) (Language, error) {
	value = strings.TrimSpace(value)

	for _, l := range SupportedLanguages {
		if strings.EqualFold(l.Name, value) || strings.EqualFold(l.DisplayName, value) {
			return l, nil
		}
	}

	return Language{}, &InvalidParameterError{
		Parameter: "language",
		Message:   fmt.Sprintf("unsupported language %q", value),
	}
}
