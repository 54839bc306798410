// Package flags holds helpers shared by command flag definitions.
package flags

import (
	"errors"
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefix      = "<"
	choicePlaceholderSuffix      = ">"
	choiceSeparatorLiteral       = "|"
	choiceListSeparatorLiteral   = ", "
	choiceUsageEmptyTemplate     = "`%s`"
	choiceUsageFullTemplate      = "`%s` %s"
	unsupportedChoiceTemplate    = "%w %s %q (expected one of %s)"
	unsupportedChoiceMessageText = "unsupported"
)

// ErrUnsupportedChoice indicates a value outside the accepted choices.
var ErrUnsupportedChoice = errors.New(unsupportedChoiceMessageText)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// ValidateChoice returns an error wrapping ErrUnsupportedChoice unless value
// matches one of choices, ignoring case and surrounding whitespace.
func ValidateChoice(name string, value string, choices []string) error {
	normalizedValue := normalizeChoice(value)
	for _, choice := range choices {
		if normalizedChoice := normalizeChoice(choice); len(normalizedChoice) > 0 && normalizedChoice == normalizedValue {
			return nil
		}
	}
	return fmt.Errorf(unsupportedChoiceTemplate, ErrUnsupportedChoice, name, value, strings.Join(choices, choiceListSeparatorLiteral))
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := normalizeChoice(defaultChoice)
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}

		displayValue := trimmedChoice
		if normalizedChoice == normalizedDefault {
			displayValue = strings.ToUpper(trimmedChoice)
		}

		highlighted = append(highlighted, displayValue)
		seen[normalizedChoice] = struct{}{}
	}

	return highlighted
}

func normalizeChoice(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
