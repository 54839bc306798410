package flags_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitstatus/internal/utils/flags"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "default_first_choice",
			defaultChoice:  "table",
			choices:        []string{"table", "csv", "json"},
			description:    "Report format",
			expectedOutput: "`<TABLE|csv|json>` Report format",
		},
		{
			name:           "default_second_choice",
			defaultChoice:  "go-git",
			choices:        []string{"git", "go-git"},
			description:    "Implementation answering git queries",
			expectedOutput: "`<git|GO-GIT>` Implementation answering git queries",
		},
		{
			name:           "empty_description",
			defaultChoice:  "git",
			choices:        []string{"git", "go-git"},
			expectedOutput: "`<GIT|go-git>`",
		},
		{
			name:           "duplicates_and_whitespace_ignored",
			defaultChoice:  " csv ",
			choices:        []string{" csv ", "csv", "", "json"},
			description:    "Report format",
			expectedOutput: "`<CSV|json>` Report format",
		},
		{
			name:           "unknown_default_highlights_nothing",
			defaultChoice:  "xml",
			choices:        []string{"table", "csv"},
			description:    "Report format",
			expectedOutput: "`<table|csv>` Report format",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			actual := flags.FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(testInstance, testCase.expectedOutput, actual)
		})
	}
}

func TestValidateChoice(testInstance *testing.T) {
	choices := []string{"table", "csv", "json"}

	testCases := []struct {
		name          string
		value         string
		expectedError string
	}{
		{name: "exact_match", value: "csv"},
		{name: "case_and_whitespace_insensitive", value: " JSON "},
		{name: "unknown_value", value: "xml", expectedError: `unsupported format "xml" (expected one of table, csv, json)`},
		{name: "empty_value", value: "", expectedError: `unsupported format ""`},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			validationError := flags.ValidateChoice("format", testCase.value, choices)
			if len(testCase.expectedError) == 0 {
				require.NoError(testInstance, validationError)
				return
			}
			require.ErrorIs(testInstance, validationError, flags.ErrUnsupportedChoice)
			require.ErrorContains(testInstance, validationError, testCase.expectedError)
		})
	}
}
