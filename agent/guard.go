package agent

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxQuestionLength bounds incoming questions, in characters.
const MaxQuestionLength = 320

// deniedPhrases are rejected wherever they appear in a question,
// case-insensitively. This is a best-effort filter for the obvious
// prompt-injection phrasings, not a security boundary; the real defense is
// that the model can only call the two read-only lookup functions.
var deniedPhrases = []string{
	"ignore all",
	"ignore previous",
	"disregard",
	"forget previous",
}

// RejectionError reports a question that was refused before reaching the
// model. Callers map it to a client error rather than a server failure.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// ValidateQuestion screens a question before it is sent to the model.
func ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return &RejectionError{Reason: "question is empty"}
	}

	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return &RejectionError{
			Reason: fmt.Sprintf("question exceeds %d characters", MaxQuestionLength),
		}
	}

	lowered := strings.ToLower(question)
	for _, phrase := range deniedPhrases {
		if strings.Contains(lowered, phrase) {
			return &RejectionError{
				Reason: fmt.Sprintf("question contains disallowed phrase %q", phrase),
			}
		}
	}

	return nil
}
