package poll

import (
	"strings"

	"github.com/volatiletech/null/v8"
)

// AnswerState tells whether a respondent answered a question.
type AnswerState int

const (
	// AnswerAbsent is a missing or null answer.
	AnswerAbsent AnswerState = iota
	// AnswerEmpty is an answer made only of whitespace.
	AnswerEmpty
	// AnswerGiven is any other answer.
	AnswerGiven
)

// Answer is the answer of one response to one question.
// Value is only meaningful for AnswerGiven and is kept verbatim (untrimmed).
type Answer struct {
	State AnswerState
	Value string
}

// AnswerAt returns the answer to the question at index `i`.
// Indexes past the end of `answers` are absent: the respondent skipped the trailing questions.
func AnswerAt(answers []null.String, i int) Answer {
	if i < 0 || i >= len(answers) || !answers[i].Valid {
		return Answer{State: AnswerAbsent}
	}
	v := answers[i].String
	if strings.TrimSpace(v) == "" {
		return Answer{State: AnswerEmpty}
	}
	return Answer{State: AnswerGiven, Value: v}
}

func (a Answer) Given() bool {
	return a.State == AnswerGiven
}
