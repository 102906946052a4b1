package poll

import "sort"

type (
	OptionCount struct {
		Text  string `json:"text"`
		Count int    `json:"count"`
	}

	QuestionSummary struct {
		Text    string        `json:"text"`
		Options []OptionCount `json:"options"`
		// OtherCount counts the given answers matching none of the options.
		OtherCount int `json:"other_count"`
		// TotalForQuestion counts the given answers; absent and blank ones are skipped.
		TotalForQuestion int `json:"total_for_question"`
		// OtherAnswers tallies the distinct answers counted in OtherCount, most frequent first.
		OtherAnswers []OptionCount `json:"other_answers"`
	}

	Summary struct {
		// TotalResponses counts every response, answered or not.
		TotalResponses int               `json:"total_responses"`
		Questions      []QuestionSummary `json:"questions"`
	}
)

// Summarize aggregates `responses` against the questions of `form`.
// It never fails: answers matching no option fall into the "other" bucket and extra answers are ignored.
func Summarize(form Form, responses []Response) Summary {
	sum := Summary{
		TotalResponses: len(responses),
		Questions:      make([]QuestionSummary, len(form.Questions)),
	}
	for qi, q := range form.Questions {
		sum.Questions[qi] = summarizeQuestion(qi, q, responses)
	}
	return sum
}

func summarizeQuestion(qi int, q Question, responses []Response) QuestionSummary {
	qs := QuestionSummary{
		Text:         q.Text,
		Options:      make([]OptionCount, len(q.Options)),
		OtherAnswers: []OptionCount{},
	}
	for i, opt := range q.Options {
		qs.Options[i] = OptionCount{Text: opt}
	}

	others := make(map[string]int) // answer -> index in qs.OtherAnswers
	for _, r := range responses {
		ans := AnswerAt(r.Answers, qi)
		if !ans.Given() {
			continue
		}
		qs.TotalForQuestion++

		if idx := indexOf(q.Options, ans.Value); idx >= 0 {
			qs.Options[idx].Count++
			continue
		}
		qs.OtherCount++
		if i, ok := others[ans.Value]; ok {
			qs.OtherAnswers[i].Count++
		} else {
			others[ans.Value] = len(qs.OtherAnswers)
			qs.OtherAnswers = append(qs.OtherAnswers, OptionCount{Text: ans.Value, Count: 1})
		}
	}

	// most frequent first; ties keep their first-seen order
	sort.SliceStable(qs.OtherAnswers, func(i, j int) bool {
		return qs.OtherAnswers[i].Count > qs.OtherAnswers[j].Count
	})
	return qs
}

// indexOf returns the index of the first option equal to `ans`, or -1.
func indexOf(opts []string, ans string) int {
	for i, opt := range opts {
		if opt == ans {
			return i
		}
	}
	return -1
}
