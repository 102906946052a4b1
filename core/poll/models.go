package poll

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Kinds
const (
	KindPoll Kind = "poll"
	KindQnA  Kind = "qna"
)

const (
	DefaultAuthor     = "Instructor"
	DefaultRespondent = "Anonymous"
)

// Kind is the type of a Form: a poll (fixed-choice questions) or a Q&A (free-text questions).
type Kind string

func (k Kind) String() string {
	return string(k)
}

type (
	// Question is one prompt of a Form. Its identity is its index within Form.Questions.
	Question struct {
		Text    string   `json:"text" validate:"required,notblank"`
		Options []string `json:"options"`
	}

	Form struct {
		ID          string      `json:"id"`
		Title       string      `json:"title"`
		Kind        Kind        `json:"kind"`
		Questions   []Question  `json:"questions"`
		Author      string      `json:"author"`
		Institution null.String `json:"institution"`
		Pinned      bool        `json:"pinned"`
		CreatedAt   time.Time   `json:"created_at"`
		UpdatedAt   time.Time   `json:"updated_at"`
	}

	// Response is one respondent's submission against a Form.
	// Answers[i] is aligned with Form.Questions[i]; a JSON null answer is kept as an invalid null.String.
	Response struct {
		FormID    string        `json:"form_id"`
		Seq       int64         `json:"seq"`
		User      string        `json:"user"`
		Answers   []null.String `json:"answers"`
		CreatedAt time.Time     `json:"created_at"`
	}
)

type (
	NewForm struct {
		Title       string     `json:"title" validate:"required,notblank"`
		Kind        Kind       `json:"kind" validate:"required,oneof=poll qna"`
		Questions   []Question `json:"questions" validate:"dive"`
		Author      string     `json:"author"`
		Institution string     `json:"institution"`
		Pinned      bool       `json:"pinned"`
	}

	// UpdateForm holds the fields of a Form a privileged user may change; nil fields are left untouched.
	UpdateForm struct {
		Title     *string     `json:"title" validate:"omitempty,notblank"`
		Questions *[]Question `json:"questions" validate:"omitempty,dive"`
		Pinned    *bool       `json:"pinned"`
	}

	// NewResponse is accepted as is: its shape is never checked against the Form.
	NewResponse struct {
		User    string        `json:"user"`
		Answers []null.String `json:"answers"`
	}

	QueryFilter struct {
		Institution null.String
		Limit       int
	}
)

func (nf *NewForm) Validate(validate *validator.Validate) error {
	nf.Title = core.CleanString(nf.Title)
	nf.Kind = Kind(core.CleanString(string(nf.Kind), true /* lower */))
	nf.Author = core.CleanString(nf.Author)
	nf.Institution = core.CleanString(nf.Institution)
	cleanQuestions(nf.Questions)
	if err := validate.Struct(nf); err != nil {
		return err
	}
	return checkQnAOptions(nf.Kind, nf.Questions)
}

// Validate checks `uf` against the Form it is about to change.
func (uf *UpdateForm) Validate(form Form, validate *validator.Validate) error {
	if uf.Title != nil {
		title := core.CleanString(*uf.Title)
		uf.Title = &title
	}
	if uf.Questions != nil {
		cleanQuestions(*uf.Questions)
	}
	if err := validate.Struct(uf); err != nil {
		return err
	}
	if uf.Questions != nil {
		return checkQnAOptions(form.Kind, *uf.Questions)
	}
	return nil
}

// cleanQuestions trims question texts. Option labels are kept verbatim since answers must match them exactly.
func cleanQuestions(qs []Question) {
	for i := range qs {
		qs[i].Text = core.CleanString(qs[i].Text)
		if qs[i].Options == nil {
			qs[i].Options = []string{}
		}
	}
}

func checkQnAOptions(kind Kind, qs []Question) error {
	if kind != KindQnA {
		return nil
	}
	var flds []core.FieldError
	for i, q := range qs {
		if len(q.Options) > 0 {
			flds = append(flds, core.FieldError{
				Field: "questions[" + strconv.Itoa(i) + "].options",
				Error: errQnAOptions.Error(),
			})
		}
	}
	if flds != nil {
		return core.NewValidationError(errQnAOptions, flds...)
	}
	return nil
}

// UnmarshalJSON accepts any JSON scalar as an answer: numbers and booleans are kept as their literal text,
// while nulls, arrays and objects become absent answers.
func (nr *NewResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		User    string            `json:"user"`
		Answers []json.RawMessage `json:"answers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	nr.User = raw.User
	nr.Answers = nil
	if raw.Answers != nil {
		nr.Answers = make([]null.String, len(raw.Answers))
	}
	for i, ans := range raw.Answers {
		ans = bytes.TrimSpace(ans)
		if len(ans) == 0 {
			continue
		}
		switch ans[0] {
		case '"':
			var s string
			if err := json.Unmarshal(ans, &s); err != nil {
				return err
			}
			nr.Answers[i] = null.StringFrom(s)
		case 'n', '[', '{': // absent
		default: // number or boolean
			nr.Answers[i] = null.StringFrom(string(ans))
		}
	}
	return nil
}
