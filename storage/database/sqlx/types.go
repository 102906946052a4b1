package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/poll"
)

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling json column")
	}
	return string(b), nil
}

func jsonScan(src, dst interface{}) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		return nil
	default:
		return errors.Errorf("unsupported json column type %T", src)
	}
	return errors.Wrap(json.Unmarshal(b, dst), "unmarshalling json column")
}

// questionList is the JSONB `questions` column of a form.
type questionList []poll.Question

func (ql questionList) Value() (driver.Value, error) {
	if ql == nil {
		ql = questionList{}
	}
	return jsonValue(ql)
}

func (ql *questionList) Scan(src interface{}) error {
	return jsonScan(src, (*[]poll.Question)(ql))
}

// answerList is the JSONB `answers` column of a response; null answers are kept.
type answerList []null.String

func (al answerList) Value() (driver.Value, error) {
	if al == nil {
		al = answerList{}
	}
	return jsonValue(al)
}

func (al *answerList) Scan(src interface{}) error {
	return jsonScan(src, (*[]null.String)(al))
}

var (
	_ driver.Valuer = questionList{}
	_ sql.Scanner   = (*questionList)(nil)
	_ driver.Valuer = answerList{}
	_ sql.Scanner   = (*answerList)(nil)
)

type formRow struct {
	ID          string       `db:"id"`
	Title       string       `db:"title"`
	Kind        string       `db:"kind"`
	Questions   questionList `db:"questions"`
	Author      string       `db:"author"`
	Institution null.String  `db:"institution"`
	Pinned      bool         `db:"pinned"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

func newFormRow(form poll.Form) formRow {
	return formRow{
		ID:          form.ID,
		Title:       form.Title,
		Kind:        string(form.Kind),
		Questions:   form.Questions,
		Author:      form.Author,
		Institution: form.Institution,
		Pinned:      form.Pinned,
		CreatedAt:   form.CreatedAt,
		UpdatedAt:   form.UpdatedAt,
	}
}

func (r formRow) toForm() poll.Form {
	qs := make([]poll.Question, len(r.Questions))
	for i, q := range r.Questions {
		if q.Options == nil {
			q.Options = []string{}
		}
		qs[i] = q
	}
	return poll.Form{
		ID:          r.ID,
		Title:       r.Title,
		Kind:        poll.Kind(r.Kind),
		Questions:   qs,
		Author:      r.Author,
		Institution: r.Institution,
		Pinned:      r.Pinned,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type responseRow struct {
	Seq       int64      `db:"seq"`
	FormID    string     `db:"form_id"`
	User      string     `db:"user"`
	Answers   answerList `db:"answers"`
	CreatedAt time.Time  `db:"created_at"`
}

func (r responseRow) toResponse() poll.Response {
	ans := make([]null.String, len(r.Answers))
	copy(ans, r.Answers)
	return poll.Response{
		FormID:    r.FormID,
		Seq:       r.Seq,
		User:      r.User,
		Answers:   ans,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// isNotFound tells whether `err` means the referenced row does not exist:
// no row, a malformed uuid or a dangling foreign key.
func isNotFound(err error) bool {
	cause := errors.Cause(err)
	if cause == sql.ErrNoRows {
		return true
	}
	if pqErr, ok := cause.(*pq.Error); ok {
		switch pqErr.Code.Name() {
		case "invalid_text_representation", "foreign_key_violation":
			return true
		}
	}
	return false
}
