package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/poll"
)

const (
	formColumns     = `id, title, kind, questions, author, institution, pinned, created_at, updated_at`
	responseColumns = `seq, form_id, "user", answers, created_at`
)

type pollRepository struct {
	db *sqlx.DB
}

var _ poll.Repository = (*pollRepository)(nil)

func NewPollRepository(db *sqlx.DB) *pollRepository {
	return &pollRepository{db: db}
}

func (repo *pollRepository) CreateForm(ctx context.Context, form poll.Form) (poll.Form, error) {
	q := `INSERT INTO form (` + formColumns + `)
		VALUES (:id, :title, :kind, :questions, :author, :institution, :pinned, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newFormRow(form)); err != nil {
		return poll.Form{}, errors.Wrap(err, "inserting form")
	}
	return repo.GetForm(ctx, form.ID)
}

func (repo *pollRepository) QueryForms(ctx context.Context, filter poll.QueryFilter) ([]poll.Form, error) {
	q := `SELECT ` + formColumns + ` FROM form
		WHERE ($1::text IS NULL OR institution = $1)
		ORDER BY pinned DESC, created_at DESC, id
		LIMIT NULLIF($2, 0)`
	var rows []formRow
	if err := repo.db.SelectContext(ctx, &rows, q, filter.Institution, filter.Limit); err != nil {
		return nil, errors.Wrap(err, "selecting forms")
	}
	forms := make([]poll.Form, len(rows))
	for i, r := range rows {
		forms[i] = r.toForm()
	}
	return forms, nil
}

func (repo *pollRepository) GetForm(ctx context.Context, id string) (poll.Form, error) {
	var row formRow
	q := `SELECT ` + formColumns + ` FROM form WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if isNotFound(err) {
			return poll.Form{}, poll.ErrNotFound
		}
		return poll.Form{}, errors.Wrap(err, "selecting form")
	}
	return row.toForm(), nil
}

func (repo *pollRepository) UpdateForm(ctx context.Context, form poll.Form) (poll.Form, error) {
	q := `UPDATE form
		SET title = :title, questions = :questions, pinned = :pinned, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, newFormRow(form))
	if err != nil {
		if isNotFound(err) {
			return poll.Form{}, poll.ErrNotFound
		}
		return poll.Form{}, errors.Wrap(err, "updating form")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return poll.Form{}, poll.ErrNotFound
	}
	return repo.GetForm(ctx, form.ID)
}

// DeleteForm relies on `form_response.form_id ... ON DELETE CASCADE` to drop the responses.
func (repo *pollRepository) DeleteForm(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM form WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return poll.ErrNotFound
		}
		return errors.Wrap(err, "deleting form")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting form")
	}
	if n == 0 {
		return poll.ErrNotFound
	}
	return nil
}

// AppendResponse inserts a new row: `seq` is assigned by the database, so concurrent appends never collide.
func (repo *pollRepository) AppendResponse(ctx context.Context, resp poll.Response) (poll.Response, error) {
	q := `INSERT INTO form_response (form_id, "user", answers, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + responseColumns
	var row responseRow
	err := repo.db.GetContext(ctx, &row, q, resp.FormID, resp.User, answerList(resp.Answers), resp.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return poll.Response{}, poll.ErrNotFound
		}
		return poll.Response{}, errors.Wrap(err, "inserting response")
	}
	return row.toResponse(), nil
}

func (repo *pollRepository) QueryResponses(ctx context.Context, formID string) ([]poll.Response, error) {
	q := `SELECT ` + responseColumns + ` FROM form_response WHERE form_id = $1 ORDER BY seq`
	var rows []responseRow
	if err := repo.db.SelectContext(ctx, &rows, q, formID); err != nil {
		if isNotFound(err) {
			return []poll.Response{}, nil
		}
		return nil, errors.Wrap(err, "selecting responses")
	}
	resps := make([]poll.Response, len(rows))
	for i, r := range rows {
		resps[i] = r.toResponse()
	}
	return resps, nil
}
