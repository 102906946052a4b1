package inmemdb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/poll"
)

type pollRepository struct {
	db *formTable
}

var _ poll.Repository = (*pollRepository)(nil)

func NewPollRepository(db *DB) *pollRepository {
	return &pollRepository{db: db.form}
}

func copyForm(form poll.Form) poll.Form {
	qs := make([]poll.Question, len(form.Questions))
	for i, q := range form.Questions {
		qs[i] = poll.Question{Text: q.Text, Options: append([]string{}, q.Options...)}
	}
	form.Questions = qs
	return form
}

func copyResponse(resp poll.Response) poll.Response {
	resp.Answers = append([]null.String{}, resp.Answers...)
	return resp
}

func (repo *pollRepository) CreateForm(_ context.Context, form poll.Form) (poll.Form, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := copyForm(form)
	repo.db.table[form.ID] = &stored
	return copyForm(stored), nil
}

func (repo *pollRepository) QueryForms(_ context.Context, filter poll.QueryFilter) ([]poll.Form, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	forms := make([]poll.Form, 0, len(repo.db.table))
	for _, f := range repo.db.table {
		if filter.Institution.Valid && f.Institution != filter.Institution {
			continue
		}
		forms = append(forms, copyForm(*f))
	}
	sort.Slice(forms, func(i, j int) bool {
		fi, fj := forms[i], forms[j]
		if fi.Pinned != fj.Pinned {
			return fi.Pinned
		}
		if !fi.CreatedAt.Equal(fj.CreatedAt) {
			return fi.CreatedAt.After(fj.CreatedAt)
		}
		return fi.ID < fj.ID
	})
	if filter.Limit > 0 && len(forms) > filter.Limit {
		forms = forms[:filter.Limit]
	}
	return forms, nil
}

func (repo *pollRepository) GetForm(_ context.Context, id string) (poll.Form, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if f, ok := repo.db.table[id]; ok {
		return copyForm(*f), nil
	}
	return poll.Form{}, poll.ErrNotFound
}

func (repo *pollRepository) UpdateForm(_ context.Context, form poll.Form) (poll.Form, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[form.ID]; !ok {
		return poll.Form{}, poll.ErrNotFound
	}
	stored := copyForm(form)
	repo.db.table[form.ID] = &stored
	return copyForm(stored), nil
}

func (repo *pollRepository) DeleteForm(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return poll.ErrNotFound
	}
	delete(repo.db.table, id)
	delete(repo.db.responses, id)
	return nil
}

func (repo *pollRepository) AppendResponse(_ context.Context, resp poll.Response) (poll.Response, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[resp.FormID]; !ok {
		return poll.Response{}, poll.ErrNotFound
	}
	repo.db.seq++
	resp.Seq = repo.db.seq
	resp = copyResponse(resp)
	repo.db.responses[resp.FormID] = append(repo.db.responses[resp.FormID], resp)
	return copyResponse(resp), nil
}

func (repo *pollRepository) QueryResponses(_ context.Context, formID string) ([]poll.Response, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	stored := repo.db.responses[formID]
	resps := make([]poll.Response, len(stored))
	for i, r := range stored {
		resps[i] = copyResponse(r)
	}
	return resps, nil
}
