package poll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound   = errors.New("form not found")
	errQnAOptions = errors.New("questions of a Q&A form may not have options")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateForm(ctx context.Context, form Form) (Form, error)
		// QueryForms returns the forms of filter.Institution (all forms when unscoped),
		// pinned ones first, then the most recent first.
		QueryForms(ctx context.Context, filter QueryFilter) ([]Form, error)
		GetForm(ctx context.Context, id string) (Form, error)
		UpdateForm(ctx context.Context, form Form) (Form, error)
		// DeleteForm deletes a form and all of its responses.
		DeleteForm(ctx context.Context, id string) error
		// AppendResponse stores a new response after the existing ones; it never replaces one.
		AppendResponse(ctx context.Context, resp Response) (Response, error)
		// QueryResponses returns the responses of a form in submission order.
		QueryResponses(ctx context.Context, formID string) ([]Response, error)
	}

	Service struct {
		repo Repository
		conf *core.Config
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, conf: conf}
}

// Create stores a new form. The form's institution defaults to the caller's `scope`.
func (svc *Service) Create(ctx context.Context, scope null.String, nf NewForm) (Form, error) {
	now := nowFunc().UTC()
	form := Form{
		ID:          uuid.New().String(),
		Title:       nf.Title,
		Kind:        nf.Kind,
		Questions:   nf.Questions,
		Author:      nf.Author,
		Institution: core.Scope(nf.Institution),
		Pinned:      nf.Pinned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if form.Author == "" {
		form.Author = DefaultAuthor
	}
	if !form.Institution.Valid {
		form.Institution = scope
	}
	if form.Questions == nil {
		form.Questions = []Question{}
	}
	form, err := svc.repo.CreateForm(ctx, form)
	return form, errors.Wrap(err, "creating form")
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Form, error) {
	filter.Limit = core.ClampLimit(filter.Limit, svc.conf.Listing.FormLimit, svc.conf.Listing.FormMaxLimit)
	forms, err := svc.repo.QueryForms(ctx, filter)
	return forms, errors.Wrap(err, "querying forms")
}

// Get returns the form `id` as seen by a caller scoped to `scope`.
func (svc *Service) Get(ctx context.Context, scope null.String, id string) (Form, error) {
	form, err := svc.repo.GetForm(ctx, id)
	if err != nil {
		return Form{}, errors.Wrap(err, "getting form")
	}
	if err = core.CheckScope(scope, form.Institution); err != nil {
		return Form{}, err
	}
	return form, nil
}

// Update applies `uf` to `form`; uf must have been validated against form.
func (svc *Service) Update(ctx context.Context, form Form, uf UpdateForm) (Form, error) {
	if uf.Title != nil {
		form.Title = *uf.Title
	}
	if uf.Questions != nil {
		form.Questions = *uf.Questions
	}
	if uf.Pinned != nil {
		form.Pinned = *uf.Pinned
	}
	form.UpdatedAt = nowFunc().UTC()
	form, err := svc.repo.UpdateForm(ctx, form)
	return form, errors.Wrap(err, "updating form")
}

// Delete deletes the form `id` together with its responses.
func (svc *Service) Delete(ctx context.Context, scope null.String, id string) error {
	if _, err := svc.Get(ctx, scope, id); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteForm(ctx, id), "deleting form")
}

// SubmitResponse appends a response to the form `id`.
// The answers are stored as submitted: mismatches with the form's questions are settled by Summarize.
func (svc *Service) SubmitResponse(ctx context.Context, scope null.String, id string, nr NewResponse) (Response, error) {
	if _, err := svc.Get(ctx, scope, id); err != nil {
		return Response{}, err
	}
	resp := Response{
		FormID:    id,
		User:      core.CleanString(nr.User),
		Answers:   nr.Answers,
		CreatedAt: nowFunc().UTC(),
	}
	if resp.User == "" {
		resp.User = DefaultRespondent
	}
	if resp.Answers == nil {
		resp.Answers = []null.String{}
	}
	resp, err := svc.repo.AppendResponse(ctx, resp)
	return resp, errors.Wrap(err, "appending response")
}

// QueryResponses returns the raw responses of the form `id` in submission order.
func (svc *Service) QueryResponses(ctx context.Context, scope null.String, id string) ([]Response, error) {
	if _, err := svc.Get(ctx, scope, id); err != nil {
		return nil, err
	}
	resps, err := svc.repo.QueryResponses(ctx, id)
	return resps, errors.Wrap(err, "querying responses")
}

// Summary aggregates the current responses of the form `id`.
func (svc *Service) Summary(ctx context.Context, scope null.String, id string) (Summary, error) {
	form, err := svc.Get(ctx, scope, id)
	if err != nil {
		return Summary{}, err
	}
	resps, err := svc.repo.QueryResponses(ctx, id)
	if err != nil {
		return Summary{}, errors.Wrap(err, "querying responses")
	}
	return Summarize(form, resps), nil
}
