package announcement

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
	ErrNotFound = errors.New("announcement not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		// QueryAnnouncements returns the announcements of filter.Institution (all of them when unscoped),
		// pinned ones first, then the most recent first.
		QueryAnnouncements(ctx context.Context, filter QueryFilter) ([]Announcement, error)
		GetAnnouncement(ctx context.Context, id string) (Announcement, error)
		UpdateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		DeleteAnnouncement(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
		conf *core.Config
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, conf: conf}
}

func (svc *Service) Create(ctx context.Context, scope null.String, na NewAnnouncement) (Announcement, error) {
	now := nowFunc().UTC()
	ann := Announcement{
		ID:          uuid.New().String(),
		Title:       na.Title,
		Content:     na.Content,
		Author:      na.Author,
		Institution: core.Scope(na.Institution),
		Pinned:      na.Pinned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if ann.Author == "" {
		ann.Author = DefaultAuthor
	}
	if !ann.Institution.Valid {
		ann.Institution = scope
	}
	ann, err := svc.repo.CreateAnnouncement(ctx, ann)
	return ann, errors.Wrap(err, "creating announcement")
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Announcement, error) {
	filter.Limit = core.ClampLimit(filter.Limit, svc.conf.Listing.AnnouncementLimit, svc.conf.Listing.AnnouncementMaxLimit)
	anns, err := svc.repo.QueryAnnouncements(ctx, filter)
	return anns, errors.Wrap(err, "querying announcements")
}

func (svc *Service) Get(ctx context.Context, scope null.String, id string) (Announcement, error) {
	ann, err := svc.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return Announcement{}, errors.Wrap(err, "getting announcement")
	}
	if err = core.CheckScope(scope, ann.Institution); err != nil {
		return Announcement{}, err
	}
	return ann, nil
}

func (svc *Service) Update(ctx context.Context, ann Announcement, ua UpdateAnnouncement) (Announcement, error) {
	if ua.Title != nil {
		ann.Title = *ua.Title
	}
	if ua.Content != nil {
		ann.Content = *ua.Content
	}
	if ua.Pinned != nil {
		ann.Pinned = *ua.Pinned
	}
	ann.UpdatedAt = nowFunc().UTC()
	ann, err := svc.repo.UpdateAnnouncement(ctx, ann)
	return ann, errors.Wrap(err, "updating announcement")
}

func (svc *Service) Delete(ctx context.Context, scope null.String, id string) error {
	if _, err := svc.Get(ctx, scope, id); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteAnnouncement(ctx, id), "deleting announcement")
}
