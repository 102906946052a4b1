package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/announcement"
)

const announcementColumns = `id, title, content, author, institution, pinned, created_at, updated_at`

type announcementRow struct {
	ID          string      `db:"id"`
	Title       string      `db:"title"`
	Content     string      `db:"content"`
	Author      string      `db:"author"`
	Institution null.String `db:"institution"`
	Pinned      bool        `db:"pinned"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r announcementRow) toAnnouncement() announcement.Announcement {
	ann := announcement.Announcement(r)
	ann.CreatedAt = r.CreatedAt.UTC()
	ann.UpdatedAt = r.UpdatedAt.UTC()
	return ann
}

type announcementRepository struct {
	db *sqlx.DB
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(db *sqlx.DB) *announcementRepository {
	return &announcementRepository{db: db}
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	q := `INSERT INTO announcement (` + announcementColumns + `)
		VALUES (:id, :title, :content, :author, :institution, :pinned, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, announcementRow(ann)); err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return repo.GetAnnouncement(ctx, ann.ID)
}

func (repo *announcementRepository) QueryAnnouncements(ctx context.Context, filter announcement.QueryFilter) ([]announcement.Announcement, error) {
	q := `SELECT ` + announcementColumns + ` FROM announcement
		WHERE ($1::text IS NULL OR institution = $1)
		ORDER BY pinned DESC, created_at DESC, id
		LIMIT NULLIF($2, 0)`
	var rows []announcementRow
	if err := repo.db.SelectContext(ctx, &rows, q, filter.Institution, filter.Limit); err != nil {
		return nil, errors.Wrap(err, "selecting announcements")
	}
	anns := make([]announcement.Announcement, len(rows))
	for i, r := range rows {
		anns[i] = r.toAnnouncement()
	}
	return anns, nil
}

func (repo *announcementRepository) GetAnnouncement(ctx context.Context, id string) (announcement.Announcement, error) {
	var row announcementRow
	q := `SELECT ` + announcementColumns + ` FROM announcement WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if isNotFound(err) {
			return announcement.Announcement{}, announcement.ErrNotFound
		}
		return announcement.Announcement{}, errors.Wrap(err, "selecting announcement")
	}
	return row.toAnnouncement(), nil
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	q := `UPDATE announcement
		SET title = :title, content = :content, pinned = :pinned, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, announcementRow(ann))
	if err != nil {
		if isNotFound(err) {
			return announcement.Announcement{}, announcement.ErrNotFound
		}
		return announcement.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	return repo.GetAnnouncement(ctx, ann.ID)
}

func (repo *announcementRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM announcement WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return announcement.ErrNotFound
		}
		return errors.Wrap(err, "deleting announcement")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	if n == 0 {
		return announcement.ErrNotFound
	}
	return nil
}
