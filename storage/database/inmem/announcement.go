package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/announcement"
)

type announcementRepository struct {
	db *announcementTable
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(db *DB) *announcementRepository {
	return &announcementRepository{db: db.announcement}
}

func (repo *announcementRepository) CreateAnnouncement(_ context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := ann
	repo.db.table[ann.ID] = &stored
	return ann, nil
}

func (repo *announcementRepository) QueryAnnouncements(_ context.Context, filter announcement.QueryFilter) ([]announcement.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	anns := make([]announcement.Announcement, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		if filter.Institution.Valid && a.Institution != filter.Institution {
			continue
		}
		anns = append(anns, *a)
	}
	sort.Slice(anns, func(i, j int) bool {
		ai, aj := anns[i], anns[j]
		if ai.Pinned != aj.Pinned {
			return ai.Pinned
		}
		if !ai.CreatedAt.Equal(aj.CreatedAt) {
			return ai.CreatedAt.After(aj.CreatedAt)
		}
		return ai.ID < aj.ID
	})
	if filter.Limit > 0 && len(anns) > filter.Limit {
		anns = anns[:filter.Limit]
	}
	return anns, nil
}

func (repo *announcementRepository) GetAnnouncement(_ context.Context, id string) (announcement.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return announcement.Announcement{}, announcement.ErrNotFound
}

func (repo *announcementRepository) UpdateAnnouncement(_ context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[ann.ID]; !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	stored := ann
	repo.db.table[ann.ID] = &stored
	return ann, nil
}

func (repo *announcementRepository) DeleteAnnouncement(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return announcement.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
