package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/poll"
)

// RunPollRepositoryTests checks the behaviour every poll.Repository must have.
// newRepo must return a repository over an empty database.
func RunPollRepositoryTests(t *testing.T, newRepo func(t *testing.T) poll.Repository) {
	ctx := context.Background()
	colour := []poll.Question{{Text: "Colour?", Options: []string{"Red", "Blue"}}}

	t.Run("create & get", func(t *testing.T) {
		repo := newRepo(t)
		form := CreateForm(t, repo, uuid.New().String(), "Colours", poll.KindPoll, colour, "uni-1", true)

		got, err := repo.GetForm(ctx, form.ID)
		require.NoError(t, err)
		assert.Equal(t, form, got)
		assert.Equal(t, null.StringFrom("uni-1"), got.Institution)
	})

	t.Run("get unknown", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetForm(ctx, uuid.New().String())
		assert.Equal(t, poll.ErrNotFound, errors.Cause(err))
	})

	t.Run("query: scoping, ordering & limit", func(t *testing.T) {
		repo := newRepo(t)
		now := time.Now()
		f1 := CreateForm(t, repo, uuid.New().String(), "f1", poll.KindPoll, colour, "uni-1", false, now.Add(-3*time.Hour))
		f2 := CreateForm(t, repo, uuid.New().String(), "f2", poll.KindQnA, nil, "uni-1", false, now.Add(-1*time.Hour))
		f3 := CreateForm(t, repo, uuid.New().String(), "f3", poll.KindPoll, colour, "uni-2", false, now.Add(-2*time.Hour))
		f4 := CreateForm(t, repo, uuid.New().String(), "f4", poll.KindPoll, colour, "", true, now.Add(-4*time.Hour))

		tests := []struct {
			name   string
			filter poll.QueryFilter
			want   []poll.Form
		}{
			{name: "all", filter: poll.QueryFilter{}, want: []poll.Form{f4, f2, f3, f1}},
			{name: "uni-1", filter: poll.QueryFilter{Institution: null.StringFrom("uni-1")}, want: []poll.Form{f2, f1}},
			{name: "unknown institution", filter: poll.QueryFilter{Institution: null.StringFrom("lol")}, want: []poll.Form{}},
			{name: "limit", filter: poll.QueryFilter{Limit: 2}, want: []poll.Form{f4, f2}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.QueryForms(ctx, tt.filter)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("update", func(t *testing.T) {
		repo := newRepo(t)
		form := CreateForm(t, repo, uuid.New().String(), "Colours", poll.KindPoll, colour, "", false)

		form.Title = "Colors"
		form.Pinned = true
		form.Questions = append(form.Questions, poll.Question{Text: "Shade?", Options: []string{"Dark", "Light"}})
		form.UpdatedAt = form.UpdatedAt.Add(time.Minute)
		got, err := repo.UpdateForm(ctx, form)
		require.NoError(t, err)
		assert.Equal(t, form, got)

		_, err = repo.UpdateForm(ctx, poll.Form{ID: uuid.New().String(), Title: "x", Kind: poll.KindPoll})
		assert.Equal(t, poll.ErrNotFound, errors.Cause(err))
	})

	t.Run("responses keep submission order", func(t *testing.T) {
		repo := newRepo(t)
		form := CreateForm(t, repo, uuid.New().String(), "Colours", poll.KindPoll, colour, "", false)
		other := CreateForm(t, repo, uuid.New().String(), "Other", poll.KindPoll, colour, "", false)

		r1 := AppendResponse(t, repo, form.ID, "Anonymous", Answers("Red")...)
		AppendResponse(t, repo, other.ID, "Anonymous", Answers("Blue")...)
		r2 := AppendResponse(t, repo, form.ID, "Jane", Answers(nil, "")...)
		r3 := AppendResponse(t, repo, form.ID, "Jane")

		got, err := repo.QueryResponses(ctx, form.ID)
		require.NoError(t, err)
		assert.Equal(t, []poll.Response{r1, r2, r3}, got)
		assert.Less(t, r1.Seq, r2.Seq)
		assert.Less(t, r2.Seq, r3.Seq)
		assert.Equal(t, []null.String{{}, null.StringFrom("")}, got[1].Answers)
	})

	t.Run("append to unknown form", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.AppendResponse(ctx, poll.Response{FormID: uuid.New().String(), User: "x", CreatedAt: time.Now()})
		assert.Equal(t, poll.ErrNotFound, errors.Cause(err))
	})

	t.Run("concurrent appends are all kept", func(t *testing.T) {
		repo := newRepo(t)
		form := CreateForm(t, repo, uuid.New().String(), "Colours", poll.KindPoll, colour, "", false)

		n := 50
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.AppendResponse(ctx, poll.Response{
					FormID:    form.ID,
					User:      "Anonymous",
					Answers:   Answers("Red"),
					CreatedAt: time.Now().UTC(),
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := repo.QueryResponses(ctx, form.ID)
		require.NoError(t, err)
		require.Len(t, got, n)
		seen := make(map[int64]bool, n)
		for i, r := range got {
			assert.False(t, seen[r.Seq], "duplicate seq %d", r.Seq)
			seen[r.Seq] = true
			if i > 0 {
				assert.Less(t, got[i-1].Seq, r.Seq)
			}
		}
	})

	t.Run("delete cascades to responses", func(t *testing.T) {
		repo := newRepo(t)
		form := CreateForm(t, repo, uuid.New().String(), "Colours", poll.KindPoll, colour, "", false)
		AppendResponse(t, repo, form.ID, "Anonymous", Answers("Red")...)

		require.NoError(t, repo.DeleteForm(ctx, form.ID))

		_, err := repo.GetForm(ctx, form.ID)
		assert.Equal(t, poll.ErrNotFound, errors.Cause(err))
		resps, err := repo.QueryResponses(ctx, form.ID)
		require.NoError(t, err)
		assert.Empty(t, resps)

		assert.Equal(t, poll.ErrNotFound, errors.Cause(repo.DeleteForm(ctx, form.ID)))
	})
}

// RunAnnouncementRepositoryTests checks the behaviour every announcement.Repository must have.
func RunAnnouncementRepositoryTests(t *testing.T, newRepo func(t *testing.T) announcement.Repository) {
	ctx := context.Background()

	t.Run("create & get", func(t *testing.T) {
		repo := newRepo(t)
		ann := CreateAnnouncement(t, repo, uuid.New().String(), "Exams", "Exams start on monday", "uni-1", false)

		got, err := repo.GetAnnouncement(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, ann, got)

		_, err = repo.GetAnnouncement(ctx, uuid.New().String())
		assert.Equal(t, announcement.ErrNotFound, errors.Cause(err))
	})

	t.Run("query: scoping, ordering & limit", func(t *testing.T) {
		repo := newRepo(t)
		now := time.Now()
		a1 := CreateAnnouncement(t, repo, uuid.New().String(), "a1", "", "uni-1", false, now.Add(-2*time.Hour))
		a2 := CreateAnnouncement(t, repo, uuid.New().String(), "a2", "", "uni-2", false, now.Add(-1*time.Hour))
		a3 := CreateAnnouncement(t, repo, uuid.New().String(), "a3", "", "uni-1", true, now.Add(-3*time.Hour))

		tests := []struct {
			name   string
			filter announcement.QueryFilter
			want   []announcement.Announcement
		}{
			{name: "all", want: []announcement.Announcement{a3, a2, a1}},
			{name: "uni-1", filter: announcement.QueryFilter{Institution: null.StringFrom("uni-1")}, want: []announcement.Announcement{a3, a1}},
			{name: "limit", filter: announcement.QueryFilter{Limit: 1}, want: []announcement.Announcement{a3}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.QueryAnnouncements(ctx, tt.filter)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("update & delete", func(t *testing.T) {
		repo := newRepo(t)
		ann := CreateAnnouncement(t, repo, uuid.New().String(), "Exams", "", "", false)

		ann.Title = "Exams (updated)"
		ann.Content = "Room 12"
		ann.Pinned = true
		got, err := repo.UpdateAnnouncement(ctx, ann)
		require.NoError(t, err)
		assert.Equal(t, ann, got)

		require.NoError(t, repo.DeleteAnnouncement(ctx, ann.ID))
		_, err = repo.GetAnnouncement(ctx, ann.ID)
		assert.Equal(t, announcement.ErrNotFound, errors.Cause(err))
		assert.Equal(t, announcement.ErrNotFound, errors.Cause(repo.DeleteAnnouncement(ctx, ann.ID)))
	})
}
