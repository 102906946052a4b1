package inmemdb_test

import (
	"testing"

	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/poll"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	testutil "github.com/trezcool/darasa/tests"
)

func TestPollRepository(t *testing.T) {
	testutil.RunPollRepositoryTests(t, func(t *testing.T) poll.Repository {
		return inmemdb.NewPollRepository(inmemdb.Open())
	})
}

func TestAnnouncementRepository(t *testing.T) {
	testutil.RunAnnouncementRepositoryTests(t, func(t *testing.T) announcement.Repository {
		return inmemdb.NewAnnouncementRepository(inmemdb.Open())
	})
}
