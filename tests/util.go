package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/poll"
	"github.com/trezcool/darasa/storage/database"
)

// DatabaseURLEnv names the env var holding the postgres test database url.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// NewConfig returns the configuration used by tests.
func NewConfig() *core.Config {
	return &core.Config{
		Env:       "TEST",
		Build:     "test",
		TestMode:  true,
		AppName:   "Darasa",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
		},
		Database: core.DatabaseConfig{Engine: core.EngineInMem},
		Listing: core.ListingConfig{
			FormLimit:            20,
			FormMaxLimit:         200,
			AnnouncementLimit:    7,
			AnnouncementMaxLimit: 50,
		},
	}
}

// NewValidator returns a validator and its english translator, set up like the API's.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate, translator
}

// PrepareDB opens, migrates and empties the postgres test database.
// The test is skipped when no database is configured.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", DatabaseURLEnv)
	}
	db, err := database.OpenURL(dsn)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if _, err = db.Exec("TRUNCATE form, form_response, announcement RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func CreateForm(
	t *testing.T,
	repo poll.Repository,
	id, title string,
	kind poll.Kind,
	questions []poll.Question,
	institution string,
	pinned bool,
	createdAt ...time.Time,
) poll.Form {
	t.Helper()

	tstamp := time.Now().UTC().Truncate(time.Microsecond)
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC().Truncate(time.Microsecond)
	}
	if questions == nil {
		questions = []poll.Question{}
	}
	form := poll.Form{
		ID:          id,
		Title:       title,
		Kind:        kind,
		Questions:   questions,
		Author:      poll.DefaultAuthor,
		Institution: core.Scope(institution),
		Pinned:      pinned,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	form, err := repo.CreateForm(context.Background(), form)
	if err != nil {
		t.Fatalf("CreateForm() failed: %v", err)
	}
	return form
}

func AppendResponse(t *testing.T, repo poll.Repository, formID, usr string, answers ...null.String) poll.Response {
	t.Helper()

	if answers == nil {
		answers = []null.String{}
	}
	resp, err := repo.AppendResponse(context.Background(), poll.Response{
		FormID:    formID,
		User:      usr,
		Answers:   answers,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		t.Fatalf("AppendResponse() failed: %v", err)
	}
	return resp
}

func CreateAnnouncement(
	t *testing.T,
	repo announcement.Repository,
	id, title, content, institution string,
	pinned bool,
	createdAt ...time.Time,
) announcement.Announcement {
	t.Helper()

	tstamp := time.Now().UTC().Truncate(time.Microsecond)
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC().Truncate(time.Microsecond)
	}
	ann := announcement.Announcement{
		ID:          id,
		Title:       title,
		Content:     content,
		Author:      announcement.DefaultAuthor,
		Institution: core.Scope(institution),
		Pinned:      pinned,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	ann, err := repo.CreateAnnouncement(context.Background(), ann)
	if err != nil {
		t.Fatalf("CreateAnnouncement() failed: %v", err)
	}
	return ann
}

// Answers builds raw answers; nil values become null answers.
func Answers(vals ...interface{}) []null.String {
	ans := make([]null.String, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			ans[i] = null.StringFrom(s)
		}
	}
	return ans
}
