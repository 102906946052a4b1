package announcement

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

const DefaultAuthor = "Admin"

type Announcement struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Author      string      `json:"author"`
	Institution null.String `json:"institution"`
	Pinned      bool        `json:"pinned"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type (
	NewAnnouncement struct {
		Title       string `json:"title" validate:"required,notblank"`
		Content     string `json:"content"`
		Author      string `json:"author"`
		Institution string `json:"institution"`
		Pinned      bool   `json:"pinned"`
	}

	UpdateAnnouncement struct {
		Title   *string `json:"title" validate:"omitempty,notblank"`
		Content *string `json:"content"`
		Pinned  *bool   `json:"pinned"`
	}

	QueryFilter struct {
		Institution null.String
		Limit       int
	}
)

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
	na.Author = core.CleanString(na.Author)
	na.Institution = core.CleanString(na.Institution)
	return validate.Struct(na)
}

func (ua *UpdateAnnouncement) Validate(validate *validator.Validate) error {
	if ua.Title != nil {
		title := core.CleanString(*ua.Title)
		ua.Title = &title
	}
	if ua.Content != nil {
		content := core.CleanString(*ua.Content)
		ua.Content = &content
	}
	return validate.Struct(ua)
}
