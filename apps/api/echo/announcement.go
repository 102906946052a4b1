package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/announcement"
)

type announcementApi struct {
	svc      *announcement.Service
	validate *validator.Validate
}

func registerAnnouncementAPI(g *echo.Group, privileged echo.MiddlewareFunc, svc *announcement.Service, validate *validator.Validate) {
	api := announcementApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/announcements")
	ag.GET("", api.query)
	ag.POST("", api.create, privileged)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, privileged)
	ag.DELETE("/:id", api.destroy, privileged)
}

// Handlers

func (api *announcementApi) create(ctx echo.Context) error {
	var data announcement.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.Author == "" {
		data.Author = getContextUser(ctx).Label(announcement.DefaultAuthor)
	}

	ann, err := api.svc.Create(ctx.Request().Context(), requestScope(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, ann)
}

func (api *announcementApi) query(ctx echo.Context) error {
	filter := announcement.QueryFilter{
		Institution: requestScope(ctx),
		Limit:       bindLimit(ctx),
	}
	anns, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	if anns == nil {
		anns = []announcement.Announcement{}
	}
	return ctx.JSON(http.StatusOK, anns)
}

func (api *announcementApi) retrieve(ctx echo.Context) error {
	ann, err := api.svc.Get(ctx.Request().Context(), requestScope(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting announcement")
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *announcementApi) update(ctx echo.Context) error {
	ann, err := api.svc.Get(ctx.Request().Context(), requestScope(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting announcement")
	}

	var data announcement.UpdateAnnouncement
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAnnouncement")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ann, err = api.svc.Update(ctx.Request().Context(), ann, data)
	if err != nil {
		return errors.Wrap(err, "updating announcement")
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *announcementApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), requestScope(ctx), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.NoContent(http.StatusNoContent)
}
