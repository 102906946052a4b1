package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/poll"
)

type formApi struct {
	svc      *poll.Service
	validate *validator.Validate
}

func registerFormAPI(g *echo.Group, privileged echo.MiddlewareFunc, svc *poll.Service, validate *validator.Validate) {
	api := formApi{
		svc:      svc,
		validate: validate,
	}

	fg := g.Group("/forms")
	fg.GET("", api.query)
	fg.POST("", api.create, privileged)

	// detail endpoints
	fg.GET("/:id", api.retrieve)
	fg.PUT("/:id", api.update, privileged)
	fg.DELETE("/:id", api.destroy, privileged)

	// responses
	fg.POST("/:id/responses", api.submitResponse)
	fg.GET("/:id/responses", api.queryResponses, privileged)
	fg.GET("/:id/summary", api.summary, privileged)
}

// Handlers

func (api *formApi) create(ctx echo.Context) error {
	var data poll.NewForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewForm")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.Author == "" {
		data.Author = getContextUser(ctx).Label(poll.DefaultAuthor)
	}

	form, err := api.svc.Create(ctx.Request().Context(), requestScope(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating form")
	}
	return ctx.JSON(http.StatusCreated, form)
}

func (api *formApi) query(ctx echo.Context) error {
	filter := poll.QueryFilter{
		Institution: requestScope(ctx),
		Limit:       bindLimit(ctx),
	}
	forms, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying forms")
	}
	if forms == nil {
		forms = []poll.Form{}
	}
	return ctx.JSON(http.StatusOK, forms)
}

func (api *formApi) retrieve(ctx echo.Context) error {
	form, err := api.svc.Get(ctx.Request().Context(), requestScope(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting form")
	}
	return ctx.JSON(http.StatusOK, form)
}

func (api *formApi) update(ctx echo.Context) error {
	form, err := api.svc.Get(ctx.Request().Context(), requestScope(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting form")
	}

	var data poll.UpdateForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateForm")
	}
	if err = data.Validate(form, api.validate); err != nil {
		return err
	}

	form, err = api.svc.Update(ctx.Request().Context(), form, data)
	if err != nil {
		return errors.Wrap(err, "updating form")
	}
	return ctx.JSON(http.StatusOK, form)
}

func (api *formApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), requestScope(ctx), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting form")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *formApi) submitResponse(ctx echo.Context) error {
	var data poll.NewResponse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResponse")
	}
	if data.User == "" {
		data.User = getContextUser(ctx).Label(poll.DefaultRespondent)
	}

	resp, err := api.svc.SubmitResponse(ctx.Request().Context(), requestScope(ctx), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "submitting response")
	}
	return ctx.JSON(http.StatusCreated, resp)
}

func (api *formApi) queryResponses(ctx echo.Context) error {
	resps, err := api.svc.QueryResponses(ctx.Request().Context(), requestScope(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying responses")
	}
	if resps == nil {
		resps = []poll.Response{}
	}
	return ctx.JSON(http.StatusOK, resps)
}

func (api *formApi) summary(ctx echo.Context) error {
	sum, err := api.svc.Summary(ctx.Request().Context(), requestScope(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "summarizing responses")
	}
	return ctx.JSON(http.StatusOK, sum)
}
