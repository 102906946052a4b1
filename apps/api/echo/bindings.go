package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

const (
	// HeaderInstitutionID scopes anonymous requests to an institution.
	HeaderInstitutionID = "X-Institution-ID"

	institutionParam = "institution"
	limitParam       = "limit"
)

// requestScope returns the institution a request is scoped to:
// the caller's token institution, else the X-Institution-ID header, else the `institution` query param.
func requestScope(ctx echo.Context) null.String {
	if scope := getContextUser(ctx).Scope(); scope.Valid {
		return scope
	}
	if scope := core.Scope(ctx.Request().Header.Get(HeaderInstitutionID)); scope.Valid {
		return scope
	}
	return core.Scope(ctx.QueryParam(institutionParam))
}

// bindLimit reads the `limit` query param; 0 (use the default) when missing or invalid.
func bindLimit(ctx echo.Context) int {
	limit, err := strconv.Atoi(ctx.QueryParam(limitParam))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
