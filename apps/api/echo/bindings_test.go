package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/poll"
	"github.com/trezcool/darasa/core/user"
)

func newContext(target string, header map[string]string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func Test_requestScope(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header map[string]string
		usr    *user.User
		want   null.String
	}{
		{name: "unscoped", target: "/"},
		{name: "query param", target: "/?institution=uni-1", want: null.StringFrom("uni-1")},
		{name: "blank query param", target: "/?institution=%20", want: null.String{}},
		{
			name:   "header wins over query param",
			target: "/?institution=uni-1",
			header: map[string]string{HeaderInstitutionID: "uni-2"},
			want:   null.StringFrom("uni-2"),
		},
		{
			name:   "user wins over header",
			target: "/",
			header: map[string]string{HeaderInstitutionID: "uni-2"},
			usr:    &user.User{ID: "1", Role: user.RoleStudent, Institution: "uni-3"},
			want:   null.StringFrom("uni-3"),
		},
		{
			name:   "unscoped user",
			target: "/?institution=uni-1",
			usr:    &user.User{ID: "1", Role: user.RoleAdmin},
			want:   null.StringFrom("uni-1"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(tt.target, tt.header)
			if tt.usr != nil {
				ctx.Set(contextUserKey, *tt.usr)
			}
			assert.Equal(t, tt.want, requestScope(ctx))
		})
	}
}

func Test_bindLimit(t *testing.T) {
	tests := []struct {
		target string
		want   int
	}{
		{target: "/", want: 0},
		{target: "/?limit=5", want: 5},
		{target: "/?limit=-5", want: 0},
		{target: "/?limit=lol", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, bindLimit(newContext(tt.target, nil)))
		})
	}
}

func Test_httpError(t *testing.T) {
	other := errors.New("lol")

	assert.Equal(t, errHttpNotFound, httpError(poll.ErrNotFound))
	assert.Equal(t, errHttpNotFound, httpError(announcement.ErrNotFound))
	assert.Equal(t, errHttpForbidden, httpError(core.ErrForbidden))
	assert.Equal(t, errHttpNotFound, httpError(errors.Cause(errors.Wrap(poll.ErrNotFound, "getting form"))))
	assert.Equal(t, other, httpError(other))
}

func Test_getContextUser(t *testing.T) {
	ctx := newContext("/", nil)
	assert.Equal(t, user.Anonymous, getContextUser(ctx))
	assert.False(t, isAuthenticated(ctx))
}
