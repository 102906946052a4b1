package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

const (
	contextTokenKey = "userToken"
	contextUserKey  = "user"

	// tokenAudience is the audience of the tokens accepted by the API.
	tokenAudience = "Darasa"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name        string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
	Institution string `json:"institution,omitempty"`
}

// GetUserClaims returns the claims of a token identifying `usr`.
func GetUserClaims(usr user.User, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:        usr.Name,
		Role:        usr.Role,
		Institution: usr.Institution,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// newJWTConfig returns the JWT auth middleware config.
// Requests without an Authorization header are let through anonymously.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		Skipper: func(ctx echo.Context) bool {
			return ctx.Request().Header.Get(echo.HeaderAuthorization) == ""
		},
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextUser returns the caller of the request, user.Anonymous when unauthenticated.
func getContextUser(ctx echo.Context) user.User {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr
	}

	usr := user.Anonymous
	if claims, err := getContextClaims(ctx); err == nil {
		usr = user.User{
			ID:          claims.Subject,
			Name:        claims.Name,
			Role:        claims.Role,
			Institution: claims.Institution,
		}
		if !user.IsRole(usr.Role) {
			usr.Role = user.RoleStudent
		}
	}
	ctx.Set(contextUserKey, usr)
	return usr
}

func isAuthenticated(ctx echo.Context) bool {
	_, err := getContextClaims(ctx)
	return err == nil
}

// privilegedMiddleware only lets admins and instructors through.
func privilegedMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !isAuthenticated(ctx) {
				return errUnauthorized
			}
			if getContextUser(ctx).IsPrivileged() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
