package core

import (
	"strings"

	"github.com/volatiletech/null/v8"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Scope returns the institution scoping key of `inst`; blank institutions are unscoped.
func Scope(inst string) null.String {
	inst = CleanString(inst)
	return null.NewString(inst, inst != "")
}

// CheckScope returns ErrForbidden when both the caller and the resource are scoped to different institutions.
func CheckScope(caller, resource null.String) error {
	if caller.Valid && resource.Valid && caller.String != resource.String {
		return ErrForbidden
	}
	return nil
}

// ClampLimit returns `limit` bounded to [1, max], or `def` when limit is unset.
func ClampLimit(limit, def, max int) int {
	switch {
	case limit <= 0:
		return def
	case limit > max:
		return max
	}
	return limit
}
