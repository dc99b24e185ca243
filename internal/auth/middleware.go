package auth

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lumenlearn/objecthub/internal/domain"
)

const requesterContextKey = "requester"

// Middleware resolves the bearer token into a requester and stores it
// on the request context. A missing or invalid token degrades to the
// anonymous requester rather than rejecting the request: the service
// layer decides what anonymous callers may see.
func Middleware(verifier *TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(requesterContextKey, resolveRequester(c, verifier))
			return next(c)
		}
	}
}

func resolveRequester(c echo.Context, verifier *TokenVerifier) domain.Requester {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return domain.Anonymous
	}

	requester, err := verifier.Verify(token)
	if err != nil {
		slog.Debug("Rejected bearer token, treating request as anonymous", "error", err)
		return domain.Anonymous
	}
	return requester
}

// RequesterFrom extracts the requester resolved by Middleware. Returns
// the anonymous requester when the middleware did not run.
func RequesterFrom(c echo.Context) domain.Requester {
	if r, ok := c.Get(requesterContextKey).(domain.Requester); ok {
		return r
	}
	return domain.Anonymous
}
