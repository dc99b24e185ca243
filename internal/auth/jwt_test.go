package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lumenlearn/objecthub/internal/auth"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestVerify_RoundTrip(t *testing.T) {
	verifier := auth.NewTokenVerifier(testSecret, "objecthub-test")

	want := domain.Requester{
		ID:           uuid.New(),
		Username:     "ada",
		AccessGroups: []string{"curator@physics", "reviewer@chemistry"},
	}

	token, err := verifier.IssueToken(want, time.Minute)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokenVerifier(testSecret, "objecthub-test")
	verifier := auth.NewTokenVerifier("ffffffffffffffffffffffffffffffff", "objecthub-test")

	token, err := issuer.IssueToken(domain.Requester{ID: uuid.New(), Username: "ada"}, time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	verifier := auth.NewTokenVerifier(testSecret, "objecthub-test")

	token, err := verifier.IssueToken(domain.Requester{ID: uuid.New(), Username: "ada"}, -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerify_RejectsWrongIssuer(t *testing.T) {
	issuer := auth.NewTokenVerifier(testSecret, "someone-else")
	verifier := auth.NewTokenVerifier(testSecret, "objecthub-test")

	token, err := issuer.IssueToken(domain.Requester{ID: uuid.New(), Username: "ada"}, time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestMiddleware_ResolvesRequester(t *testing.T) {
	verifier := auth.NewTokenVerifier(testSecret, "objecthub-test")
	want := domain.Requester{ID: uuid.New(), Username: "grace", AccessGroups: []string{"admin"}}

	token, err := verifier.IssueToken(want, time.Minute)
	require.NoError(t, err)

	got := runMiddleware(t, verifier, "Bearer "+token)
	assert.Equal(t, want, got)
}

func TestMiddleware_MissingTokenIsAnonymous(t *testing.T) {
	verifier := auth.NewTokenVerifier(testSecret, "objecthub-test")

	got := runMiddleware(t, verifier, "")
	assert.True(t, got.IsAnonymous())
}

func TestMiddleware_MalformedTokenIsAnonymous(t *testing.T) {
	verifier := auth.NewTokenVerifier(testSecret, "objecthub-test")

	got := runMiddleware(t, verifier, "Bearer not-a-token")
	assert.True(t, got.IsAnonymous())
}

func runMiddleware(t *testing.T, verifier *auth.TokenVerifier, header string) domain.Requester {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got domain.Requester
	handler := auth.Middleware(verifier)(func(c echo.Context) error {
		got = auth.RequesterFrom(c)
		return nil
	})
	require.NoError(t, handler(c))
	return got
}
