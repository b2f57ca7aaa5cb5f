package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser map[string]string

func (p stubParser) ParseToken(token string) (string, error) {
	if id, ok := p[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func echoUser(c *fiber.Ctx) error {
	return c.SendString(UserID(c))
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestOptionalAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", OptionalAuth(stubParser{"good": "user-1"}, "token"), echoUser)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		expect string
	}{
		{"anonymous", func(r *http.Request) {}, ""},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: "good"}) }, "user-1"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, "user-1"},
		{"invalid", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: "bad"}) }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.expect, body(t, resp))
		})
	}
}

func TestRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireAuth(stubParser{"good": "user-1"}, "token"), echoUser)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "good"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-1", body(t, resp))
}

func TestProfile(t *testing.T) {
	app := fiber.New()
	app.Get("/", Profile(false), func(c *fiber.Ctx) error {
		return c.SendString(ProfileID(c))
	})

	t.Run("mints a profile", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		id := body(t, resp)
		_, err = uuid.Parse(id)
		require.NoError(t, err)

		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == ProfileCookie {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.Equal(t, id, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("keeps an existing profile", func(t *testing.T) {
		existing := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ProfileCookie, Value: existing})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, existing, body(t, resp))
		assert.Empty(t, resp.Cookies())
	})

	t.Run("accepts the header", func(t *testing.T) {
		existing := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(ProfileHeader, existing)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, existing, body(t, resp))
	})

	t.Run("replaces a malformed profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ProfileCookie, Value: "../../etc"})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.NotEqual(t, "../../etc", body(t, resp))
	})
}
