package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"logiclabs/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWTApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret-key"}

	app := fiber.New()
	app.Get("/protected", JWTMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": c.Locals("userId"), "role": c.Locals("role")})
	})
	app.Get("/instructor", JWTMiddleware, RequireRole("Instructor"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestJWTMiddleware_ValidToken_Header(t *testing.T) {
	app := setupJWTApp(t)
	token, err := GenerateJWT(42, "Student", "s@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, float64(42), body["userId"])
	assert.Equal(t, "Student", body["role"])
}

func TestJWTMiddleware_ValidToken_Cookie(t *testing.T) {
	app := setupJWTApp(t)
	token, err := GenerateJWT(7, "Instructor", "i@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	app := setupJWTApp(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 1, "role": "Student", "exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 1, "role": "Student", "exp": time.Now().Add(time.Hour).Unix(),
	})
	foreignToken, err := foreign.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "Student", "exp": time.Now().Add(time.Hour).Unix(),
	})
	noUserToken, err := noUser.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no token", ""},
		{"not bearer", "Token abc"},
		{"garbage", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expiredToken},
		{"wrong secret", "Bearer " + foreignToken},
		{"missing user", "Bearer " + noUserToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	app := setupJWTApp(t)

	student, err := GenerateJWT(1, "Student", "s@example.com")
	require.NoError(t, err)
	instructor, err := GenerateJWT(2, "Instructor", "i@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/instructor", nil)
	req.Header.Set("Authorization", "Bearer "+student)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/instructor", nil)
	req.Header.Set("Authorization", "Bearer "+instructor)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
