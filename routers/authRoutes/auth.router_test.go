package authRoutes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"logiclabs/config"
	"logiclabs/database"
	"logiclabs/database/dbtest"
	"logiclabs/models"
	"logiclabs/services/mail"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *fiber.App {
	t.Helper()
	app, _, _ := setupWithMail(t)
	return app
}

func setupWithMail(t *testing.T) (*fiber.App, *mail.ConsoleMailer, *mail.Notifications) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret-key", SaltRound: 4}
	database.Database.Db = dbtest.New(t)

	console := mail.NewConsoleMailer()
	notes := mail.NewNotifications(mail.NewDispatcher(console, time.Second))

	app := fiber.New()
	SetupAuthRoutes(app, notes)
	return app, console, notes
}

func signupAndLogin(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"firstName": "Asha", "lastName": "Rao", "email": email, "password": password, "role": "Student",
	})
	require.Equal(t, http.StatusCreated, status, body["message"])

	status, body = call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, body["message"])
	return body["data"].(map[string]interface{})["token"].(string)
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestSignupLoginMe(t *testing.T) {
	app := setup(t)

	status, body := call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"firstName": "Asha", "lastName": "Rao", "email": " Asha@Example.com ", "password": "s3cret!", "role": "Student",
	})
	require.Equal(t, http.StatusCreated, status, body["message"])
	user := body["data"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", user["email"])
	assert.NotContains(t, user, "password")

	var stored models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "asha@example.com").First(&stored).Error)
	assert.NotEqual(t, "s3cret!", stored.Password)
	assert.NotZero(t, stored.ProfileID)

	status, _ = call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"firstName": "A", "lastName": "R", "email": "asha@example.com", "password": "another", "role": "Student",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": "asha@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": "asha@example.com", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, status, body["message"])
	token := body["data"].(map[string]interface{})["token"].(string)
	require.NotEmpty(t, token)

	status, body = call(t, app, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Student", body["data"].(map[string]interface{})["role"])
}

func TestSignup_AdminRoleRejected(t *testing.T) {
	app := setup(t)

	status, body := call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"firstName": "Eve", "lastName": "X", "email": "eve@example.com", "password": "s3cret!", "role": "Admin",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["data"], "role")
}

func TestLogin_InactiveUser(t *testing.T) {
	app := setup(t)

	call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"firstName": "Bo", "lastName": "Li", "email": "bo@example.com", "password": "s3cret!", "role": "Instructor",
	})
	require.NoError(t, database.Database.Db.Model(&models.User{}).Where("email = ?", "bo@example.com").Update("active", false).Error)

	status, _ := call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": "bo@example.com", "password": "s3cret!"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestLogin_InactiveUserWrongPassword(t *testing.T) {
	app := setup(t)

	call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"firstName": "Bo", "lastName": "Li", "email": "bo@example.com", "password": "s3cret!", "role": "Instructor",
	})
	require.NoError(t, database.Database.Db.Model(&models.User{}).Where("email = ?", "bo@example.com").Update("active", false).Error)

	status, body := call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": "bo@example.com", "password": "guess"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password!", body["message"])
}

func TestChangePassword(t *testing.T) {
	app, console, notes := setupWithMail(t)
	token := signupAndLogin(t, app, "asha@example.com", "s3cret!")

	status, _ := call(t, app, http.MethodPut, "/auth/changepassword", token, fiber.Map{
		"oldPassword": "wrong!", "newPassword": "n3wpass", "confirmPassword": "n3wpass",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, app, http.MethodPut, "/auth/changepassword", token, fiber.Map{
		"oldPassword": "s3cret!", "newPassword": "n3wpass", "confirmPassword": "different",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["data"], "confirmPassword")

	status, body = call(t, app, http.MethodPut, "/auth/changepassword", token, fiber.Map{
		"oldPassword": "s3cret!", "newPassword": "n3wpass", "confirmPassword": "n3wpass",
	})
	require.Equal(t, http.StatusOK, status, body["message"])

	status, _ = call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": "asha@example.com", "password": "s3cret!"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": "asha@example.com", "password": "n3wpass"})
	assert.Equal(t, http.StatusOK, status)

	notes.Wait()
	sent := console.Sent()
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0].Subject, "Password updated successfully"))
	assert.Equal(t, "asha@example.com", sent[0].To)
}

func TestChangePassword_RequiresToken(t *testing.T) {
	app := setup(t)

	status, _ := call(t, app, http.MethodPut, "/auth/changepassword", "", fiber.Map{
		"oldPassword": "s3cret!", "newPassword": "n3wpass", "confirmPassword": "n3wpass",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogout_ExpiresCookie(t *testing.T) {
	app := setup(t)
	token := signupAndLogin(t, app, "asha@example.com", "s3cret!")

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "token" {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "none", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}
