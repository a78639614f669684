package categoryRoutes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"logiclabs/config"
	"logiclabs/database"
	"logiclabs/database/dbtest"
	"logiclabs/middleware"
	"logiclabs/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	app        *fiber.App
	db         *gorm.DB
	instructor models.User
	tokens     map[string]string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret-key"}
	db := dbtest.New(t)
	database.Database.Db = db

	f := &fixture{db: db, tokens: map[string]string{}}
	for _, u := range []models.User{
		{FirstName: "Ad", LastName: "Min", Email: "admin@example.com", Role: models.RoleAdmin},
		{FirstName: "Ravi", LastName: "K", Email: "ravi@example.com", Role: models.RoleInstructor},
	} {
		u.Password = "x"
		u.Active = true
		require.NoError(t, db.Create(&u).Error)
		token, err := middleware.GenerateJWT(u.ID, u.Role, u.Email)
		require.NoError(t, err)
		f.tokens[u.Role] = token
		if u.Role == models.RoleInstructor {
			f.instructor = u
		}
	}

	f.app = fiber.New()
	SetupCategoryRoutes(f.app)
	return f
}

func (f *fixture) do(t *testing.T, who, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if who != "" {
		req.Header.Set("Authorization", "Bearer "+f.tokens[who])
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (f *fixture) course(t *testing.T, title string, categoryID uint, enrolled int64, status string) models.Course {
	t.Helper()
	c := models.Course{Title: title, Price: 100, Status: status, InstructorID: f.instructor.ID, CategoryID: &categoryID, EnrolledCount: enrolled}
	require.NoError(t, f.db.Create(&c).Error)
	return c
}

func titles(list interface{}) []string {
	var out []string
	for _, item := range list.([]interface{}) {
		out = append(out, item.(map[string]interface{})["title"].(string))
	}
	return out
}

func TestCreateAndListCategories(t *testing.T) {
	f := setup(t)

	status, body := f.do(t, models.RoleAdmin, http.MethodPost, "/category", fiber.Map{"name": " Web Development ", "description": "HTML to HTTP"})
	require.Equal(t, http.StatusCreated, status, body["message"])
	assert.Equal(t, "Web Development", body["data"].(map[string]interface{})["name"])

	status, _ = f.do(t, models.RoleAdmin, http.MethodPost, "/category", fiber.Map{"name": "Web Development"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = f.do(t, models.RoleAdmin, http.MethodPost, "/category", fiber.Map{"name": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = f.do(t, models.RoleInstructor, http.MethodPost, "/category", fiber.Map{"name": "Data"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = f.do(t, "", http.MethodGet, "/category", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["data"], 1)
	assert.Equal(t, "HTML to HTTP", body["data"].([]interface{})[0].(map[string]interface{})["description"])
}

func TestCategoryPageDetails(t *testing.T) {
	f := setup(t)
	web := models.Category{Name: "Web"}
	data := models.Category{Name: "Data"}
	require.NoError(t, f.db.Create(&web).Error)
	require.NoError(t, f.db.Create(&data).Error)

	f.course(t, "HTTP basics", web.ID, 5, models.CoursePublished)
	f.course(t, "Fiber APIs", web.ID, 40, models.CoursePublished)
	f.course(t, "Web drafts", web.ID, 0, models.CourseDraft)
	f.course(t, "SQL joins", data.ID, 90, models.CoursePublished)

	status, body := f.do(t, "", http.MethodGet, fmt.Sprintf("/category/%d/courses", web.ID), nil)
	require.Equal(t, http.StatusOK, status, body["message"])
	page := body["data"].(map[string]interface{})

	assert.Equal(t, "Web", page["selectedCategory"].(map[string]interface{})["name"])
	assert.Equal(t, []string{"Fiber APIs", "HTTP basics"}, titles(page["mostPopularCourses"]))
	assert.Equal(t, []string{"Fiber APIs", "HTTP basics"}, titles(page["newestCourses"]))
	assert.Equal(t, []string{"SQL joins", "Fiber APIs", "HTTP basics"}, titles(page["topSellingCourses"]))

	other := page["otherCategory"].(map[string]interface{})
	assert.Equal(t, "Data", other["name"])
	assert.Equal(t, []string{"SQL joins"}, titles(other["courses"]))

	status, _ = f.do(t, "", http.MethodGet, "/category/999/courses", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
