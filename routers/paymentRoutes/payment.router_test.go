package paymentRoutes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"logiclabs/config"
	"logiclabs/database"
	"logiclabs/database/dbtest"
	"logiclabs/middleware"
	"logiclabs/models"
	"logiclabs/services/checkout"
	"logiclabs/services/mail"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gatewaySecret = "rzp_test_secret"

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	app     *fiber.App
	console *mail.ConsoleMailer
	notes   *mail.Notifications
	token   string
	courses []models.Course
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret-key"}
	db := dbtest.New(t)
	database.Database.Db = db

	student := models.User{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Password: "x", Role: models.RoleStudent, Active: true}
	require.NoError(t, db.Create(&student).Error)
	instructor := models.User{FirstName: "Ravi", LastName: "K", Email: "ravi@example.com", Password: "x", Role: models.RoleInstructor, Active: true}
	require.NoError(t, db.Create(&instructor).Error)

	courses := []models.Course{
		{Title: "Go", Price: 100, Status: models.CoursePublished, InstructorID: instructor.ID},
		{Title: "SQL", Price: 250, Status: models.CoursePublished, InstructorID: instructor.ID},
	}
	require.NoError(t, db.Create(&courses).Error)

	console := mail.NewConsoleMailer()
	notes := mail.NewNotifications(mail.NewDispatcher(console, time.Second))
	svc := checkout.NewService(db, checkout.NewSandboxGateway(), gatewaySecret, notes)

	app := fiber.New()
	SetupPaymentRoutes(app, svc, notes)

	token, err := middleware.GenerateJWT(student.ID, student.Role, student.Email)
	require.NoError(t, err)

	return &testEnv{app: app, console: console, notes: notes, token: token, courses: courses}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestPaymentFlow_CreateOrderThenVerify(t *testing.T) {
	e := setup(t)
	ids := []uint{e.courses[0].ID, e.courses[1].ID}

	status, env := e.do(t, http.MethodPost, "/payment/createorder", fiber.Map{"courseIds": ids})
	require.Equal(t, http.StatusOK, status, env.Message)

	var order checkout.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, int64(35000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.NotEmpty(t, order.ID)

	status, env = e.do(t, http.MethodPost, "/payment/verify", fiber.Map{
		"orderId":   order.ID,
		"paymentId": "pay_http",
		"signature": checkout.Sign(gatewaySecret, order.ID, "pay_http"),
		"courseIds": ids,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.True(t, env.Status)

	var result checkout.EnrollmentResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, ids, result.Courses)

	e.notes.Wait()
	assert.Len(t, e.console.Sent(), 2)

	status, env = e.do(t, http.MethodGet, "/payment/history", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "pay_http")
}

func TestPaymentFlow_TamperedSignature(t *testing.T) {
	e := setup(t)

	status, env := e.do(t, http.MethodPost, "/payment/verify", fiber.Map{
		"orderId":   "order_x",
		"paymentId": "pay_x",
		"signature": checkout.Sign("wrong", "order_x", "pay_x"),
		"courseIds": []uint{e.courses[0].ID},
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Status)
	assert.Equal(t, "INVALID_SIGNATURE", env.Code)
}

func TestPaymentFlow_ValidationErrors(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name string
		path string
		body interface{}
	}{
		{"empty basket", "/payment/createorder", fiber.Map{"courseIds": []uint{}}},
		{"duplicate course", "/payment/createorder", fiber.Map{"courseIds": []uint{1, 1}}},
		{"missing signature", "/payment/verify", fiber.Map{"orderId": "o", "paymentId": "p", "courseIds": []uint{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := e.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, status)
			assert.Equal(t, "Validation failed!", env.Message)
		})
	}
}

func TestPaymentFlow_UnknownCourse(t *testing.T) {
	e := setup(t)

	status, env := e.do(t, http.MethodPost, "/payment/createorder", fiber.Map{"courseIds": []uint{999}})

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestPaymentRoutes_RequireStudent(t *testing.T) {
	e := setup(t)
	token, err := middleware.GenerateJWT(2, models.RoleInstructor, "ravi@example.com")
	require.NoError(t, err)
	e.token = token

	status, _ := e.do(t, http.MethodPost, "/payment/createorder", fiber.Map{"courseIds": []uint{1}})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func (e *testEnv) createOrder(t *testing.T, ids []uint) checkout.Order {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/payment/createorder", fiber.Map{"courseIds": ids})
	require.Equal(t, http.StatusOK, status, env.Message)

	var order checkout.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	return order
}

func TestPaymentFlow_VerifyRejectsBasketOutsideOrder(t *testing.T) {
	e := setup(t)
	order := e.createOrder(t, []uint{e.courses[0].ID})

	status, env := e.do(t, http.MethodPost, "/payment/verify", fiber.Map{
		"orderId":   order.ID,
		"paymentId": "pay_swap",
		"signature": checkout.Sign(gatewaySecret, order.ID, "pay_swap"),
		"courseIds": []uint{e.courses[1].ID},
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_SIGNATURE", env.Code)

	status, env = e.do(t, http.MethodGet, "/payment/history", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(env.Data), "pay_swap")
}

func TestPaymentSuccessEmail(t *testing.T) {
	e := setup(t)
	ids := []uint{e.courses[0].ID}
	order := e.createOrder(t, ids)

	status, _ := e.do(t, http.MethodPost, "/payment/success-email", fiber.Map{"orderId": order.ID, "paymentId": "pay_m", "amount": 10000})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = e.do(t, http.MethodPost, "/payment/verify", fiber.Map{
		"orderId": order.ID, "paymentId": "pay_m",
		"signature": checkout.Sign(gatewaySecret, order.ID, "pay_m"),
		"courseIds": ids,
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = e.do(t, http.MethodPost, "/payment/success-email", fiber.Map{"orderId": order.ID, "paymentId": "pay_m", "amount": 10000})
	assert.Equal(t, http.StatusOK, status)

	e.notes.Wait()
	var subjects []string
	for _, m := range e.console.Sent() {
		subjects = append(subjects, m.Subject)
	}
	assert.Contains(t, subjects, "Payment Received")
}
