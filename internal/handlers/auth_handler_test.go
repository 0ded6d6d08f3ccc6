package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"freework_backend/internal/auth"
	"freework_backend/internal/config"
	"freework_backend/internal/email"
	"freework_backend/internal/handlers"
	"freework_backend/internal/middleware"
	"freework_backend/internal/models"
	"freework_backend/internal/repositories"
	"freework_backend/internal/routes"
	"freework_backend/internal/services"
	"freework_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	// Как и в боевом роутере: неизвестные поля в JSON отклоняются
	gin.EnableJsonDecoderDisallowUnknownFields()
	m.Run()
}

// fakeEmailProvider перехватывает коды подтверждения вместо реальной отправки
type fakeEmailProvider struct {
	lastCode string
	failNext bool
}

func (p *fakeEmailProvider) Send(_ *email.Email) error { return nil }

func (p *fakeEmailProvider) SendVerificationCode(_ string, code string) error {
	if p.failNext {
		p.failNext = false
		return errors.New("smtp: connection refused")
	}
	p.lastCode = code
	return nil
}

func (p *fakeEmailProvider) Validate() error { return nil }
func (p *fakeEmailProvider) Close() error    { return nil }

// testServer - полный HTTP стек на in-memory хранилище.
// DBMiddleware получает nil: репозиторий аргумент db игнорирует.
type testServer struct {
	router *gin.Engine
	repo   *repositories.InMemAccountRepository
	mail   *fakeEmailProvider
}

func newTestServer() *testServer {
	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.JWT.TTL = 60
	cfg.Signup.OTPTTL = 60
	cfg.Signup.TokenBalance = 100

	repo := repositories.NewInMemAccountRepository()
	mail := &fakeEmailProvider{}

	registrationService := services.NewRegistrationService(repo, mail, cfg)
	accountService := services.NewAccountService(repo)

	base := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		AuthHandler:  handlers.NewAuthHandler(base, registrationService, accountService, cfg.JWT.Secret),
		AdminHandler: handlers.NewAdminHandler(base, accountService, cfg.JWT.Secret),
	}

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.DBMiddleware(nil))
	routes.RegisterRoutes(router, appHandlers)

	return &testServer{router: router, repo: repo, mail: mail}
}

func (ts *testServer) send(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec, rec.Body.String()
}

func (ts *testServer) signup(t *testing.T, rolePath, emailAddr string) {
	t.Helper()
	rec, _ := ts.send(t, "POST", "/api/"+rolePath+"/signup", "", gin.H{
		"email":    emailAddr,
		"password": "super_password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

// signupAndVerify проводит аккаунт до состояния Verified и возвращает токен
func (ts *testServer) signupAndVerify(t *testing.T, rolePath, emailAddr string) string {
	t.Helper()
	ts.signup(t, rolePath, emailAddr)

	rec, body := ts.send(t, "POST", "/api/"+rolePath+"/verify-email", "", gin.H{
		"email": emailAddr,
		"otp":   ts.mail.lastCode,
	})
	require.Equal(t, http.StatusOK, rec.Code, body)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// --- Signup ---

// TestSignupEndpoint - 201, в ответе нет кода подтверждения
func TestSignupEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	rec, body := ts.send(t, "POST", "/api/freelancer/signup", "", gin.H{
		"email":    "model@test.com",
		"password": "super_password123",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, body, "verification code has been sent")

	// Код ушел только в письмо
	require.NotEmpty(t, ts.mail.lastCode)
	assert.NotContains(t, body, ts.mail.lastCode)
}

// TestSignupEndpoint_BothRoles - маршруты симметричны для обеих ролей
func TestSignupEndpoint_BothRoles(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	for _, rolePath := range []string{"freelancer", "business"} {
		rec, _ := ts.send(t, "POST", "/api/"+rolePath+"/signup", "", gin.H{
			"email":    rolePath + "@test.com",
			"password": "super_password123",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)

		account, err := ts.repo.FindByEmail(nil, rolePath+"@test.com")
		require.NoError(t, err)
		assert.Equal(t, models.AccountRole(rolePath), account.Role)
	}
}

// TestSignupEndpoint_InvalidBody - невалидный email и короткий пароль дают 400
func TestSignupEndpoint_InvalidBody(t *testing.T) {
	t.Parallel()

	ts := newTestServer()

	rec, _ := ts.send(t, "POST", "/api/freelancer/signup", "", gin.H{
		"email":    "not-an-email",
		"password": "super_password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.send(t, "POST", "/api/freelancer/signup", "", gin.H{
		"email":    "model@test.com",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestSignupEndpoint_DuplicateVerified - повторная регистрация на
// подтвержденный email дает 409
func TestSignupEndpoint_DuplicateVerified(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	ts.signupAndVerify(t, "freelancer", "model@test.com")

	rec, body := ts.send(t, "POST", "/api/freelancer/signup", "", gin.H{
		"email":    "model@test.com",
		"password": "another_password",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, body, "Email already exists")
}

// TestSignupEndpoint_DeliveryFailure - провал доставки письма дает 502
func TestSignupEndpoint_DeliveryFailure(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	ts.mail.failNext = true

	rec, body := ts.send(t, "POST", "/api/freelancer/signup", "", gin.H{
		"email":    "model@test.com",
		"password": "super_password123",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, body, "Failed to deliver verification code")
}

// --- VerifyEmail ---

// TestVerifyEmailEndpoint - корректный код дает 200 с токеном
func TestVerifyEmailEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	ts.signup(t, "freelancer", "model@test.com")

	rec, body := ts.send(t, "POST", "/api/freelancer/verify-email", "", gin.H{
		"email": "model@test.com",
		"otp":   ts.mail.lastCode,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token            string `json:"token"`
		ProfileCompleted bool   `json:"profile_completed"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.False(t, resp.ProfileCompleted)

	claims, err := auth.ParseToken(testSecret, resp.Token)
	require.NoError(t, err)
	account, err := ts.repo.FindByEmail(nil, "model@test.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
}

// TestVerifyEmailEndpoint_WrongCode - неверный код дает 401
func TestVerifyEmailEndpoint_WrongCode(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	ts.signup(t, "freelancer", "model@test.com")

	wrong := "000000"
	if wrong == ts.mail.lastCode {
		wrong = "000001"
	}

	rec, body := ts.send(t, "POST", "/api/freelancer/verify-email", "", gin.H{
		"email": "model@test.com",
		"otp":   wrong,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body, "Invalid credentials")
}

// TestVerifyEmailEndpoint_UnknownEmail - несуществующий email дает 404
func TestVerifyEmailEndpoint_UnknownEmail(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	rec, _ := ts.send(t, "POST", "/api/freelancer/verify-email", "", gin.H{
		"email": "ghost@test.com",
		"otp":   "123456",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestVerifyEmailEndpoint_MalformedCode - код не из 6 цифр отклоняется
// валидацией, до сервиса запрос не доходит
func TestVerifyEmailEndpoint_MalformedCode(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	ts.signup(t, "freelancer", "model@test.com")

	for _, otp := range []string{"12345", "1234567", "12345a", ""} {
		rec, _ := ts.send(t, "POST", "/api/freelancer/verify-email", "", gin.H{
			"email": "model@test.com",
			"otp":   otp,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "otp=%q", otp)
	}
}

// --- Login ---

// TestLoginEndpoint - вход после подтверждения дает 200 с токеном
func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	ts.signupAndVerify(t, "business", "agency@test.com")

	rec, body := ts.send(t, "POST", "/api/business/login", "", gin.H{
		"email":    "agency@test.com",
		"password": "super_password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	claims, err := auth.ParseToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleBusiness), claims.Role)
}

// TestLoginEndpoint_BadPassword - неверный пароль дает 401
func TestLoginEndpoint_BadPassword(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	ts.signupAndVerify(t, "freelancer", "model@test.com")

	rec, body := ts.send(t, "POST", "/api/freelancer/login", "", gin.H{
		"email":    "model@test.com",
		"password": "wrong_password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body, "Invalid credentials")
}

// TestLoginEndpoint_Unverified - вход до подтверждения email дает 403
func TestLoginEndpoint_Unverified(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	ts.signup(t, "freelancer", "model@test.com")

	rec, body := ts.send(t, "POST", "/api/freelancer/login", "", gin.H{
		"email":    "model@test.com",
		"password": "super_password123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, body, "not verified")
}

// --- CompleteProfile / Me ---

// TestCompleteProfileEndpoint - заполнение профиля под токеном дает 200,
// /me отражает новое состояние
func TestCompleteProfileEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	token := ts.signupAndVerify(t, "freelancer", "model@test.com")

	rec, body := ts.send(t, "PUT", "/api/freelancer/complete-profile", token, gin.H{
		"name":    "Test Model",
		"country": "Kazakhstan",
		"phone":   "+77001234567",
	})
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Contains(t, body, "Profile completed")

	rec, body = ts.send(t, "GET", "/api/freelancer/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "model@test.com")
	assert.Contains(t, body, `"profile_completed":true`)
	assert.Contains(t, body, "Test Model")
}

// TestCompleteProfileEndpoint_RequiresToken - без токена 401
func TestCompleteProfileEndpoint_RequiresToken(t *testing.T) {
	t.Parallel()

	ts := newTestServer()

	rec, _ := ts.send(t, "PUT", "/api/freelancer/complete-profile", "", gin.H{
		"name":    "Test Model",
		"country": "Kazakhstan",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = ts.send(t, "PUT", "/api/freelancer/complete-profile", "garbage-token", gin.H{
		"name": "Test Model",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestCompleteProfileEndpoint_UnknownField - поля вне allow-list отклоняются
func TestCompleteProfileEndpoint_UnknownField(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	token := ts.signupAndVerify(t, "freelancer", "model@test.com")

	rec, _ := ts.send(t, "PUT", "/api/freelancer/complete-profile", token, gin.H{
		"name":           "Test Model",
		"country":        "Kazakhstan",
		"email_verified": false,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Аккаунт не пострадал
	account, err := ts.repo.FindByEmail(nil, "model@test.com")
	require.NoError(t, err)
	assert.True(t, account.EmailVerified)
	assert.False(t, account.ProfileCompleted)
}

// TestMeEndpoint_NeverLeaksSecrets - в ответе нет ни хеша пароля, ни кода
func TestMeEndpoint_NeverLeaksSecrets(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	token := ts.signupAndVerify(t, "freelancer", "model@test.com")

	rec, body := ts.send(t, "GET", "/api/freelancer/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "otp")
	assert.NotContains(t, body, "$2a$") // префикс bcrypt-хеша
}
