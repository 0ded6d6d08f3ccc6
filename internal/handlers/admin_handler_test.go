package handlers_test

import (
	"net/http"
	"testing"

	"freework_backend/internal/auth"
	"freework_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adminToken создает админский аккаунт напрямую в хранилище и выдает его токен
func adminToken(t *testing.T, ts *testServer) string {
	t.Helper()

	admin := &models.Account{
		Email:            "admin@test.com",
		PasswordHash:     "irrelevant",
		Role:             models.RoleAdmin,
		EmailVerified:    true,
		ProfileCompleted: true,
		AdminVerified:    true,
	}
	require.NoError(t, ts.repo.Create(nil, admin))

	token, err := auth.GenerateToken(testSecret, admin.ID, string(models.RoleAdmin), 60)
	require.NoError(t, err)
	return token
}

// TestAdminVerifyEndpoint - админ проставляет флаг ручной проверки
func TestAdminVerifyEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	ts.signupAndVerify(t, "freelancer", "model@test.com")

	account, err := ts.repo.FindByEmail(nil, "model@test.com")
	require.NoError(t, err)
	require.False(t, account.AdminVerified)

	token := adminToken(t, ts)
	rec, body := ts.send(t, "PUT", "/api/admin/accounts/"+account.ID+"/verify", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Contains(t, body, `"admin_verified":true`)

	updated, err := ts.repo.FindByID(nil, account.ID)
	require.NoError(t, err)
	assert.True(t, updated.AdminVerified)
}

// TestAdminVerifyEndpoint_Forbidden - обычный аккаунт в админскую зону не попадает
func TestAdminVerifyEndpoint_Forbidden(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	userToken := ts.signupAndVerify(t, "freelancer", "model@test.com")

	account, err := ts.repo.FindByEmail(nil, "model@test.com")
	require.NoError(t, err)

	rec, _ := ts.send(t, "PUT", "/api/admin/accounts/"+account.ID+"/verify", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Без токена - 401
	rec, _ = ts.send(t, "PUT", "/api/admin/accounts/"+account.ID+"/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestAdminVerifyEndpoint_UnknownAccount - несуществующий id дает 404
func TestAdminVerifyEndpoint_UnknownAccount(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	token := adminToken(t, ts)

	rec, _ := ts.send(t, "PUT", "/api/admin/accounts/no-such-id/verify", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestAdminVerifyEndpoint_AdminTarget - админов через этот гейт не прогоняют
func TestAdminVerifyEndpoint_AdminTarget(t *testing.T) {
	t.Parallel()

	ts := newTestServer()
	token := adminToken(t, ts)

	admin, err := ts.repo.FindByEmail(nil, "admin@test.com")
	require.NoError(t, err)

	rec, _ := ts.send(t, "PUT", "/api/admin/accounts/"+admin.ID+"/verify", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
