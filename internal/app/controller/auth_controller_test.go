package controller

import (
	"net/http"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_RegisterLoginProfile(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", user["email"])
	assert.Equal(t, "customer", user["role"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotEmpty(t, body["tokens"].(map[string]interface{})["access_token"])

	w = env.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.AuthEmailAlreadyExists, decodeError(t, w).Error)

	w = env.do(t, http.MethodPost, "/api/users/register", "", map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "jane@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthInvalidCredentials, decodeError(t, w).Error)

	w = env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "jane@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	tokens := decode(t, w)["tokens"].(map[string]interface{})
	access := tokens["access_token"].(string)
	refresh := tokens["refresh_token"].(string)

	w = env.do(t, http.MethodGet, "/api/users/profile", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane", decode(t, w)["user"].(map[string]interface{})["name"])

	w = env.do(t, http.MethodGet, "/api/users/profile", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/users/refresh-token", "", map[string]string{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/users/refresh-token", "", map[string]string{"refreshToken": access})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/users/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthController_AdminUsers(t *testing.T) {
	env := setupControllerTest(t)
	_, adminToken := env.createUser(t, "admin@example.com", model.RoleAdmin)
	_, customerToken := env.createUser(t, "c@example.com", model.RoleCustomer)

	w := env.do(t, http.MethodGet, "/api/admin/users", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/users", adminToken, map[string]string{
		"name": "Staff", "email": "staff@example.com", "password": "secret123", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "admin", created["role"])
	id := uint(created["id"].(float64))

	w = env.do(t, http.MethodPut, idPath("/api/admin/users/%d", id), adminToken, map[string]string{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, idPath("/api/admin/users/%d", id), adminToken, map[string]string{"role": "customer"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "customer", decode(t, w)["user"].(map[string]interface{})["role"])

	w = env.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode(t, w)["count"])

	w = env.do(t, http.MethodDelete, idPath("/api/admin/users/%d", id), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, idPath("/api/admin/users/%d", id), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
