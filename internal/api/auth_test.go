package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginFlow(t *testing.T) {
	env := SetupTestEnv(t, nil, nil)

	w := PerformRequest(env.Router, "POST", "/api/v1/auth/register", "", gin.H{
		"name":     "Marie",
		"email":    "marie@example.com",
		"password": "motdepasse123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The token works against a protected route.
	w = PerformRequest(env.Router, "GET", "/api/v1/planning?date=2026-09-14", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = PerformRequest(env.Router, "POST", "/api/v1/auth/login", "", gin.H{
		"email":    "marie@example.com",
		"password": "motdepasse123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = PerformRequest(env.Router, "POST", "/api/v1/auth/login", "", gin.H{
		"email":    "marie@example.com",
		"password": "mauvais-mot-de-passe",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := SetupTestEnv(t, nil, nil)

	w := PerformRequest(env.Router, "POST", "/api/v1/auth/register", "", gin.H{
		"name":     "Marie",
		"email":    "pas-un-email",
		"password": "motdepasse123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = PerformRequest(env.Router, "POST", "/api/v1/auth/register", "", gin.H{
		"name":     "Marie",
		"email":    "marie@example.com",
		"password": "court",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	env := SetupTestEnv(t, nil, nil)

	payload := gin.H{
		"name":     "Marie",
		"email":    "marie@example.com",
		"password": "motdepasse123",
	}
	w := PerformRequest(env.Router, "POST", "/api/v1/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = PerformRequest(env.Router, "POST", "/api/v1/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}
