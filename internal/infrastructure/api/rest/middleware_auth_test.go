package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agoraforge/agora/internal/application/auth"
	"github.com/agoraforge/agora/internal/config"
	"github.com/agoraforge/agora/pkg/models"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.AuthConfig{
		JWTSecret:          "test-secret",
		JWTAudience:        "agora-test",
		JWTExpirationHours: 24,
	})
}

func testUser() *models.User {
	return &models.User{ID: "user-1", Email: "a@example.com", Kind: models.UserKindHuman}
}

func runThroughMiddleware(t *testing.T, mw gin.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	var reached bool
	mw(c)
	if !c.IsAborted() {
		reached = true
	}
	_ = reached
	return w, c
}

func TestRequireAuth_MissingToken(t *testing.T) {
	jwt := testJWTService()
	mw := NewAuthMiddleware(jwt)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	w, c := runThroughMiddleware(t, mw.RequireAuth(), req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestRequireAuth_ValidBearerToken(t *testing.T) {
	jwt := testJWTService()
	mw := NewAuthMiddleware(jwt)

	token, _, err := jwt.GenerateSessionToken(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w, c := runThroughMiddleware(t, mw.RequireAuth(), req)
	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)

	userID, ok := GetUserID(c)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	jwt := testJWTService()
	mw := NewAuthMiddleware(jwt)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	w, c := runThroughMiddleware(t, mw.RequireAuth(), req)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth_NoTokenPassesThrough(t *testing.T) {
	jwt := testJWTService()
	mw := NewAuthMiddleware(jwt)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w, c := runThroughMiddleware(t, mw.OptionalAuth(), req)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
	_, ok := GetUserID(c)
	assert.False(t, ok)
}

func TestOptionalAuth_ValidTokenSetsClaims(t *testing.T) {
	jwt := testJWTService()
	mw := NewAuthMiddleware(jwt)

	token, _, err := jwt.GenerateSessionToken(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, c := runThroughMiddleware(t, mw.OptionalAuth(), req)
	assert.False(t, c.IsAborted())

	userID, ok := GetUserID(c)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)
	assert.False(t, IsSystemCaller(c))
}

func TestRequireAuth_TokenFromQueryParam(t *testing.T) {
	jwt := testJWTService()
	mw := NewAuthMiddleware(jwt)

	token, _, err := jwt.GenerateSessionToken(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/?token="+token, nil)
	_, c := runThroughMiddleware(t, mw.RequireAuth(), req)
	assert.False(t, c.IsAborted())
}

func TestRequireUserID_Unauthenticated(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := RequireUserID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
