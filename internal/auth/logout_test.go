package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

func logoutContext(t *testing.T, token string, withClaims bool) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(http.MethodPost, "/logout", nil)
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	c.Request = req
	if withClaims {
		c.Set("claims", &jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
	}
	return rec, c
}

func TestLogoutBlacklistsToken(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	controller := NewLogoutController(store)

	rec, c := logoutContext(t, "some-access-token", true)
	controller.LogoutHandler(c)

	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	blacklisted, err := store.IsBlacklisted("some-access-token")
	assert.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestLogoutWithoutClaims(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	controller := NewLogoutController(store)

	rec, c := logoutContext(t, "some-access-token", false)
	controller.LogoutHandler(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	blacklisted, _ := store.IsBlacklisted("some-access-token")
	assert.False(t, blacklisted)
}

func TestLogoutWithoutBearerToken(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	controller := NewLogoutController(store)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(http.MethodPost, "/logout", nil)
	assert.NoError(t, err)
	c.Request = req

	controller.LogoutHandler(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
