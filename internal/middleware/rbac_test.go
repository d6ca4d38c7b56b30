package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sekolahku/penilaian-api/internal/models"
)

func rbacRouter(claims *models.JWTClaims, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/resource/:id", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}, RequireRoles(roles...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func performRequest(r *gin.Engine, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	r := rbacRouter(&models.JWTClaims{UserID: "u-1", Role: models.RoleOperator}, models.RoleOperator)
	assert.Equal(t, http.StatusOK, performRequest(r, "/resource/x").Code)
}

func TestRequireRolesBlocksOtherRole(t *testing.T) {
	r := rbacRouter(&models.JWTClaims{UserID: "u-1", Role: models.RoleWaliKelas}, models.RoleOperator)
	assert.Equal(t, http.StatusForbidden, performRequest(r, "/resource/x").Code)
}

func TestRequireRolesMissingClaims(t *testing.T) {
	r := rbacRouter(nil, models.RoleOperator)
	assert.Equal(t, http.StatusUnauthorized, performRequest(r, "/resource/x").Code)
}

func TestRequireRolesSelfMarker(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u-1", Role: models.RoleWaliKelas}

	r := rbacRouter(claims, models.RoleOperator, "SELF")
	assert.Equal(t, http.StatusOK, performRequest(r, "/resource/u-1").Code)
	assert.Equal(t, http.StatusForbidden, performRequest(r, "/resource/u-2").Code)
}
