package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/middleware"
	"github.com/pdihub/pdihub/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testAdmin = &models.Actor{ID: "u9", Email: "root@example.com", Role: models.RoleAdmin}
	testTech  = &models.Actor{ID: "u1", Email: "dana@example.com", Role: models.RoleTechnician}
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// newTestRouter creates a gin engine that injects the given actor the way the
// auth middleware would.
func newTestRouter(actor *models.Actor) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ActorKey, actor)
		}
		c.Next()
	})

	return r
}

// doRequest performs an HTTP request against the test router and returns the recorder.
func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
