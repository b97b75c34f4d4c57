package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Psyfo/genealogy-app/backend/internal/graph"
)

// newTestRouter wires the routes against a repository with no live driver.
// Every request exercised here is rejected by validation before the driver
// would be touched.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	registerRoutes(router, graph.NewRepository(nil), zap.NewNop())
	return router
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreatePerson_InvalidBody(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/people", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestCreatePerson_ValidationFailure(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/people", strings.NewReader(`{"occupation":"Clockmaker"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "First name is required")
	assert.Contains(t, w.Body.String(), "Last name is required")
}

func TestUpdatePerson_MalformedID(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/people/not-a-uuid", strings.NewReader(`{"occupation":"Clockmaker"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid person ID")
}

func TestRelationships_MissingPersonID(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/relationships", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "personId parameter is required")
}

func TestRelationships_MissingFields(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/relationships", strings.NewReader(`{"action":"add"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelationships_InvalidAction(t *testing.T) {
	router := newTestRouter()

	body := `{"action":"link","childId":"9b2d7a32-8c4f-4f9e-a1b3-2f9d8c4e5a6b","parentId":"2f1e4d6c-3a5b-4c7d-9e8f-0a1b2c3d4e5f"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/relationships", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid action")
}

func TestRelationships_SelfParentRejected(t *testing.T) {
	router := newTestRouter()

	id := "9b2d7a32-8c4f-4f9e-a1b3-2f9d8c4e5a6b"
	body := `{"action":"add","childId":"` + id + `","parentId":"` + id + `","relationshipType":"father"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/relationships", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "own parent")
}

func TestRelationshipEdge_InvalidType(t *testing.T) {
	router := newTestRouter()

	body := `{"fromId":"9b2d7a32-8c4f-4f9e-a1b3-2f9d8c4e5a6b","toId":"2f1e4d6c-3a5b-4c7d-9e8f-0a1b2c3d4e5f","type":"KNOWS"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/relationships/edge", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDepthParam(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 0},
		{"depth=3", 3},
		{"depth=0", 0},
		{"depth=-2", 0},
		{"depth=abc", 0},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request, _ = http.NewRequest("GET", "/api/people/x/ancestors?"+tt.query, nil)
		assert.Equal(t, tt.want, depthParam(c), "query %q", tt.query)
	}
}
