package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMiddlewareLogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(Middleware(logger))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom?x=1", nil))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "ERROR" {
		t.Errorf("expected ERROR level for 5xx, got %v", entry["level"])
	}
	if entry["path"] != "/boom" || entry["query"] != "x=1" {
		t.Errorf("unexpected path/query: %v %v", entry["path"], entry["query"])
	}
	if entry["status"].(float64) != 500 {
		t.Errorf("unexpected status %v", entry["status"])
	}
	if _, ok := entry["user_id"]; ok {
		t.Errorf("anonymous request must not log a user id")
	}
}
