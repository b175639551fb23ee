package archive

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("companyId", "acme")
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(f.engine).RegisterRoutes(api)
	return router
}

func TestHandlerArchiveJob(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "job-1", "acme")
	router := newTestRouter(f)

	body := strings.NewReader(`{"reason":"position_cancelled","notes":"budget"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/archive", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var res Result
	if err := json.Unmarshal(resp.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success result, got %+v", res)
	}
}

func TestHandlerArchiveJobRequiresReason(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "job-1", "acme")
	router := newTestRouter(f)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/archive", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerErrorMapping(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "job-1", "acme")
	f.seedJob(t, "job-other", "globex")
	f.seedCandidate(t, "cand-1", "acme")
	router := newTestRouter(f)

	archiveBody := `{"reason":"other"}`

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"job not found", http.MethodPost, "/api/v1/jobs/missing/archive", archiveBody, http.StatusNotFound, "not_found"},
		{"cross company", http.MethodPost, "/api/v1/jobs/job-other/archive", archiveBody, http.StatusForbidden, "access_denied"},
		{"restore active candidate", http.MethodPost, "/api/v1/candidates/cand-1/restore", "", http.StatusConflict, "invalid_state"},
		{"bad reason", http.MethodPost, "/api/v1/candidates/cand-1/archive", `{"reason":"nope"}`, http.StatusBadRequest, "validation_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, body.Error.Code)
			}
		})
	}
}

func TestHandlerCloseJobAndPermanentDelete(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "job-1", "acme")
	f.seedCandidate(t, "cand-1", "acme")
	f.seedAssociation(t, "assoc-1", "acme", "cand-1", "job-1")
	router := newTestRouter(f)

	body := strings.NewReader(`{"hiredCandidateId":"cand-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/close", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("close: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/jobs/job-1/permanent", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var res Result
	if err := json.Unmarshal(resp.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.RemovedAssociations != 1 {
		t.Fatalf("expected the kept placement link removed on delete, got %d", res.RemovedAssociations)
	}
}
