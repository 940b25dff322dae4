package endpoint_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbukum/asrgateway/component"
	"github.com/kbukum/asrgateway/server/endpoint"
)

func serve(t *testing.T, path string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET(path, h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON %q: %v", rr.Body.String(), err)
	}
	return body
}

func checker(healths ...component.Health) endpoint.HealthChecker {
	return func(context.Context) []component.Health { return healths }
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checker    endpoint.HealthChecker
		wantCode   int
		wantStatus string
	}{
		{"no checker", nil, http.StatusOK, "healthy"},
		{"all healthy", checker(component.Health{Name: "ai-runtime", Status: component.StatusHealthy}), http.StatusOK, "healthy"},
		{"degraded", checker(
			component.Health{Name: "a", Status: component.StatusHealthy},
			component.Health{Name: "b", Status: component.StatusDegraded},
		), http.StatusOK, "degraded"},
		{"unhealthy", checker(
			component.Health{Name: "a", Status: component.StatusDegraded},
			component.Health{Name: "ai-runtime", Status: component.StatusUnhealthy, Message: "connection refused"},
		), http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, "/health", endpoint.Health("asr-gateway", tt.checker))
			if rr.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rr.Code, tt.wantCode)
			}
			body := decode(t, rr)
			if body["status"] != tt.wantStatus || body["service"] != "asr-gateway" {
				t.Errorf("body = %v", body)
			}
			if _, ok := body["components"].([]any); !ok {
				t.Errorf("components should be a list, got %v", body["components"])
			}
		})
	}
}

func TestReadiness(t *testing.T) {
	rr := serve(t, "/ready", endpoint.Readiness("svc", checker(component.Health{Name: "ai-runtime", Status: component.StatusHealthy})))
	if rr.Code != http.StatusOK || decode(t, rr)["status"] != "ready" {
		t.Fatalf("healthy: %d %s", rr.Code, rr.Body.String())
	}

	rr = serve(t, "/ready", endpoint.Readiness("svc", checker(
		component.Health{Name: "http-server", Status: component.StatusHealthy},
		component.Health{Name: "ai-runtime", Status: component.StatusUnhealthy},
	)))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d", rr.Code)
	}
	body := decode(t, rr)
	if body["status"] != "not_ready" {
		t.Errorf("status = %v", body["status"])
	}
	failing, _ := body["failing"].([]any)
	if len(failing) != 1 || failing[0] != "ai-runtime" {
		t.Errorf("failing = %v", body["failing"])
	}
}

func TestLiveness(t *testing.T) {
	rr := serve(t, "/alive", endpoint.Liveness("svc"))
	if rr.Code != http.StatusOK || decode(t, rr)["status"] != "alive" {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
}

func TestInfoAndVersion(t *testing.T) {
	body := decode(t, serve(t, "/info", endpoint.Info("svc")))
	for _, key := range []string{"service", "version", "go_version", "uptime", "is_release"} {
		if _, ok := body[key]; !ok {
			t.Errorf("info missing %q: %v", key, body)
		}
	}

	body = decode(t, serve(t, "/version", endpoint.Version()))
	if v, _ := body["version"].(string); v == "" {
		t.Errorf("version missing: %v", body)
	}
	if v, _ := body["go_version"].(string); !strings.HasPrefix(v, "go") {
		t.Errorf("go_version = %v", body["go_version"])
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "endpoint_test_total", Help: "test counter"})
	reg.MustRegister(c)
	c.Add(3)

	rr := serve(t, "/metrics", endpoint.Metrics(reg))
	if rr.Code != http.StatusOK {
		t.Fatalf("code = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "endpoint_test_total 3") {
		t.Errorf("exposition missing counter:\n%s", rr.Body.String())
	}
}
