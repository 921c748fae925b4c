package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SolverDidNotConverge()
		m.Consolidation("consolidated")
		m.DuplicateGroups(3)
		m.PendingPaymentsGenerated(2)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEngineMetricsAreRecorded(t *testing.T) {
	m := NewMetrics()
	m.SolverDidNotConverge()
	m.SolverDidNotConverge()
	m.DuplicateGroups(4)
	m.Consolidation("unchanged")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.solverNonConverge))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.duplicateGroups))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.consolidations.WithLabelValues("unchanged")))
}

func TestGinMiddlewareExposesRouteMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/statements/:month", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/statements/2025-03", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `lawfirm_http_requests_total{code="200",route="/statements/:month"} 1`), body)
}
