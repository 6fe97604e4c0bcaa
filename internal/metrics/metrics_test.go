package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestScoringOutcomeCounts(t *testing.T) {
	before := testutil.ToFloat64(scoringRequests.WithLabelValues("fallback"))
	ScoringOutcome("fallback")
	ScoringOutcome("fallback")
	assert.Equal(t, before+2, testutil.ToFloat64(scoringRequests.WithLabelValues("fallback")))
}

func TestHandlerExposesHTTPMetrics(t *testing.T) {
	RequestStarted()
	RequestFinished("GET", "/api/leaderboard", 200, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(body, `ranker_http_requests_total{method="GET",path="/api/leaderboard",status="200"}`))
}
