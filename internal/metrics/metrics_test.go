package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCSVImport(t *testing.T) {
	before := testutil.ToFloat64(csvImportRows.WithLabelValues("imported"))
	ObserveCSVImport(3, 1)
	assert.Equal(t, before+3, testutil.ToFloat64(csvImportRows.WithLabelValues("imported")))
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/health", "200"))
	ObserveHTTPRequest("GET", "/api/health", 200, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/health", "200")))
}

func TestIncRateLimited(t *testing.T) {
	before := testutil.ToFloat64(rateLimited.WithLabelValues("ai"))
	IncRateLimited("ai")
	assert.Equal(t, before+1, testutil.ToFloat64(rateLimited.WithLabelValues("ai")))
}
