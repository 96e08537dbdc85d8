package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/v1/theses", "200"))
	ObserveRequest("GET", "/v1/theses", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/v1/theses", "200")))
}

func TestObservePublish(t *testing.T) {
	ObservePublish("comment.created", nil)
	ObservePublish("comment.created", errors.New("broker down"))
	assert.GreaterOrEqual(t, testutil.ToFloat64(EventsPublished.WithLabelValues("comment.created", "error")), 1.0)
}

func TestHandlerServesCollectors(t *testing.T) {
	AuthFailures.Inc()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "skripsi_auth_failures_total")
}
