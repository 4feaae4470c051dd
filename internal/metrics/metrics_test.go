package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler := Middleware(mux)
	counter := httpRequestsTotal.WithLabelValues("404", http.MethodGet, "GET /api/products/{id}")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b", "c"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	}

	assert.InDelta(t, before+3, testutil.ToFloat64(counter), 0.0001)
}

func TestMiddlewareUnmatchedRoute(t *testing.T) {
	handler := Middleware(http.NewServeMux())
	counter := httpRequestsTotal.WithLabelValues("404", http.MethodGet, unmatchedRoute)
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.0001)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(ordersCreatedTotal)
	OrderCreated()
	assert.InDelta(t, before+1, testutil.ToFloat64(ordersCreatedTotal), 0.0001)

	denials := authzDenialsTotal.WithLabelValues("product:update", "not-owner")
	before = testutil.ToFloat64(denials)
	AuthzDenied("product:update", "not-owner")
	assert.InDelta(t, before+1, testutil.ToFloat64(denials), 0.0001)
}
