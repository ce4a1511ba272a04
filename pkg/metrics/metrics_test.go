package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/api/items/{id}", http.StatusOK, 15*time.Millisecond)
	m.Observe(http.MethodGet, "/api/items/{id}", http.StatusOK, 5*time.Millisecond)
	m.Observe(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/items/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestMarketplaceMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMarketplaceMetrics(reg)

	m.IncItemView()
	m.IncWishlistToggle(true)
	m.IncWishlistToggle(true)
	m.IncWishlistToggle(false)
	m.IncImages("stored", 3)
	m.IncImages("stored", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.itemViews))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.wishlistToggles.WithLabelValues("added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wishlistToggles.WithLabelValues("removed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.imagesStored.WithLabelValues("stored")))
}

func TestMetricsAreNilSafe(t *testing.T) {
	var httpMetrics *HTTPMetrics
	httpMetrics.Observe("GET", "/", 200, time.Second)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)

	var market *MarketplaceMetrics
	market.IncItemView()
	market.IncWishlistToggle(true)
	NewMarketplaceMetrics(nil).IncImages("stored", 1)
}
