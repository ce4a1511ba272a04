package metrics

import "github.com/prometheus/client_golang/prometheus"

// MarketplaceMetrics counts domain events on listings.
type MarketplaceMetrics struct {
	itemViews       prometheus.Counter
	wishlistToggles *prometheus.CounterVec
	imagesStored    *prometheus.CounterVec
}

// NewMarketplaceMetrics registers the listing counters on the provided registerer.
func NewMarketplaceMetrics(reg prometheus.Registerer) *MarketplaceMetrics {
	if reg == nil {
		return &MarketplaceMetrics{}
	}
	views := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "item_views_total",
		Help: "Item detail reads that incremented the view counter.",
	})
	toggles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wishlist_toggles_total",
		Help: "Wishlist toggles by resulting state.",
	}, []string{"action"})
	images := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uploaded_images_total",
		Help: "Uploaded images by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(views, toggles, images)
	return &MarketplaceMetrics{itemViews: views, wishlistToggles: toggles, imagesStored: images}
}

func (m *MarketplaceMetrics) IncItemView() {
	if m == nil || m.itemViews == nil {
		return
	}
	m.itemViews.Inc()
}

// IncWishlistToggle records whether the toggle added or removed the item.
func (m *MarketplaceMetrics) IncWishlistToggle(added bool) {
	if m == nil || m.wishlistToggles == nil {
		return
	}
	action := "removed"
	if added {
		action = "added"
	}
	m.wishlistToggles.WithLabelValues(action).Inc()
}

// IncImages records n uploaded images with the given outcome (stored, rejected, discarded).
func (m *MarketplaceMetrics) IncImages(outcome string, n int) {
	if m == nil || m.imagesStored == nil || n <= 0 {
		return
	}
	m.imagesStored.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}
