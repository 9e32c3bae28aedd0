package marketplace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var listingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "junkbutler_listing_transitions_total",
	Help: "Consignment listing status changes by target status.",
}, []string{"status"})
