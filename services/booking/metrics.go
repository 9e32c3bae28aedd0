package booking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "junkbutler_bookings_total",
	Help: "Booking submissions by backend and outcome.",
}, []string{"provider", "outcome"})
