package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// BookingMetrics counts front-desk operations and settled revenue.
type BookingMetrics struct {
	bookings    *prometheus.CounterVec
	failures    *prometheus.CounterVec
	lineItems   *prometheus.CounterVec
	settlements prometheus.Counter
	revenue     prometheus.Counter
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	bookings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "karaoke_bookings_total",
		Help: "Bookings created, by room transition.",
	}, []string{"status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "karaoke_operation_failures_total",
		Help: "Rejected engine operations, by operation and error code.",
	}, []string{"operation", "code"})
	lineItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "karaoke_line_item_changes_total",
		Help: "Service line item changes, by action.",
	}, []string{"action"})
	settlements := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "karaoke_settlements_total",
		Help: "Bills settled.",
	})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "karaoke_settled_revenue_total",
		Help: "Sum of settled bill totals.",
	})
	reg.MustRegister(bookings, failures, lineItems, settlements, revenue)
	return &BookingMetrics{
		bookings:    bookings,
		failures:    failures,
		lineItems:   lineItems,
		settlements: settlements,
		revenue:     revenue,
	}
}

// IncBooking records a booking that moved its room to status.
func (m *BookingMetrics) IncBooking(status string) {
	if m == nil || m.bookings == nil {
		return
	}
	m.bookings.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncFailure records a rejected operation.
func (m *BookingMetrics) IncFailure(operation, code string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

// IncLineItem records a line item add or remove.
func (m *BookingMetrics) IncLineItem(action string) {
	if m == nil || m.lineItems == nil {
		return
	}
	m.lineItems.WithLabelValues(normalizeLabel(action)).Inc()
}

// ObserveSettlement records a settled bill and its total.
func (m *BookingMetrics) ObserveSettlement(total decimal.Decimal) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.Inc()
	if total.IsPositive() {
		m.revenue.Add(total.InexactFloat64())
	}
}
