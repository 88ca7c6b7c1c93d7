package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBookingMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.IncBooking("occupied")
	m.IncBooking("occupied")
	m.IncBooking("booked")
	m.IncFailure("book", "CONFLICT")
	m.IncLineItem("add")
	m.ObserveSettlement(decimal.NewFromInt(285000))

	require.Equal(t, float64(2), testutil.ToFloat64(m.bookings.WithLabelValues("occupied")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.bookings.WithLabelValues("booked")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.failures.WithLabelValues("book", "CONFLICT")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.lineItems.WithLabelValues("add")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.settlements))
	require.Equal(t, float64(285000), testutil.ToFloat64(m.revenue))
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.IncBooking("occupied")
	m.ObserveSettlement(decimal.NewFromInt(1))

	noop := NewBookingMetrics(nil)
	noop.IncFailure("", "")
	noop.ObserveSettlement(decimal.NewFromInt(1))
}
