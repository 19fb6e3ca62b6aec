package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/mailpulse/internal/domain"
)

func TestRates(t *testing.T) {
	m := domain.MetricsVector{
		Sent: 200, Delivered: 190, Opened: 95, Clicked: 19,
		Replied: 5, Bounced: 10, Unsubscribed: 2, SpamComplaints: 1,
	}
	r := Rates(m)

	assert.InDelta(t, 0.95, r.Delivery, 1e-9)
	assert.InDelta(t, 0.5, r.Open, 1e-9)
	assert.InDelta(t, 0.1, r.Click, 1e-9)
	assert.InDelta(t, 5.0/190, r.Reply, 1e-9)
	assert.InDelta(t, 0.05, r.Bounce, 1e-9)
	assert.InDelta(t, 0.01, r.Unsubscribe, 1e-9)
	assert.InDelta(t, 0.005, r.Spam, 1e-9)
}

func TestRatesZeroDenominators(t *testing.T) {
	r := Rates(domain.MetricsVector{})
	assert.Equal(t, domain.RateSet{}, r)

	// opens without deliveries: open rate collapses to 0, not +Inf
	r = Rates(domain.MetricsVector{Opened: 10})
	assert.Zero(t, r.Open)
	assert.Zero(t, r.Delivery)

	for _, v := range []float64{r.Delivery, r.Open, r.Click, r.Reply, r.Bounce, r.Unsubscribe, r.Spam} {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestRatesNotCapped(t *testing.T) {
	// dirty upstream data: delivered > sent must surface, not be clamped
	r := Rates(domain.MetricsVector{Sent: 100, Delivered: 120})
	assert.InDelta(t, 1.2, r.Delivery, 1e-9)
}
