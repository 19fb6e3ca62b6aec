package analytics

import (
	"github.com/ignite/mailpulse/internal/domain"
)

// Rates derives the named rates from a metrics vector.
//
// Division by zero yields 0 for that rate, never NaN or an error: a mailbox
// with zero sends reports 0% across the board rather than "undefined".
// Rates are fractions and are not capped at 1.0 — dirty upstream data can
// legitimately produce delivered > sent, and hiding that would mask the
// anomaly.
func Rates(m domain.MetricsVector) domain.RateSet {
	return domain.RateSet{
		Delivery:    ratio(m.Delivered, m.Sent),
		Open:        ratio(m.Opened, m.Delivered),
		Click:       ratio(m.Clicked, m.Delivered),
		Reply:       ratio(m.Replied, m.Delivered),
		Bounce:      ratio(m.Bounced, m.Sent),
		Unsubscribe: ratio(m.Unsubscribed, m.Sent),
		Spam:        ratio(m.SpamComplaints, m.Sent),
	}
}

func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
