package domain

import (
	"time"
)

// EntityKind enumerates the entity types the analytics engine aggregates.
type EntityKind string

const (
	KindMailbox  EntityKind = "mailbox"
	KindDomain   EntityKind = "domain"
	KindCampaign EntityKind = "campaign"
)

// Valid reports whether the kind is one of the known entity kinds.
func (k EntityKind) Valid() bool {
	switch k {
	case KindMailbox, KindDomain, KindCampaign:
		return true
	}
	return false
}

// Granularity enumerates the time-bucket sizes for series aggregation.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Valid reports whether the granularity is one of the known bucket sizes.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// MetricsVector is the atomic per-day performance snapshot: eight raw
// counters. Counters are expected to be non-negative, but the engine never
// enforces cross-counter invariants (delivered can exceed sent when upstream
// data is dirty; rates just come out above 100%).
type MetricsVector struct {
	Sent            int64 `json:"sent" db:"sent"`
	Delivered       int64 `json:"delivered" db:"delivered"`
	Opened          int64 `json:"opened" db:"opened"`
	Clicked         int64 `json:"clicked" db:"clicked"`
	Replied         int64 `json:"replied" db:"replied"`
	Bounced         int64 `json:"bounced" db:"bounced"`
	Unsubscribed    int64 `json:"unsubscribed" db:"unsubscribed"`
	SpamComplaints  int64 `json:"spam_complaints" db:"spam_complaints"`
}

// Add returns the pointwise sum of two vectors. Addition is associative and
// commutative; neither operand is mutated.
func (m MetricsVector) Add(o MetricsVector) MetricsVector {
	return MetricsVector{
		Sent:           m.Sent + o.Sent,
		Delivered:      m.Delivered + o.Delivered,
		Opened:         m.Opened + o.Opened,
		Clicked:        m.Clicked + o.Clicked,
		Replied:        m.Replied + o.Replied,
		Bounced:        m.Bounced + o.Bounced,
		Unsubscribed:   m.Unsubscribed + o.Unsubscribed,
		SpamComplaints: m.SpamComplaints + o.SpamComplaints,
	}
}

// IsZero reports whether all counters are zero.
func (m MetricsVector) IsZero() bool {
	return m == MetricsVector{}
}

// RawRecord is one per-entity, per-day metrics row as delivered by the
// upstream ingestion process. Read-only to this subsystem. Date is an ISO
// 8601 calendar date ("2006-01-02"); it stays a string because upstream data
// quality is not guaranteed and malformed dates must not abort aggregation.
type RawRecord struct {
	EntityID  string        `json:"entity_id" db:"entity_id"`
	Name      string        `json:"name" db:"name"` // email / domain name / campaign name, opaque here
	Date      string        `json:"date" db:"date"`
	Metrics   MetricsVector `json:"metrics"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// RateSet holds the derived rates for one summed MetricsVector. Values are
// fractions (0.25 = 25%), not capped at 1.0.
type RateSet struct {
	Delivery    float64 `json:"delivery"`
	Open        float64 `json:"open"`
	Click       float64 `json:"click"`
	Reply       float64 `json:"reply"`
	Bounce      float64 `json:"bounce"`
	Unsubscribe float64 `json:"unsubscribe"`
	Spam        float64 `json:"spam"`
}

// AggregateResult is the per-entity rollup: summed metrics, derived rates,
// and the composite health score, with descriptive fields taken from the
// latest-dated record in the group.
type AggregateResult struct {
	EntityID    string        `json:"entity_id"`
	Name        string        `json:"name"`
	Metrics     MetricsVector `json:"metrics"`
	Rates       RateSet       `json:"rates"`
	HealthScore int           `json:"health_score"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TimeSeriesPoint is one non-empty time bucket: key (e.g. "2024-03"),
// human label (e.g. "Mar 2024"), and the summed metrics for every record
// whose date falls in the bucket.
type TimeSeriesPoint struct {
	Key     string        `json:"key"`
	Label   string        `json:"label"`
	Metrics MetricsVector `json:"metrics"`
}

// DateRange bounds a query by ISO calendar dates, inclusive on both ends.
// Either bound may be empty (open-ended).
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsZero reports whether both bounds are empty.
func (r DateRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}
