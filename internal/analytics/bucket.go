package analytics

import (
	"time"

	"github.com/ignite/mailpulse/internal/domain"
)

const dateLayout = "2006-01-02"

// UnknownBucket is the sentinel bucket key for records whose date cannot be
// parsed. Malformed dates must never abort an aggregation; they are grouped
// here instead.
const UnknownBucket = "unknown"

// BucketKey maps an ISO calendar date to its bucket key for the given
// granularity:
//
//	day   → the date itself ("2024-03-18")
//	week  → the Monday-anchored week start date ("2024-03-18")
//	month → the YYYY-MM prefix ("2024-03")
//
// It is total: any unparseable date (or unknown granularity) yields
// UnknownBucket rather than an error.
func BucketKey(date string, g domain.Granularity) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return UnknownBucket
	}
	switch g {
	case domain.GranularityDay:
		return t.Format(dateLayout)
	case domain.GranularityWeek:
		// time.Weekday puts Sunday at 0; shift so Monday is the anchor.
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset).Format(dateLayout)
	case domain.GranularityMonth:
		return t.Format("2006-01")
	}
	return UnknownBucket
}

// BucketLabel renders a bucket key for display: "Mar 18, 2024" for day,
// "Week of Mar 18, 2024" for week, "Mar 2024" for month. The unknown bucket
// renders as "Unknown".
func BucketLabel(key string, g domain.Granularity) string {
	if key == UnknownBucket {
		return "Unknown"
	}
	switch g {
	case domain.GranularityDay:
		if t, err := time.Parse(dateLayout, key); err == nil {
			return t.Format("Jan 2, 2006")
		}
	case domain.GranularityWeek:
		if t, err := time.Parse(dateLayout, key); err == nil {
			return "Week of " + t.Format("Jan 2, 2006")
		}
	case domain.GranularityMonth:
		if t, err := time.Parse("2006-01", key); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return key
}
