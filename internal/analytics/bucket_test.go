package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/mailpulse/internal/domain"
)

func TestBucketKeyDay(t *testing.T) {
	assert.Equal(t, "2024-03-18", BucketKey("2024-03-18", domain.GranularityDay))
}

func TestBucketKeyWeekMondayAnchor(t *testing.T) {
	// 2024-03-18 is a Monday
	cases := map[string]string{
		"2024-03-18": "2024-03-18", // Monday maps to itself
		"2024-03-19": "2024-03-18",
		"2024-03-24": "2024-03-18", // Sunday still belongs to Monday's week
		"2024-03-25": "2024-03-25", // next Monday starts a new bucket
	}
	for date, want := range cases {
		assert.Equal(t, want, BucketKey(date, domain.GranularityWeek), "date %s", date)
	}
}

func TestBucketKeyMonth(t *testing.T) {
	assert.Equal(t, "2024-01", BucketKey("2024-01-01", domain.GranularityMonth))
	assert.Equal(t, "2024-01", BucketKey("2024-01-31", domain.GranularityMonth))
	assert.Equal(t, "2024-02", BucketKey("2024-02-01", domain.GranularityMonth))
}

func TestBucketKeyMalformedDates(t *testing.T) {
	for _, date := range []string{"", "not-a-date", "2024-13-40", "18/03/2024", "2024-03-18T00:00:00Z"} {
		assert.Equal(t, UnknownBucket, BucketKey(date, domain.GranularityDay), "date %q", date)
		assert.Equal(t, UnknownBucket, BucketKey(date, domain.GranularityMonth), "date %q", date)
	}
}

func TestBucketKeyUnknownGranularity(t *testing.T) {
	assert.Equal(t, UnknownBucket, BucketKey("2024-03-18", domain.Granularity("hour")))
}

func TestBucketLabel(t *testing.T) {
	assert.Equal(t, "Mar 18, 2024", BucketLabel("2024-03-18", domain.GranularityDay))
	assert.Equal(t, "Week of Mar 18, 2024", BucketLabel("2024-03-18", domain.GranularityWeek))
	assert.Equal(t, "Mar 2024", BucketLabel("2024-03", domain.GranularityMonth))
	assert.Equal(t, "Unknown", BucketLabel(UnknownBucket, domain.GranularityMonth))
}
