package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsVectorAdd(t *testing.T) {
	a := MetricsVector{Sent: 100, Delivered: 95, Opened: 40, Clicked: 10, Replied: 2, Bounced: 5, Unsubscribed: 1, SpamComplaints: 1}
	b := MetricsVector{Sent: 50, Delivered: 48, Opened: 20, Clicked: 5, Replied: 1, Bounced: 2, Unsubscribed: 0, SpamComplaints: 0}

	sum := a.Add(b)
	assert.Equal(t, int64(150), sum.Sent)
	assert.Equal(t, int64(143), sum.Delivered)
	assert.Equal(t, int64(60), sum.Opened)
	assert.Equal(t, int64(15), sum.Clicked)
	assert.Equal(t, int64(3), sum.Replied)
	assert.Equal(t, int64(7), sum.Bounced)
	assert.Equal(t, int64(1), sum.Unsubscribed)
	assert.Equal(t, int64(1), sum.SpamComplaints)

	// operands untouched
	assert.Equal(t, int64(100), a.Sent)
	assert.Equal(t, int64(50), b.Sent)
}

func TestMetricsVectorAddCommutativeAssociative(t *testing.T) {
	a := MetricsVector{Sent: 1, Delivered: 2, Opened: 3}
	b := MetricsVector{Sent: 10, Bounced: 4, SpamComplaints: 5}
	c := MetricsVector{Clicked: 7, Replied: 8, Unsubscribed: 9}

	assert.Equal(t, a.Add(b), b.Add(a))
	assert.Equal(t, a.Add(b).Add(c), a.Add(b.Add(c)))

	// zero vector is the identity
	assert.Equal(t, a, a.Add(MetricsVector{}))
}

func TestEntityKindValid(t *testing.T) {
	assert.True(t, KindMailbox.Valid())
	assert.True(t, KindDomain.Valid())
	assert.True(t, KindCampaign.Valid())
	assert.False(t, EntityKind("mailserver").Valid())
	assert.False(t, EntityKind("").Valid())
}

func TestGranularityValid(t *testing.T) {
	assert.True(t, GranularityDay.Valid())
	assert.True(t, GranularityWeek.Valid())
	assert.True(t, GranularityMonth.Valid())
	assert.False(t, Granularity("hour").Valid())
}
