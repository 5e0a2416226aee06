package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotPeriodSeconds(t *testing.T) {
	assert.Equal(t, int64(86400), PeriodDaily.Seconds())
	assert.Equal(t, int64(604800), PeriodWeekly.Seconds())
	assert.Equal(t, int64(2592000), PeriodMonthly.Seconds())
}

func TestBucketIDAndStart(t *testing.T) {
	// 2023-11-14T22:13:20Z
	const ts = int64(1_700_000_000)

	for _, p := range Periods {
		id := p.BucketID(ts)
		start := p.BucketStart(ts)

		assert.Equal(t, id*p.Seconds(), start, "period %s", p)
		assert.LessOrEqual(t, start, ts, "period %s", p)
		assert.Greater(t, start+p.Seconds(), ts, "period %s", p)
	}

	// Timestamps within the same bucket share the ID, the next bucket does not.
	assert.Equal(t, PeriodDaily.BucketID(ts), PeriodDaily.BucketID(ts+60))
	assert.NotEqual(t, PeriodDaily.BucketID(ts), PeriodDaily.BucketID(ts+86400))
}

func TestSnapshotKey(t *testing.T) {
	const ts = int64(1_700_000_000)

	key := SnapshotKey("0xabc", PeriodDaily, ts)
	assert.Equal(t, "0xabc-daily-19675", key)

	// Same bucket, same key.
	assert.Equal(t, key, SnapshotKey("0xabc", PeriodDaily, ts+3600))

	// Bucket ids of different periods can coincide numerically; the keys
	// must not. Every period's bucket 0 covers the epoch start.
	seen := map[string]bool{}
	for _, p := range Periods {
		k := SnapshotKey("0xabc", p, 0)
		assert.False(t, seen[k], "period %s collides", p)
		seen[k] = true
	}
}
