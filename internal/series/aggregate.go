// Package series turns raw timestamped usage rows into fixed-width time
// buckets and per-minute rate series for the dashboard sparklines.
package series

import (
	"time"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/gateusage/internal/core"
)

const (
	hourBucket = time.Hour
	dayBucket  = 24 * time.Hour

	// Windows longer than this get day buckets instead of hour buckets.
	dayBucketThreshold = 72 * time.Hour

	// At most this many trailing buckets are surfaced for display; totals
	// always come from the full row set.
	maxTailBuckets = 24
)

// Bucket is one fixed-width time slice with additive sums.
type Bucket struct {
	Start time.Time
	Quota float64
	Token float64
	Count float64
}

// Result carries the full bucket set plus display-ready series. The rate
// slices are truncated to the most recent min(24, bucketCount) buckets.
type Result struct {
	BucketWidth time.Duration
	Buckets     []Bucket

	RPM []float64 // requests per minute, per surfaced bucket
	TPM []float64 // tokens per minute, per surfaced bucket
	QPM []float64 // quota per minute, per surfaced bucket

	TotalQuota float64
	TotalToken float64
	TotalCount float64

	AvgRPM float64
	AvgTPM float64
}

// BucketWidthFor selects the bucket width for a window: day buckets past
// 72 hours, hour buckets otherwise. Fixed two-tier policy.
func BucketWidthFor(windowStart, windowEnd time.Time) time.Duration {
	if windowEnd.Sub(windowStart) > dayBucketThreshold {
		return dayBucket
	}
	return hourBucket
}

// Aggregate assigns each row to an aligned bucket within [windowStart,
// windowEnd] and derives per-minute rates. Rows falling outside the
// aligned bucket range (clock skew, server slop) are dropped rather than
// allowed to corrupt the series.
func Aggregate(rows []core.QuotaDataPoint, windowStart, windowEnd time.Time) Result {
	width := BucketWidthFor(windowStart, windowEnd)
	widthSec := int64(width / time.Second)

	startSec := windowStart.Unix()
	endSec := windowEnd.Unix()
	if endSec < startSec {
		endSec = startSec
	}

	alignedStart := startSec - mod(startSec, widthSec)
	alignedEnd := endSec - mod(endSec, widthSec)
	bucketCount := int((alignedEnd-alignedStart)/widthSec) + 1
	if bucketCount < 1 {
		bucketCount = 1
	}

	buckets := make([]Bucket, bucketCount)
	for i := range buckets {
		buckets[i].Start = time.Unix(alignedStart+int64(i)*widthSec, 0).UTC()
	}

	for _, row := range rows {
		index := int((row.CreatedAt.Unix() - alignedStart) / widthSec)
		if row.CreatedAt.Unix() < alignedStart || index < 0 || index >= bucketCount {
			continue
		}
		buckets[index].Quota += row.Quota
		buckets[index].Token += row.TokenUsed
		buckets[index].Count += row.Count
	}

	result := Result{
		BucketWidth: width,
		Buckets:     buckets,
		TotalQuota:  lo.SumBy(buckets, func(b Bucket) float64 { return b.Quota }),
		TotalToken:  lo.SumBy(buckets, func(b Bucket) float64 { return b.Token }),
		TotalCount:  lo.SumBy(buckets, func(b Bucket) float64 { return b.Count }),
	}

	widthMinutes := float64(widthSec) / 60
	tail := tailBuckets(buckets)
	result.RPM = lo.Map(tail, func(b Bucket, _ int) float64 { return b.Count / widthMinutes })
	result.TPM = lo.Map(tail, func(b Bucket, _ int) float64 { return b.Token / widthMinutes })
	result.QPM = lo.Map(tail, func(b Bucket, _ int) float64 { return b.Quota / widthMinutes })

	windowMinutes := (endSec - startSec) / 60
	if windowMinutes < 1 {
		windowMinutes = 1
	}
	result.AvgRPM = result.TotalCount / float64(windowMinutes)
	result.AvgTPM = result.TotalToken / float64(windowMinutes)

	return result
}

func tailBuckets(buckets []Bucket) []Bucket {
	if len(buckets) <= maxTailBuckets {
		return buckets
	}
	return buckets[len(buckets)-maxTailBuckets:]
}

// mod is a floor modulus: negative epochs (pre-1970 windows only occur in
// tests, but still) align downward instead of toward zero.
func mod(v, m int64) int64 {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}
