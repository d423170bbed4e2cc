package series

import (
	"testing"
	"time"

	"github.com/janekbaraniewski/gateusage/internal/core"
)

func point(ts int64, quota, tokens, count float64) core.QuotaDataPoint {
	return core.QuotaDataPoint{
		CreatedAt: time.Unix(ts, 0),
		Quota:     quota,
		TokenUsed: tokens,
		Count:     count,
	}
}

func TestBucketWidthFor(t *testing.T) {
	start := time.Unix(0, 0)
	if w := BucketWidthFor(start, start.Add(72*time.Hour)); w != time.Hour {
		t.Errorf("72h window width = %v, want 1h", w)
	}
	if w := BucketWidthFor(start, start.Add(72*time.Hour+time.Second)); w != 24*time.Hour {
		t.Errorf(">72h window width = %v, want 24h", w)
	}
}

func TestAggregateBucketBoundaries(t *testing.T) {
	// 10-hour window from epoch 0: hour buckets, 11 aligned buckets.
	start := time.Unix(0, 0)
	end := time.Unix(3600*10, 0)

	rows := []core.QuotaDataPoint{
		point(3599, 1, 0, 1),    // last second of bucket 0
		point(3600, 2, 0, 1),    // first second of bucket 1
		point(3600*10, 4, 0, 1), // exactly windowEnd: last bucket, not one past
	}

	result := Aggregate(rows, start, end)
	if result.BucketWidth != time.Hour {
		t.Fatalf("width = %v", result.BucketWidth)
	}
	if len(result.Buckets) != 11 {
		t.Fatalf("bucket count = %d, want 11", len(result.Buckets))
	}
	if result.Buckets[0].Quota != 1 {
		t.Errorf("bucket 0 quota = %v, want 1", result.Buckets[0].Quota)
	}
	if result.Buckets[1].Quota != 2 {
		t.Errorf("bucket 1 quota = %v, want 2", result.Buckets[1].Quota)
	}
	if result.Buckets[10].Quota != 4 {
		t.Errorf("last bucket quota = %v, want 4", result.Buckets[10].Quota)
	}
}

func TestAggregateDropsOutOfWindowRows(t *testing.T) {
	start := time.Unix(7200, 0)
	end := time.Unix(7200+3600*2, 0)

	rows := []core.QuotaDataPoint{
		point(100, 50, 0, 1),      // far before the window
		point(7200, 1, 0, 1),      // in window
		point(7200*10, 99, 0, 1),  // far after the window
		point(7200+3600, 2, 0, 1), // in window
	}

	result := Aggregate(rows, start, end)
	if result.TotalQuota != 3 {
		t.Errorf("TotalQuota = %v, want 3 (skewed rows must be ignored)", result.TotalQuota)
	}
	if result.TotalCount != 2 {
		t.Errorf("TotalCount = %v, want 2", result.TotalCount)
	}
}

func TestAggregateAlignment(t *testing.T) {
	// A window starting mid-bucket aligns down; an early row landing in
	// the aligned-but-before-start slice still belongs to bucket 0.
	start := time.Unix(5400, 0) // 01:30
	end := time.Unix(5400+3600, 0)

	result := Aggregate([]core.QuotaDataPoint{point(3700, 1, 0, 1)}, start, end)
	if got := result.Buckets[0].Start.Unix(); got != 3600 {
		t.Fatalf("aligned start = %d, want 3600", got)
	}
	if result.Buckets[0].Quota != 1 {
		t.Errorf("bucket 0 quota = %v", result.Buckets[0].Quota)
	}
}

func TestAggregateRates(t *testing.T) {
	start := time.Unix(0, 0)
	end := time.Unix(3600*2, 0) // 2h window, 3 aligned buckets

	rows := []core.QuotaDataPoint{
		point(100, 0, 600, 60), // bucket 0: 60 requests, 600 tokens
	}

	result := Aggregate(rows, start, end)
	if len(result.RPM) != 3 {
		t.Fatalf("RPM series length = %d, want 3", len(result.RPM))
	}
	// 60 requests in a 60-minute bucket → 1 rpm.
	if result.RPM[0] != 1 {
		t.Errorf("RPM[0] = %v, want 1", result.RPM[0])
	}
	if result.TPM[0] != 10 {
		t.Errorf("TPM[0] = %v, want 10", result.TPM[0])
	}
	// Overall: 60 requests over 120 minutes.
	if result.AvgRPM != 0.5 {
		t.Errorf("AvgRPM = %v, want 0.5", result.AvgRPM)
	}
	if result.AvgTPM != 5 {
		t.Errorf("AvgTPM = %v, want 5", result.AvgTPM)
	}
}

func TestAggregateTailTruncation(t *testing.T) {
	// 48h window gets hour buckets (49 aligned), but only the trailing
	// 24 are surfaced for display.
	start := time.Unix(0, 0)
	end := time.Unix(3600*48, 0)

	rows := []core.QuotaDataPoint{
		point(1800, 0, 0, 5),         // bucket 0, outside the surfaced tail
		point(3600*47+1800, 0, 0, 7), // bucket 47, inside the tail
	}

	result := Aggregate(rows, start, end)
	if len(result.Buckets) != 49 {
		t.Fatalf("bucket count = %d, want 49", len(result.Buckets))
	}
	if len(result.RPM) != 24 {
		t.Fatalf("surfaced series length = %d, want 24", len(result.RPM))
	}
	// Totals still include the truncated-away bucket.
	if result.TotalCount != 12 {
		t.Errorf("TotalCount = %v, want 12", result.TotalCount)
	}
	// The tail covers buckets 25..48; bucket 47 is at tail index 22.
	if result.RPM[22] != 7.0/60 {
		t.Errorf("RPM[22] = %v, want %v", result.RPM[22], 7.0/60)
	}
}

func TestAggregateMinimumOneBucket(t *testing.T) {
	at := time.Unix(1000, 0)
	result := Aggregate(nil, at, at)
	if len(result.Buckets) != 1 {
		t.Fatalf("bucket count = %d, want 1", len(result.Buckets))
	}
	if result.AvgRPM != 0 {
		t.Errorf("AvgRPM = %v, want 0", result.AvgRPM)
	}
}

func TestAggregateDayBuckets(t *testing.T) {
	start := time.Unix(0, 0)
	end := start.Add(7 * 24 * time.Hour)

	rows := []core.QuotaDataPoint{
		point(86400*2+100, 10, 0, 1),
		point(86400*2+200, 5, 0, 1),
	}

	result := Aggregate(rows, start, end)
	if result.BucketWidth != 24*time.Hour {
		t.Fatalf("width = %v, want 24h", result.BucketWidth)
	}
	if len(result.Buckets) != 8 {
		t.Fatalf("bucket count = %d, want 8", len(result.Buckets))
	}
	if result.Buckets[2].Quota != 15 {
		t.Errorf("bucket 2 quota = %v, want 15", result.Buckets[2].Quota)
	}
}
