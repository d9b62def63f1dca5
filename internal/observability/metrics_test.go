package observability

import (
	"testing"
	"time"

	"github.com/danmuck/neobuild/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordLaunch("sh", true)
	RecordTermination("exited")
	RecordRun("sh", "exited", 12*time.Millisecond)
	RecordRebuild("up_to_date")
	RecordHTTPRequest("GET", "/health", 200)
}

func TestRecordLaunchCountsByResult(t *testing.T) {
	before := testutil.ToFloat64(launches.WithLabelValues("dash", "failed"))
	RecordLaunch("dash", false)
	RecordLaunch("dash", false)
	after := testutil.ToFloat64(launches.WithLabelValues("dash", "failed"))
	if after-before != 2 {
		t.Fatalf("expected 2 failed launches recorded, got %v", after-before)
	}
}

func TestRecordRebuildCountsByState(t *testing.T) {
	before := testutil.ToFloat64(rebuilds.WithLabelValues("rebuild_failed"))
	RecordRebuild("rebuild_failed")
	if got := testutil.ToFloat64(rebuilds.WithLabelValues("rebuild_failed")) - before; got != 1 {
		t.Fatalf("expected one rebuild recorded, got %v", got)
	}
}
