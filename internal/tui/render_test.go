package tui

import (
	"strings"
	"testing"

	"github.com/jask/runboard/internal/runview"
	"github.com/jask/runboard/internal/tracking"
)

func points(values ...float64) []tracking.Metric {
	out := make([]tracking.Metric, len(values))
	for i, v := range values {
		out[i] = tracking.Metric{Key: "loss", Value: v, Step: int64(i)}
	}
	return out
}

func TestRendererSelectionFollowsVariant(t *testing.T) {
	if _, ok := rendererFor(runview.ChartLegacy).(legacyRenderer); !ok {
		t.Fatalf("legacy variant should pick the legacy renderer")
	}
	if _, ok := rendererFor(runview.ChartUnified).(unifiedRenderer); !ok {
		t.Fatalf("unified variant should pick the unified renderer")
	}
}

func TestLegacyRendererDrawsBars(t *testing.T) {
	out := legacyRenderer{}.Render("loss", points(1, 2, 4), 60, 6)
	if !strings.Contains(out, "#") {
		t.Fatalf("expected hash bars, got %q", out)
	}
	if !strings.Contains(out, "min 1") || !strings.Contains(out, "max 4") {
		t.Fatalf("expected range summary, got %q", out)
	}
}

func TestUnifiedRendererDrawsSparkline(t *testing.T) {
	out := unifiedRenderer{}.Render("loss", points(1, 2, 4, 8), 60, 2)
	if !strings.ContainsAny(out, "▁▂▃▄▅▆▇█") {
		t.Fatalf("expected sparkline runes, got %q", out)
	}
	if !strings.Contains(out, "last 8") {
		t.Fatalf("expected last-value summary, got %q", out)
	}
}

func TestRenderersHandleEmptySeriesAlike(t *testing.T) {
	legacy := legacyRenderer{}.Render("loss", nil, 60, 6)
	unified := unifiedRenderer{}.Render("loss", nil, 60, 2)
	if legacy != "(no data)" || unified != "(no data)" {
		t.Fatalf("empty series: legacy %q unified %q", legacy, unified)
	}
}

func TestSamplePointsKeepsEndpoints(t *testing.T) {
	series := points(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	sampled := samplePoints(series, 4)
	if len(sampled) != 4 {
		t.Fatalf("expected 4 points, got %d", len(sampled))
	}
	if sampled[0].Value != 0 || sampled[3].Value != 9 {
		t.Fatalf("endpoints not preserved: %v", sampled)
	}
}

func TestWaterfallIndentsChildSpans(t *testing.T) {
	tr := tracking.Trace{
		TraceID: "t1",
		Spans: []tracking.Span{
			{SpanID: "a", Name: "root", StartTimeNS: 0, EndTimeNS: 1000},
			{SpanID: "b", ParentSpanID: "a", Name: "child", StartTimeNS: 100, EndTimeNS: 600},
			{SpanID: "c", ParentSpanID: "b", Name: "grandchild", StartTimeNS: 200, EndTimeNS: 400},
		},
	}
	depths := spanDepths(tr.Spans)
	if depths["a"] != 0 || depths["b"] != 1 || depths["c"] != 2 {
		t.Fatalf("unexpected depths: %v", depths)
	}
	out := renderWaterfall(tr, 80)
	if !strings.Contains(out, "█") {
		t.Fatalf("expected duration bars, got %q", out)
	}
}

func TestWaterfallSurvivesParentCycle(t *testing.T) {
	tr := tracking.Trace{
		Spans: []tracking.Span{
			{SpanID: "a", ParentSpanID: "b", Name: "x", StartTimeNS: 0, EndTimeNS: 10},
			{SpanID: "b", ParentSpanID: "a", Name: "y", StartTimeNS: 0, EndTimeNS: 10},
		},
	}
	// must terminate
	_ = renderWaterfall(tr, 80)
}

func TestArtifactsEmptyRootIsLegibleState(t *testing.T) {
	a := ready(t)
	a.run.Info.ArtifactURI = ""
	a.activeTab = runview.TabArtifacts
	out := a.renderActiveTab()
	if !strings.Contains(out, "No artifacts were logged") {
		t.Fatalf("missing artifact root should be an empty state, got %q", out)
	}
}

func TestHumanSize(t *testing.T) {
	cases := map[int64]string{
		512:     "512 B",
		2048:    "2.0 KiB",
		5 << 20: "5.0 MiB",
	}
	for in, want := range cases {
		if got := humanSize(in); got != want {
			t.Fatalf("humanSize(%d) = %q, want %q", in, got, want)
		}
	}
}
