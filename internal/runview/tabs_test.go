package runview

import "testing"

func testPartition() Partition {
	return Partition{
		Model:  []string{"loss", "accuracy"},
		System: []string{"system/cpu_utilization_percentage", "system/gpu_0_memory_usage"},
	}
}

func TestSelectTabModelChartsLegacy(t *testing.T) {
	plan := SelectTab(TabModelCharts, Flags{}, testPartition(), RunContext{RunID: "r1"}, nil)
	if plan.Kind != PlanCharts {
		t.Fatalf("expected charts plan, got kind %d", plan.Kind)
	}
	if plan.Variant != ChartLegacy {
		t.Fatalf("expected legacy variant")
	}
	if len(plan.Keys) != 2 || plan.Keys[0] != "loss" {
		t.Fatalf("expected model keys, got %v", plan.Keys)
	}
}

func TestSelectTabModelChartsUnified(t *testing.T) {
	plan := SelectTab(TabModelCharts, Flags{UnifiedCharts: true}, testPartition(), RunContext{}, nil)
	if plan.Variant != ChartUnified {
		t.Fatalf("expected unified variant when flag set")
	}
}

func TestSelectTabSystemChartsUsesSystemPartition(t *testing.T) {
	plan := SelectTab(TabSystemCharts, Flags{UnifiedCharts: true}, testPartition(), RunContext{}, nil)
	if plan.Kind != PlanCharts || len(plan.Keys) != 2 || plan.Keys[0] != "system/cpu_utilization_percentage" {
		t.Fatalf("expected system keys, got %v", plan.Keys)
	}
}

func TestSelectTabTracesDisabledFallsBackToOverview(t *testing.T) {
	refreshed := false
	plan := SelectTab(TabTraces, Flags{TracesEnabled: false}, testPartition(), RunContext{}, func() { refreshed = true })
	if plan.Kind != PlanOverview {
		t.Fatalf("disabled traces must degrade to overview, got kind %d", plan.Kind)
	}
	if plan.Refresh == nil {
		t.Fatalf("overview fallback must carry the refresh hook")
	}
	plan.Refresh()
	if !refreshed {
		t.Fatalf("refresh hook not wired through")
	}
}

func TestSelectTabTracesEnabled(t *testing.T) {
	plan := SelectTab(TabTraces, Flags{TracesEnabled: true}, testPartition(), RunContext{}, nil)
	if plan.Kind != PlanTraces {
		t.Fatalf("expected traces plan, got kind %d", plan.Kind)
	}
}

func TestSelectTabUnknownFallsBackToOverview(t *testing.T) {
	plan := SelectTab(Tab(42), Flags{TracesEnabled: true}, testPartition(), RunContext{}, nil)
	if plan.Kind != PlanOverview {
		t.Fatalf("unknown tab must degrade to overview, got kind %d", plan.Kind)
	}
}

func TestSelectTabArtifactsCarriesRunContext(t *testing.T) {
	run := RunContext{RunID: "r1", ArtifactURI: "s3://bucket/r1/artifacts", Tags: map[string]string{"k": "v"}}
	plan := SelectTab(TabArtifacts, Flags{}, testPartition(), run, nil)
	if plan.Kind != PlanArtifacts {
		t.Fatalf("expected artifacts plan")
	}
	if plan.Run.ArtifactURI != run.ArtifactURI || plan.Run.Tags["k"] != "v" {
		t.Fatalf("run context not carried: %+v", plan.Run)
	}
}

func TestParseTabRoundTrip(t *testing.T) {
	for _, tab := range []Tab{TabOverview, TabModelCharts, TabSystemCharts, TabArtifacts, TabTraces} {
		if got := ParseTab(tab.String()); got != tab {
			t.Fatalf("round trip failed for %s: got %s", tab, got)
		}
	}
	if got := ParseTab("nonsense"); got != TabOverview {
		t.Fatalf("unknown tab id should parse to overview, got %s", got)
	}
}
