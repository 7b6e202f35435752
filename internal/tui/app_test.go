package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/runboard/internal/config"
	"github.com/jask/runboard/internal/runview"
	"github.com/jask/runboard/internal/tracking"
)

func testConfig() config.Config {
	return config.Config{
		Server:   config.ServerConfig{URL: "http://tracking.test", TimeoutSeconds: 5},
		Features: config.FeatureConfig{Traces: false, UnifiedCharts: false},
		UI:       config.UIConfig{WideBreakpoint: 120, MaxChartSeries: 40},
	}
}

func testApp(t *testing.T) *App {
	t.Helper()
	client := tracking.New("http://tracking.test", time.Second)
	return New(context.Background(), testConfig(), client, runview.Identity{RunID: "r1", ExperimentID: "e7"}, runview.TabOverview)
}

func testRun() *tracking.Run {
	return &tracking.Run{
		Info: tracking.RunInfo{
			RunID:        "r1",
			RunName:      "sunny-owl-1",
			ExperimentID: "e7",
			Status:       "FINISHED",
			StartTime:    1700000000000,
			EndTime:      1700000360000,
			ArtifactURI:  "s3://bucket/e7/r1/artifacts",
		},
		Data: tracking.RunData{
			Metrics: []tracking.Metric{
				{Key: "loss", Value: 0.42, Step: 10},
				{Key: "system/cpu_utilization_percentage", Value: 61, Step: 10},
			},
			Params: []tracking.Param{{Key: "lr", Value: "0.001"}},
			Tags:   []tracking.RunTag{{Key: "mlflow.user", Value: "jask"}},
		},
	}
}

func notFoundErr() error {
	return &tracking.APIError{Code: tracking.CodeResourceDoesNotExist, Message: "gone", HTTPStatus: 404}
}

func genericErr() error {
	return &tracking.APIError{Code: tracking.CodeInternalError, Message: "boom", HTTPStatus: 500}
}

func ready(t *testing.T) *App {
	t.Helper()
	a := testApp(t)
	a.Update(runFetchedMsg{gen: a.gen, run: testRun()})
	a.Update(experimentFetchedMsg{gen: a.gen, exp: &tracking.Experiment{ExperimentID: "e7", Name: "churn-model"}})
	if a.mode() != runview.Ready {
		t.Fatalf("setup: expected ready, got %s", a.mode())
	}
	return a
}

func TestNewPanicsWithoutIdentity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for missing run id")
		}
	}()
	client := tracking.New("http://tracking.test", time.Second)
	New(context.Background(), testConfig(), client, runview.Identity{ExperimentID: "e7"}, runview.TabOverview)
}

func TestStartsInInitialLoading(t *testing.T) {
	a := testApp(t)
	if a.mode() != runview.InitialLoading {
		t.Fatalf("expected initial-loading, got %s", a.mode())
	}
	if !strings.Contains(a.View(), "Loading run r1") {
		t.Fatalf("skeleton should name the run: %q", a.View())
	}
}

func TestRunNotFoundView(t *testing.T) {
	a := testApp(t)
	a.Update(runFetchedMsg{gen: a.gen, err: notFoundErr()})
	if a.mode() != runview.RunNotFound {
		t.Fatalf("expected run-not-found, got %s", a.mode())
	}
	if !strings.Contains(a.View(), "Run not found") || !strings.Contains(a.View(), "r1") {
		t.Fatalf("not-found view should name the run id: %q", a.View())
	}
}

func TestRunNotFoundOutranksExperimentFailure(t *testing.T) {
	a := testApp(t)
	a.Update(experimentFetchedMsg{gen: a.gen, err: genericErr()})
	a.Update(runFetchedMsg{gen: a.gen, err: notFoundErr()})
	if a.mode() != runview.RunNotFound {
		t.Fatalf("expected run-not-found to win, got %s", a.mode())
	}
}

func TestGenericErrorRendersBlank(t *testing.T) {
	a := testApp(t)
	a.Update(runFetchedMsg{gen: a.gen, run: testRun()})
	a.Update(experimentFetchedMsg{gen: a.gen, err: genericErr()})
	if a.mode() != runview.GenericError {
		t.Fatalf("expected generic-error, got %s", a.mode())
	}
	if a.View() != "" {
		t.Fatalf("generic error must render blank, got %q", a.View())
	}
}

func TestReadyViewShowsRunAndExperiment(t *testing.T) {
	a := ready(t)
	view := a.View()
	if !strings.Contains(view, "sunny-owl-1") {
		t.Fatalf("header should show the run name")
	}
	if !strings.Contains(view, "churn-model") {
		t.Fatalf("header should show the experiment name")
	}
}

func TestStaleGenerationIsDiscarded(t *testing.T) {
	a := ready(t)
	stale := runFetchedMsg{gen: a.gen - 1, err: notFoundErr()}
	a.Update(stale)
	if a.mode() != runview.Ready {
		t.Fatalf("stale completion mutated state: %s", a.mode())
	}
}

func TestRefetchDoesNotRegressToSkeleton(t *testing.T) {
	a := ready(t)
	a.requestRefresh()
	if cmd := a.consumeRefresh(); cmd == nil {
		t.Fatalf("expected a refetch command")
	}
	if a.runOutcome.Phase != runview.Pending {
		t.Fatalf("refetch should put the run back in flight")
	}
	if a.mode() != runview.Ready {
		t.Fatalf("in-flight refetch regressed to %s", a.mode())
	}
}

func TestRenameSuccessClosesModalAndRefetches(t *testing.T) {
	a := ready(t)
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if !a.renameOpen {
		t.Fatalf("r should open the rename modal")
	}
	gen := a.gen
	a.Update(renameDoneMsg{gen: gen, err: nil})
	if a.renameOpen {
		t.Fatalf("rename modal should close on success")
	}
	if a.gen == gen {
		t.Fatalf("rename success should start a fresh fetch wave")
	}
	if a.quitting {
		t.Fatalf("rename must refresh in place, not navigate away")
	}
}

func TestDeleteSuccessNavigatesToExperiment(t *testing.T) {
	a := ready(t)
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if !a.deleteOpen {
		t.Fatalf("x should open the delete modal")
	}
	a.Update(deleteDoneMsg{gen: a.gen, err: nil})
	if !a.quitting {
		t.Fatalf("delete success should leave the page")
	}
	if !strings.Contains(a.farewell, "/#/experiments/e7") {
		t.Fatalf("farewell should point at the parent experiment, got %q", a.farewell)
	}
	if strings.Contains(a.farewell, "/runs/") {
		t.Fatalf("navigation target must not be the run's own page")
	}
}

func TestDeleteFailureStaysOnPage(t *testing.T) {
	a := ready(t)
	a.deleteOpen = true
	a.Update(deleteDoneMsg{gen: a.gen, err: genericErr()})
	if a.quitting {
		t.Fatalf("failed delete must not navigate")
	}
	if !a.statusErr {
		t.Fatalf("failed delete should surface on the status line")
	}
}

func TestDisabledTracesTabShowsOverview(t *testing.T) {
	a := ready(t)
	a.activeTab = runview.TabTraces
	if plan := a.currentPlan(); plan.Kind != runview.PlanOverview {
		t.Fatalf("disabled traces should route to overview, got kind %d", plan.Kind)
	}
	if a.effectiveTab() != runview.TabOverview {
		t.Fatalf("tab bar should highlight overview for the fallback")
	}
}

func TestTracesTabRoutesWhenEnabled(t *testing.T) {
	a := ready(t)
	a.flags.TracesEnabled = true
	a.activeTab = runview.TabTraces
	if plan := a.currentPlan(); plan.Kind != runview.PlanTraces {
		t.Fatalf("expected traces plan, got kind %d", plan.Kind)
	}
}

func TestMetricFilterNarrowsChartKeys(t *testing.T) {
	a := ready(t)
	a.activeTab = runview.TabModelCharts
	a.filterQuery = "loss"
	plan := a.currentPlan()
	if len(plan.Keys) != 1 || plan.Keys[0] != "loss" {
		t.Fatalf("filter should narrow to loss, got %v", plan.Keys)
	}
}

func TestChartBudgetReachesLaterKeys(t *testing.T) {
	a := ready(t)
	a.cfg.UI.MaxChartSeries = 2
	a.activeTab = runview.TabModelCharts
	run := testRun()
	run.Data.Metrics = []tracking.Metric{
		{Key: "loss", Value: 0.4, Step: 1},
		{Key: "accuracy", Value: 0.9, Step: 1},
		{Key: "f1", Value: 0.8, Step: 1},
	}
	a.Update(runFetchedMsg{gen: a.gen, run: run})
	if !a.historyPending["loss"] || !a.historyPending["accuracy"] {
		t.Fatalf("first wave should fetch the leading keys, pending %v", a.historyPending)
	}
	if a.historyPending["f1"] {
		t.Fatalf("third key exceeds the budget of the first wave")
	}

	a.Update(historyMsg{gen: a.gen, key: "loss", points: []tracking.Metric{{Key: "loss", Value: 0.4, Step: 1}}})
	a.Update(historyMsg{gen: a.gen, key: "accuracy", points: []tracking.Metric{{Key: "accuracy", Value: 0.9, Step: 1}}})

	if cmd := a.tabDataCmd(); cmd == nil {
		t.Fatalf("cached leading keys must not starve the key after them")
	}
	if !a.historyPending["f1"] {
		t.Fatalf("expected a history fetch in flight for f1")
	}
}

func TestOverBudgetChartShowsNotLoadedState(t *testing.T) {
	a := ready(t)
	a.cfg.UI.MaxChartSeries = 0
	a.activeTab = runview.TabModelCharts
	view := a.renderCharts(a.currentPlan())
	if !strings.Contains(view, "series cap") {
		t.Fatalf("an unfetched key should say so, got %q", view)
	}
	if strings.Contains(view, "loading") {
		t.Fatalf("no fetch is in flight, so nothing is loading: %q", view)
	}
}

func TestRenderDoesNotMoveChartScroll(t *testing.T) {
	a := ready(t)
	a.activeTab = runview.TabModelCharts
	a.chartScroll = 99
	a.View()
	if a.chartScroll != 99 {
		t.Fatalf("render must not write scroll state, got %d", a.chartScroll)
	}
}

func TestChartScrollStopsAtLastKey(t *testing.T) {
	a := ready(t)
	a.activeTab = runview.TabModelCharts
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if a.chartScroll != 0 {
		t.Fatalf("scroll past the only key should clamp to 0, got %d", a.chartScroll)
	}
}

func TestTerminalModesIgnoreTabKeys(t *testing.T) {
	a := testApp(t)
	a.Update(runFetchedMsg{gen: a.gen, err: notFoundErr()})
	before := a.activeTab
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if a.activeTab != before {
		t.Fatalf("not-found view should not allow tab switching")
	}
}
