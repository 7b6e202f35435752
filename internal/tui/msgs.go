package tui

import "github.com/jask/runboard/internal/tracking"

// ---------------------------------------------------------------------------
// Bubble Tea messages
//
// Every fetch completion carries the generation it was issued under. A
// completion whose generation no longer matches the app's current one is a
// stale response and is dropped without touching state.
// ---------------------------------------------------------------------------

type runFetchedMsg struct {
	gen int
	run *tracking.Run
	err error
}

type experimentFetchedMsg struct {
	gen int
	exp *tracking.Experiment
	err error
}

type artifactsMsg struct {
	gen  int
	path string
	list *tracking.ArtifactList
	err  error
}

type historyMsg struct {
	gen    int
	key    string
	points []tracking.Metric
	err    error
}

type tracesMsg struct {
	gen    int
	traces []tracking.Trace
	err    error
}

type renameDoneMsg struct {
	gen int
	err error
}

type deleteDoneMsg struct {
	gen int
	err error
}
