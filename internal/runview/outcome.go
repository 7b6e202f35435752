// Package runview holds the pure page logic of the run viewer: reconciling
// the two concurrent fetches into a single display mode, routing the
// requested tab to a render plan, and partitioning metric keys. Nothing in
// this package does I/O; the TUI layer feeds it state and renders its
// decisions.
package runview

// Identity names the run page. Both fields are required before any fetch is
// attempted; callers enforce that at the program boundary.
type Identity struct {
	RunID        string
	ExperimentID string
}

// Phase is the lifecycle position of one fetch.
type Phase int

const (
	Pending Phase = iota
	Succeeded
	Failed
)

// ErrorKind classifies a failed fetch. Anything the resolver does not
// recognize collapses to ErrOther.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrNotFound
	ErrOther
)

// Outcome is the observable state of one fetch. Exactly one phase holds at a
// time; Err is meaningful only when Phase is Failed.
type Outcome struct {
	Phase Phase
	Err   ErrorKind
}

// DisplayMode is the single top-level decision of what the page shows.
type DisplayMode int

const (
	InitialLoading DisplayMode = iota
	RunNotFound
	ExperimentNotFound
	GenericError
	Ready
)

func (m DisplayMode) String() string {
	switch m {
	case InitialLoading:
		return "initial-loading"
	case RunNotFound:
		return "run-not-found"
	case ExperimentNotFound:
		return "experiment-not-found"
	case GenericError:
		return "generic-error"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Resolver derives DisplayMode from the pair of fetch outcomes. Its only
// state is the per-entity "ever succeeded" memory, which is monotonic for the
// lifetime of one Identity: once a payload has been seen, a later in-flight
// refetch never regresses the page to the full loading skeleton. A new
// Identity gets a new Resolver.
type Resolver struct {
	runSeen bool
	expSeen bool
}

// NewResolver returns a resolver with no observed successes.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve picks the display mode. First match wins; the order is priority:
// a missing run beats a missing experiment beats any other failure, so a
// combined failure reports the most specific condition.
func (r *Resolver) Resolve(run, experiment Outcome) DisplayMode {
	if run.Phase == Succeeded {
		r.runSeen = true
	}
	if experiment.Phase == Succeeded {
		r.expSeen = true
	}

	switch {
	case run.Phase == Failed && run.Err == ErrNotFound:
		return RunNotFound
	case experiment.Phase == Failed && experiment.Err == ErrNotFound:
		return ExperimentNotFound
	case run.Phase == Failed || experiment.Phase == Failed:
		return GenericError
	case (run.Phase == Pending || experiment.Phase == Pending) && !r.runSeen && !r.expSeen:
		return InitialLoading
	}
	return Ready
}
