package runview

// Tab is the closed set of content panels on a ready page.
type Tab int

const (
	TabOverview Tab = iota
	TabModelCharts
	TabSystemCharts
	TabArtifacts
	TabTraces
	TabCount
)

var tabNames = map[Tab]string{
	TabOverview:     "overview",
	TabModelCharts:  "model-metrics",
	TabSystemCharts: "system-metrics",
	TabArtifacts:    "artifacts",
	TabTraces:       "traces",
}

func (t Tab) String() string {
	if name, ok := tabNames[t]; ok {
		return name
	}
	return "overview"
}

// ParseTab maps a route string to a tab. Unknown strings map to Overview;
// that is the documented fallback, not an error.
func ParseTab(s string) Tab {
	for t, name := range tabNames {
		if name == s {
			return t
		}
	}
	return TabOverview
}

// Flags are the feature toggles that affect tab routing.
type Flags struct {
	TracesEnabled bool
	UnifiedCharts bool
}

// ChartVariant names one of the two interchangeable chart renderers.
type ChartVariant int

const (
	ChartLegacy ChartVariant = iota
	ChartUnified
)

// PlanKind discriminates the render plan.
type PlanKind int

const (
	PlanOverview PlanKind = iota
	PlanCharts
	PlanArtifacts
	PlanTraces
)

// RunContext is the slice of run state a tab render needs.
type RunContext struct {
	RunID       string
	Tags        map[string]string
	ArtifactURI string
}

// Plan is the discriminated render descriptor produced by SelectTab. Only
// the fields relevant to Kind are populated.
type Plan struct {
	Kind    PlanKind
	Variant ChartVariant // PlanCharts
	Keys    []string     // PlanCharts
	Run     RunContext
	Refresh func() // PlanOverview; re-fetch hook for in-place edits
}

// SelectTab maps the requested tab to a render plan. A disabled Traces tab
// and an unrecognized tab take the same default arm, so both degrade to the
// Overview plan.
func SelectTab(requested Tab, flags Flags, keys Partition, run RunContext, refresh func()) Plan {
	variant := ChartLegacy
	if flags.UnifiedCharts {
		variant = ChartUnified
	}

	switch requested {
	case TabModelCharts:
		return Plan{Kind: PlanCharts, Variant: variant, Keys: keys.Model, Run: run}
	case TabSystemCharts:
		return Plan{Kind: PlanCharts, Variant: variant, Keys: keys.System, Run: run}
	case TabArtifacts:
		return Plan{Kind: PlanArtifacts, Run: run}
	case TabTraces:
		if flags.TracesEnabled {
			return Plan{Kind: PlanTraces, Run: run}
		}
	}
	return Plan{Kind: PlanOverview, Run: run, Refresh: refresh}
}
