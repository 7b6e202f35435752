// Package tui renders one run page: it reconciles the two concurrent
// metadata fetches into a display mode, shows the active tab when the page
// is ready, and owns the rename/delete modal flows.
package tui

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/glog"

	"github.com/jask/runboard/internal/config"
	"github.com/jask/runboard/internal/runview"
	"github.com/jask/runboard/internal/tracking"
)

const appName = "Runboard"

// App is the Bubble Tea model for a single run page. The route identity is
// fixed for the App's lifetime; viewing another run is a new App.
type App struct {
	ctx    context.Context
	cfg    config.Config
	client *tracking.Client

	id       runview.Identity
	gen      int
	resolver *runview.Resolver
	flags    runview.Flags

	runOutcome runview.Outcome
	expOutcome runview.Outcome
	run        *tracking.Run
	experiment *tracking.Experiment
	partition  runview.Partition

	activeTab runview.Tab
	width     int
	height    int
	spin      spinner.Model
	status    string
	statusErr bool

	refreshRequested bool

	// chart tabs
	histories      map[string][]tracking.Metric
	historyFailed  map[string]bool
	historyPending map[string]bool
	chartScroll    int
	filterActive  bool
	filterInput   textinput.Model
	filterQuery   string

	// artifacts tab
	artPath    string
	artList    *tracking.ArtifactList
	artCursor  int
	artLoading bool

	// traces tab
	traces       []tracking.Trace
	tracesLoaded bool
	traceCursor  int

	// modals — owned here, nothing else opens or closes them
	renameOpen  bool
	deleteOpen  bool
	renameInput textinput.Model

	quitting bool
	farewell string
}

// New builds the page model. Both identity fields are required; an empty one
// is an integration bug upstream, not a renderable state.
func New(ctx context.Context, cfg config.Config, client *tracking.Client, id runview.Identity, initialTab runview.Tab) *App {
	if id.RunID == "" || id.ExperimentID == "" {
		panic("tui: run id and experiment id are required")
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipglossSpinnerStyle

	rename := textinput.New()
	rename.CharLimit = 250
	rename.Width = 40

	filter := textinput.New()
	filter.Placeholder = "filter metrics"
	filter.CharLimit = 100
	filter.Width = 30

	return &App{
		ctx:      ctx,
		cfg:      cfg,
		client:   client,
		id:       id,
		resolver: runview.NewResolver(),
		flags: runview.Flags{
			TracesEnabled: cfg.Features.Traces,
			UnifiedCharts: cfg.Features.UnifiedCharts,
		},
		activeTab:     initialTab,
		spin:          sp,
		renameInput:   rename,
		filterInput:   filter,
		histories:      make(map[string][]tracking.Metric),
		historyFailed:  make(map[string]bool),
		historyPending: make(map[string]bool),
		width:         100,
		height:        32,
	}
}

// Init issues both fetches concurrently.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.fetchRun(), a.fetchExperiment())
}

// ---------------------------------------------------------------------------
// Fetch commands
// ---------------------------------------------------------------------------

func (a *App) fetchRun() tea.Cmd {
	gen := a.gen
	runID := a.id.RunID
	return func() tea.Msg {
		run, err := a.client.GetRun(a.ctx, runID)
		return runFetchedMsg{gen: gen, run: run, err: err}
	}
}

func (a *App) fetchExperiment() tea.Cmd {
	gen := a.gen
	expID := a.id.ExperimentID
	return func() tea.Msg {
		exp, err := a.client.GetExperiment(a.ctx, expID)
		return experimentFetchedMsg{gen: gen, exp: exp, err: err}
	}
}

func (a *App) fetchArtifacts(dir string) tea.Cmd {
	gen := a.gen
	runID := a.id.RunID
	return func() tea.Msg {
		list, err := a.client.ListArtifacts(a.ctx, runID, dir)
		return artifactsMsg{gen: gen, path: dir, list: list, err: err}
	}
}

func (a *App) fetchHistory(key string) tea.Cmd {
	gen := a.gen
	runID := a.id.RunID
	return func() tea.Msg {
		points, err := a.client.MetricHistory(a.ctx, runID, key)
		return historyMsg{gen: gen, key: key, points: points, err: err}
	}
}

func (a *App) fetchTraces() tea.Cmd {
	gen := a.gen
	runID := a.id.RunID
	return func() tea.Msg {
		traces, err := a.client.ListTraces(a.ctx, runID)
		return tracesMsg{gen: gen, traces: traces, err: err}
	}
}

func (a *App) renameCmd(name string) tea.Cmd {
	gen := a.gen
	runID := a.id.RunID
	return func() tea.Msg {
		return renameDoneMsg{gen: gen, err: a.client.UpdateRunName(a.ctx, runID, name)}
	}
}

func (a *App) deleteCmd() tea.Cmd {
	gen := a.gen
	runID := a.id.RunID
	return func() tea.Msg {
		return deleteDoneMsg{gen: gen, err: a.client.DeleteRun(a.ctx, runID)}
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		if a.mode() != runview.InitialLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case runFetchedMsg:
		return a.handleRunFetched(msg)
	case experimentFetchedMsg:
		return a.handleExperimentFetched(msg)
	case artifactsMsg:
		return a.handleArtifacts(msg)
	case historyMsg:
		return a.handleHistory(msg)
	case tracesMsg:
		return a.handleTraces(msg)
	case renameDoneMsg:
		return a.handleRenameDone(msg)
	case deleteDoneMsg:
		return a.handleDeleteDone(msg)

	case tea.KeyMsg:
		if a.renameOpen {
			return a.handleRenameKey(msg)
		}
		if a.deleteOpen {
			return a.handleDeleteKey(msg)
		}
		if a.filterActive {
			return a.handleFilterKey(msg)
		}
		return a.handleMainKey(msg)
	}
	return a, nil
}

func (a *App) mode() runview.DisplayMode {
	return a.resolver.Resolve(a.runOutcome, a.expOutcome)
}

// ---------------------------------------------------------------------------
// Fetch-message handlers. Each starts with the generation guard: a stale
// completion for a superseded wave never mutates current state.
// ---------------------------------------------------------------------------

func (a *App) handleRunFetched(msg runFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	if msg.err != nil {
		// the page itself stays quiet about generic failures; the detail
		// goes to the log
		glog.Errorf("run %s fetch: %v", a.id.RunID, msg.err)
		a.runOutcome = runview.Outcome{Phase: runview.Failed, Err: classify(msg.err)}
		return a, nil
	}
	a.run = msg.run
	a.runOutcome = runview.Outcome{Phase: runview.Succeeded}
	a.partition = runview.PartitionKeys(msg.run.LatestMetricKeys())
	return a, a.tabDataCmd()
}

func (a *App) handleExperimentFetched(msg experimentFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	if msg.err != nil {
		glog.Errorf("experiment %s fetch: %v", a.id.ExperimentID, msg.err)
		a.expOutcome = runview.Outcome{Phase: runview.Failed, Err: classify(msg.err)}
		return a, nil
	}
	a.experiment = msg.exp
	a.expOutcome = runview.Outcome{Phase: runview.Succeeded}
	return a, nil
}

func (a *App) handleArtifacts(msg artifactsMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen || msg.path != a.artPath {
		return a, nil
	}
	a.artLoading = false
	if msg.err != nil {
		glog.Errorf("artifacts %s %q: %v", a.id.RunID, msg.path, msg.err)
		a.setError(fmt.Errorf("artifact listing failed"))
		return a, nil
	}
	a.artList = msg.list
	if a.artCursor >= len(msg.list.Files) {
		a.artCursor = 0
	}
	return a, nil
}

func (a *App) handleHistory(msg historyMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	delete(a.historyPending, msg.key)
	if msg.err != nil {
		glog.Errorf("history %s %q: %v", a.id.RunID, msg.key, msg.err)
		a.historyFailed[msg.key] = true
		return a, nil
	}
	a.histories[msg.key] = msg.points
	return a, nil
}

func (a *App) handleTraces(msg tracesMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	if msg.err != nil {
		glog.Errorf("traces %s: %v", a.id.RunID, msg.err)
		a.setError(fmt.Errorf("trace listing failed"))
		return a, nil
	}
	a.traces = msg.traces
	a.tracesLoaded = true
	if a.traceCursor >= len(msg.traces) {
		a.traceCursor = 0
	}
	return a, nil
}

func (a *App) handleRenameDone(msg renameDoneMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	if msg.err != nil {
		glog.Errorf("rename %s: %v", a.id.RunID, msg.err)
		a.setError(fmt.Errorf("rename failed"))
		return a, nil
	}
	a.renameOpen = false
	a.setStatus("Run renamed.")
	// rename edits the run in place; refresh rather than navigate
	a.requestRefresh()
	return a, a.consumeRefresh()
}

func (a *App) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	if msg.err != nil {
		glog.Errorf("delete %s: %v", a.id.RunID, msg.err)
		a.deleteOpen = false
		a.setError(fmt.Errorf("delete failed"))
		return a, nil
	}
	// leaving the run page; hand the user the parent experiment's address
	a.quitting = true
	a.farewell = fmt.Sprintf("Run %s deleted. Experiment: %s", a.id.RunID, a.ExperimentPath())
	return a, tea.Quit
}

// ExperimentPath is the parent experiment's page path, the navigation target
// after a successful delete.
func (a *App) ExperimentPath() string {
	return fmt.Sprintf("%s/#/experiments/%s", a.cfg.Server.URL, a.id.ExperimentID)
}

// ---------------------------------------------------------------------------
// Key handling
// ---------------------------------------------------------------------------

func (a *App) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := a.mode()

	switch msg.String() {
	case "q", "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	}

	// not-found, error and loading views are terminal apart from quit
	if mode != runview.Ready {
		return a, nil
	}

	switch msg.String() {
	case "tab":
		a.activeTab = (a.activeTab + 1) % runview.TabCount
		a.chartScroll = 0
		return a, a.tabDataCmd()
	case "shift+tab":
		a.activeTab = (a.activeTab - 1 + runview.TabCount) % runview.TabCount
		a.chartScroll = 0
		return a, a.tabDataCmd()
	case "1", "2", "3", "4", "5":
		n, _ := strconv.Atoi(msg.String())
		a.activeTab = runview.Tab(n - 1)
		a.chartScroll = 0
		return a, a.tabDataCmd()
	case "r":
		a.renameOpen = true
		a.renameInput.SetValue(a.runName())
		a.renameInput.CursorEnd()
		return a, a.renameInput.Focus()
	case "x":
		a.deleteOpen = true
		return a, nil
	case "R":
		// overview's plan carries this same hook for edit-driven refreshes
		if plan := a.currentPlan(); plan.Refresh != nil {
			plan.Refresh()
		} else {
			a.requestRefresh()
		}
		return a, a.consumeRefresh()
	case "/":
		if a.currentPlan().Kind == runview.PlanCharts {
			a.filterActive = true
			a.filterInput.SetValue(a.filterQuery)
			a.filterInput.CursorEnd()
			return a, a.filterInput.Focus()
		}
		return a, nil
	}

	switch a.currentPlan().Kind {
	case runview.PlanCharts:
		return a.handleChartsKey(msg)
	case runview.PlanArtifacts:
		return a.handleArtifactsKey(msg)
	case runview.PlanTraces:
		return a.handleTracesKey(msg)
	}
	return a, nil
}

// ---------------------------------------------------------------------------
// Derivations and refresh plumbing
// ---------------------------------------------------------------------------

// currentPlan recomputes the tab routing decision from current state. Plans
// are never cached across updates.
func (a *App) currentPlan() runview.Plan {
	return runview.SelectTab(a.activeTab, a.flags, a.visiblePartition(), a.runContext(), a.requestRefresh)
}

// visiblePartition applies the metric filter on top of the model/system
// partition.
func (a *App) visiblePartition() runview.Partition {
	if a.filterQuery == "" {
		return a.partition
	}
	return runview.Partition{
		Model:  runview.RankKeys(a.filterQuery, a.partition.Model),
		System: runview.RankKeys(a.filterQuery, a.partition.System),
	}
}

func (a *App) runContext() runview.RunContext {
	rc := runview.RunContext{RunID: a.id.RunID}
	if a.run != nil {
		rc.ArtifactURI = a.run.Info.ArtifactURI
		rc.Tags = make(map[string]string, len(a.run.Data.Tags))
		for _, t := range a.run.Data.Tags {
			rc.Tags[t.Key] = t.Value
		}
	}
	return rc
}

func (a *App) requestRefresh() {
	a.refreshRequested = true
}

// consumeRefresh turns a requested refresh into the actual re-fetch wave:
// new generation, both outcomes back in flight, caches invalidated. The
// resolver keeps the page on its current content while the wave is out.
func (a *App) consumeRefresh() tea.Cmd {
	if !a.refreshRequested {
		return nil
	}
	a.refreshRequested = false
	a.gen++
	a.runOutcome = runview.Outcome{Phase: runview.Pending}
	a.expOutcome = runview.Outcome{Phase: runview.Pending}
	a.client.InvalidateRun(a.id.RunID)
	a.histories = make(map[string][]tracking.Metric)
	a.historyFailed = make(map[string]bool)
	a.historyPending = make(map[string]bool)
	a.artList = nil
	a.tracesLoaded = false
	return tea.Batch(a.fetchRun(), a.fetchExperiment())
}

// tabDataCmd issues whatever the active tab still needs. Safe to call on
// every tab switch; already-loaded data is not re-fetched.
func (a *App) tabDataCmd() tea.Cmd {
	plan := a.currentPlan()
	switch plan.Kind {
	case runview.PlanCharts:
		// the budget caps new fetches per wave, not total keys walked, and
		// the walk starts at the scroll position so a fully-cached prefix
		// never starves the keys below it
		keys := plan.Keys
		start := a.chartScroll
		if start >= len(keys) {
			start = 0
		}
		var cmds []tea.Cmd
		budget := a.cfg.UI.MaxChartSeries
		for _, key := range keys[start:] {
			if budget <= 0 {
				break
			}
			if _, ok := a.histories[key]; ok || a.historyFailed[key] || a.historyPending[key] {
				continue
			}
			budget--
			a.historyPending[key] = true
			cmds = append(cmds, a.fetchHistory(key))
		}
		return tea.Batch(cmds...)
	case runview.PlanArtifacts:
		// no artifact root is a displayable empty state; nothing to fetch
		if plan.Run.ArtifactURI == "" || a.artList != nil || a.artLoading {
			return nil
		}
		a.artLoading = true
		return a.fetchArtifacts(a.artPath)
	case runview.PlanTraces:
		if a.tracesLoaded {
			return nil
		}
		return a.fetchTraces()
	}
	return nil
}

func (a *App) runName() string {
	if a.run == nil {
		return ""
	}
	if a.run.Info.RunName != "" {
		return a.run.Info.RunName
	}
	return a.run.Info.RunID
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(err error) {
	a.status = err.Error()
	a.statusErr = true
}

// classify maps a fetch error to the resolver's error kinds.
func classify(err error) runview.ErrorKind {
	if tracking.IsNotFound(err) {
		return runview.ErrNotFound
	}
	return runview.ErrOther
}

// parentDir returns the artifact path one level up, "" at the root.
func parentDir(p string) string {
	parent := path.Dir(p)
	if parent == "." || parent == "/" {
		return ""
	}
	return parent
}
