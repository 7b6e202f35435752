// Package tracking is a read-mostly client for an MLflow-compatible
// experiment-tracking REST API. It covers exactly what the run page needs:
// run and experiment metadata, metric histories, artifact listings, traces,
// and the two mutations (rename, delete) the page can perform.
package tracking

// RunInfo is the identity and lifecycle metadata of a single run.
type RunInfo struct {
	RunID        string `json:"run_id"`
	RunName      string `json:"run_name"`
	ExperimentID string `json:"experiment_id"`
	Status       string `json:"status"`
	StartTime    int64  `json:"start_time"`
	EndTime      int64  `json:"end_time"`
	ArtifactURI  string `json:"artifact_uri"`
}

// Metric is one logged metric point. For /runs/get only the latest point per
// key is returned; full series come from MetricHistory.
type Metric struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
	Step      int64   `json:"step"`
}

// Param is an immutable key/value logged at run start.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RunTag is a mutable key/value annotation on a run.
type RunTag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RunData bundles the logged content of a run.
type RunData struct {
	Metrics []Metric `json:"metrics"`
	Params  []Param  `json:"params"`
	Tags    []RunTag `json:"tags"`
}

// Run is the full payload of /runs/get.
type Run struct {
	Info RunInfo `json:"info"`
	Data RunData `json:"data"`
}

// LatestMetricKeys returns the metric keys of the run in server order.
func (r *Run) LatestMetricKeys() []string {
	keys := make([]string, 0, len(r.Data.Metrics))
	for _, m := range r.Data.Metrics {
		keys = append(keys, m.Key)
	}
	return keys
}

// TagValue returns the value of the named tag, or "" when unset.
func (r *Run) TagValue(key string) string {
	for _, t := range r.Data.Tags {
		if t.Key == key {
			return t.Value
		}
	}
	return ""
}

// Experiment is the payload of /experiments/get.
type Experiment struct {
	ExperimentID     string `json:"experiment_id"`
	Name             string `json:"name"`
	ArtifactLocation string `json:"artifact_location"`
	LifecycleStage   string `json:"lifecycle_stage"`
}

// FileInfo is one entry of an artifact listing.
type FileInfo struct {
	Path     string `json:"path"`
	IsDir    bool   `json:"is_dir"`
	FileSize int64  `json:"file_size"`
}

// ArtifactList is a fully-paginated artifact listing for one directory.
type ArtifactList struct {
	RootURI string     `json:"root_uri"`
	Files   []FileInfo `json:"files"`
}

// Span is one operation inside a trace.
type Span struct {
	SpanID       string `json:"span_id"`
	ParentSpanID string `json:"parent_span_id"`
	Name         string `json:"name"`
	StartTimeNS  int64  `json:"start_time_ns"`
	EndTimeNS    int64  `json:"end_time_ns"`
	Status       string `json:"status"`
}

// Trace is one recorded trace belonging to a run.
type Trace struct {
	TraceID     string `json:"trace_id"`
	TimestampMS int64  `json:"timestamp_ms"`
	DurationMS  int64  `json:"execution_time_ms"`
	Status      string `json:"status"`
	Spans       []Span `json:"spans"`
}
