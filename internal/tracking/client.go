package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang/glog"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	runsGetPath        = "/api/2.0/runs/get"
	runsUpdatePath     = "/api/2.0/runs/update"
	runsDeletePath     = "/api/2.0/runs/delete"
	experimentsGetPath = "/api/2.0/experiments/get"
	artifactsListPath  = "/api/2.0/artifacts/list"
	metricHistoryPath  = "/api/2.0/metrics/get-history"
	tracesListPath     = "/api/2.0/traces"
)

const cacheSize = 256

// Client talks to one tracking server. Artifact listings and metric
// histories are memoized per run until InvalidateRun is called; run and
// experiment metadata are never cached so a refetch always hits the server.
type Client struct {
	http      *resty.Client
	artifacts *lru.Cache[string, *ArtifactList]
	history   *lru.Cache[string, []Metric]
}

// New builds a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	artifacts, _ := lru.New[string, *ArtifactList](cacheSize)
	history, _ := lru.New[string, []Metric](cacheSize)
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		artifacts: artifacts,
		history:   history,
	}
}

// GetRun fetches run metadata plus latest metrics, params and tags.
func (c *Client) GetRun(ctx context.Context, runID string) (*Run, error) {
	var out struct {
		Run Run `json:"run"`
	}
	err := c.get(ctx, runsGetPath, map[string]string{"run_id": runID}, &out)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return &out.Run, nil
}

// GetExperiment fetches experiment metadata.
func (c *Client) GetExperiment(ctx context.Context, experimentID string) (*Experiment, error) {
	var out struct {
		Experiment Experiment `json:"experiment"`
	}
	err := c.get(ctx, experimentsGetPath, map[string]string{"experiment_id": experimentID}, &out)
	if err != nil {
		return nil, fmt.Errorf("get experiment %s: %w", experimentID, err)
	}
	return &out.Experiment, nil
}

// ListArtifacts returns the listing for one directory of the run's artifact
// store, following page tokens until exhausted. Results are cached.
func (c *Client) ListArtifacts(ctx context.Context, runID, path string) (*ArtifactList, error) {
	cacheKey := runID + "\x00" + path
	if list, ok := c.artifacts.Get(cacheKey); ok {
		return list, nil
	}

	list := &ArtifactList{}
	token := ""
	for {
		var page struct {
			RootURI       string     `json:"root_uri"`
			Files         []FileInfo `json:"files"`
			NextPageToken string     `json:"next_page_token"`
		}
		params := map[string]string{"run_id": runID}
		if path != "" {
			params["path"] = path
		}
		if token != "" {
			params["page_token"] = token
		}
		if err := c.get(ctx, artifactsListPath, params, &page); err != nil {
			return nil, fmt.Errorf("list artifacts %s %q: %w", runID, path, err)
		}
		list.RootURI = page.RootURI
		list.Files = append(list.Files, page.Files...)
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	c.artifacts.Add(cacheKey, list)
	return list, nil
}

// MetricHistory returns every logged point for one metric key. Cached.
func (c *Client) MetricHistory(ctx context.Context, runID, key string) ([]Metric, error) {
	cacheKey := runID + "\x00" + key
	if points, ok := c.history.Get(cacheKey); ok {
		return points, nil
	}
	var out struct {
		Metrics []Metric `json:"metrics"`
	}
	err := c.get(ctx, metricHistoryPath, map[string]string{"run_id": runID, "metric_key": key}, &out)
	if err != nil {
		return nil, fmt.Errorf("metric history %s %q: %w", runID, key, err)
	}
	c.history.Add(cacheKey, out.Metrics)
	return out.Metrics, nil
}

// ListTraces returns the traces recorded for a run.
func (c *Client) ListTraces(ctx context.Context, runID string) ([]Trace, error) {
	var out struct {
		Traces []Trace `json:"traces"`
	}
	err := c.get(ctx, tracesListPath, map[string]string{"run_id": runID}, &out)
	if err != nil {
		return nil, fmt.Errorf("list traces %s: %w", runID, err)
	}
	return out.Traces, nil
}

// UpdateRunName renames a run.
func (c *Client) UpdateRunName(ctx context.Context, runID, name string) error {
	body := map[string]string{"run_id": runID, "run_name": name}
	if err := c.post(ctx, runsUpdatePath, body); err != nil {
		return fmt.Errorf("rename run %s: %w", runID, err)
	}
	return nil
}

// DeleteRun marks a run deleted on the server.
func (c *Client) DeleteRun(ctx context.Context, runID string) error {
	body := map[string]string{"run_id": runID}
	if err := c.post(ctx, runsDeletePath, body); err != nil {
		return fmt.Errorf("delete run %s: %w", runID, err)
	}
	return nil
}

// InvalidateRun drops cached listings and histories for a run. Called on
// refetch so user edits are reflected.
func (c *Client) InvalidateRun(runID string) {
	prefix := runID + "\x00"
	for _, k := range c.artifacts.Keys() {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			c.artifacts.Remove(k)
		}
	}
	for _, k := range c.history.Keys() {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			c.history.Remove(k)
		}
	}
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString()).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		glog.Warningf("GET %s failed: %v", path, err)
		return &APIError{Code: CodeTransport, Message: err.Error()}
	}
	return decode(resp, out)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString()).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		glog.Warningf("POST %s failed: %v", path, err)
		return &APIError{Code: CodeTransport, Message: err.Error()}
	}
	return decode(resp, nil)
}

func decode(resp *resty.Response, out any) error {
	if resp.StatusCode() >= 300 {
		apiErr := &APIError{HTTPStatus: resp.StatusCode()}
		if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = CodeTransport
			apiErr.Message = resp.String()
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &APIError{Code: CodeTransport, Message: fmt.Sprintf("decode response: %v", err), HTTPStatus: resp.StatusCode()}
	}
	return nil
}
