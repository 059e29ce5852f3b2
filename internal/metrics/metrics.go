package metrics

import (
	"sync"
	"time"
)

type jobStats struct {
	runs         int
	errors       int
	lastDuration time.Duration
}

// Recorder keeps in-memory counters and forwards to OpenTelemetry when configured.
type Recorder struct {
	mu          sync.Mutex
	predictions map[string]int
	jobs        map[string]*jobStats
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		predictions: make(map[string]int),
		jobs:        make(map[string]*jobStats),
		otel:        otel,
	}
}

// RecordPrediction counts a submission by outcome.
func (r *Recorder) RecordPrediction(outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.predictions[outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordPrediction(outcome, duration)
	}
}

// Predictions returns how many submissions ended with outcome.
func (r *Recorder) Predictions(outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.predictions[outcome]
}

// RecordJobRun tracks a scheduled job execution.
func (r *Recorder) RecordJobRun(job string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats, ok := r.jobs[job]
	if !ok {
		stats = &jobStats{}
		r.jobs[job] = stats
	}
	stats.runs++
	stats.lastDuration = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordJob(job, duration, err)
	}
}

// JobStats is a copy of the stats for one job.
type JobStats struct {
	Runs         int
	Errors       int
	LastDuration time.Duration
}

// Job returns the stats recorded for job.
func (r *Recorder) Job(job string) JobStats {
	if r == nil {
		return JobStats{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.jobs[job]
	if !ok {
		return JobStats{}
	}
	return JobStats{Runs: stats.runs, Errors: stats.errors, LastDuration: stats.lastDuration}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks client refresh cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	r.RecordJobRun(JobRefresh, duration, err)
}

// Job names.
const (
	JobRefresh  = "refresh"
	JobSnapshot = "snapshot"
)
