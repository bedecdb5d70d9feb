// Package metrics exposes client-side counters for catalog requests and the
// search pipeline.
package metrics

import "time"

// Recorder receives observations from the API client and the search engine.
type Recorder interface {
	IncRequest(endpoint string, status int)
	ObserveRequestDuration(endpoint string, d time.Duration)
	IncRetry(endpoint string)
	IncStaleResult(computation string)
	IncZipFilterTruncation()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncRequest(string, int)                       {}
func (NoopRecorder) ObserveRequestDuration(string, time.Duration) {}
func (NoopRecorder) IncRetry(string)                              {}
func (NoopRecorder) IncStaleResult(string)                        {}
func (NoopRecorder) IncZipFilterTruncation()                      {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
