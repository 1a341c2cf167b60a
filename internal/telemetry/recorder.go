package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call made to a RecorderAPI.
type Report struct {
	Kind   string
	ID     string
	Params []any
}

// RecorderAPI is an API that keeps every report in memory, it is meant for tests
// that need to assert a component reported (or did not report) a failure.
type RecorderAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *RecorderAPI) record(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *RecorderAPI) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
}

func (r *RecorderAPI) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
}

func (r *RecorderAPI) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
}

func (r *RecorderAPI) ReportCount(id string, count int64) {
	r.record("count", id, []any{count})
}

// Reports returns a copy of the reports of the given kind.
func (r *RecorderAPI) Reports(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// Broken reports whether a broken report with an id ending in `suffix` was recorded.
func (r *RecorderAPI) Broken(suffix string) bool {
	for _, report := range r.Reports("broken") {
		if strings.HasSuffix(report.ID, suffix) {
			return true
		}
	}
	return false
}
