package telemetry

// API is where components send what went wrong and what they counted. Tests swap in a
// RecorderAPI to assert on it.
type API interface {
	// ReportBroken reports a failure that needs a fix (a changed response format, a
	// misconfigured client).
	//
	// `id` names the reporting operation, lowercase, dots between a component and its
	// method and dashes inside a name: `client.fetch-invite`. Errors and inputs go into
	// params.
	ReportBroken(id string, params ...any)

	// ReportWarning reports an expected failure of one call (an unreachable page, a
	// non-200 status). It uses the same ids as ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug reports per-request detail that is only logged under --verbose.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the size of something at this moment (links on a result page,
	// invites resolved by a run). Counts are samples, not increments.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with `<namespace>:` before passing the report on, each
// scraper client scopes the API it is given with its own name.
type ScopedAPI struct {
	prefix string
	inner  API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{prefix: namespace + ":", inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.prefix+id, params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.prefix+id, params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.prefix+msg, params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.prefix+id, count)
}
