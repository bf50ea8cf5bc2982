package metrics

import "github.com/prometheus/client_golang/prometheus"

// ScanMetrics counts candidates and webhook dispatch outcomes per scan kind.
type ScanMetrics struct {
	candidates      *prometheus.CounterVec
	dispatchSuccess *prometheus.CounterVec
	dispatchFailure *prometheus.CounterVec
	tenantsSkipped  *prometheus.CounterVec
}

// NewScanMetrics registers the scan cycle metrics on the provided registerer.
func NewScanMetrics(reg prometheus.Registerer) *ScanMetrics {
	if reg == nil {
		return &ScanMetrics{}
	}
	candidates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prazos",
		Name:      "scan_candidates_total",
		Help:      "Notification candidates produced by deadline scans.",
	}, []string{"scan"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prazos",
		Name:      "scan_dispatch_success_total",
		Help:      "Webhook dispatches that returned 2xx.",
	}, []string{"scan"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prazos",
		Name:      "scan_dispatch_failure_total",
		Help:      "Webhook dispatches that failed or returned non-2xx.",
	}, []string{"scan"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prazos",
		Name:      "scan_tenants_skipped_total",
		Help:      "Tenants skipped due to per-tenant fetch failures.",
	}, []string{"scan"})
	reg.MustRegister(candidates, success, failure, skipped)
	return &ScanMetrics{
		candidates:      candidates,
		dispatchSuccess: success,
		dispatchFailure: failure,
		tenantsSkipped:  skipped,
	}
}

// IncCandidates adds produced candidates for the named scan.
func (s *ScanMetrics) IncCandidates(scan string, n int) {
	if s == nil || s.candidates == nil || n <= 0 {
		return
	}
	s.candidates.WithLabelValues(normalizeLabel(scan)).Add(float64(n))
}

// IncDispatchSuccess increments the dispatch success counter.
func (s *ScanMetrics) IncDispatchSuccess(scan string) {
	if s == nil || s.dispatchSuccess == nil {
		return
	}
	s.dispatchSuccess.WithLabelValues(normalizeLabel(scan)).Inc()
}

// IncDispatchFailure increments the dispatch failure counter.
func (s *ScanMetrics) IncDispatchFailure(scan string) {
	if s == nil || s.dispatchFailure == nil {
		return
	}
	s.dispatchFailure.WithLabelValues(normalizeLabel(scan)).Inc()
}

// IncTenantsSkipped increments the skipped-tenant counter.
func (s *ScanMetrics) IncTenantsSkipped(scan string) {
	if s == nil || s.tenantsSkipped == nil {
		return
	}
	s.tenantsSkipped.WithLabelValues(normalizeLabel(scan)).Inc()
}
