package handler

import (
	"fmt"
	"net/http"

	"github.com/snipurl/snipurl/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "snipurl_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "snipurl_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "snipurl_logins_total{status=\"failure\"} %d\n", snap.LoginsFailed)

	writeMetric(w, "snipurl_short_urls_created_total %d\n", snap.URLsCreated)
	writeMetric(w, "snipurl_short_urls_rejected_total %d\n", snap.URLsRejected)
	writeMetric(w, "snipurl_short_url_status_changes_total %d\n", snap.URLStatusChanges)

	writeMetric(w, "snipurl_redirects_total{result=\"resolved\"} %d\n", snap.RedirectsResolved)
	writeMetric(w, "snipurl_redirects_total{result=\"missed\"} %d\n", snap.RedirectsMissed)
	writeMetric(w, "snipurl_redirect_duration_seconds_count %d\n", snap.RedirectDurationCount)
	writeMetric(w, "snipurl_redirect_duration_seconds_sum %.6f\n", float64(snap.RedirectDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
