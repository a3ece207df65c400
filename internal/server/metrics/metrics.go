// Package metrics records file-access counters for Prometheus.
//
// Services take a Recorder; pass NewNoop() when metrics are disabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Download sources.
const (
	SourceOwner = "owner"
	SourceToken = "token"
)

// Recorder receives one call per completed core operation. outcome is a
// short label such as "ok", "forbidden" or "error".
type Recorder interface {
	Upload(outcome string, sizeBytes int64)
	Download(source, outcome string)
	Remove(outcome string)
	ShareLink(action, outcome string)
}

type promRecorder struct {
	uploads       *prometheus.CounterVec
	uploadedBytes prometheus.Counter
	downloads     *prometheus.CounterVec
	removals      *prometheus.CounterVec
	shareLinks    *prometheus.CounterVec
}

// NewPrometheus registers the filevault collectors on reg.
func NewPrometheus(reg prometheus.Registerer) Recorder {
	f := promauto.With(reg)
	return &promRecorder{
		uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "filevault_uploads_total",
			Help: "Upload attempts by outcome",
		}, []string{"outcome"}),
		uploadedBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "filevault_uploaded_bytes_total",
			Help: "Bytes accepted by successful uploads",
		}),
		downloads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "filevault_downloads_total",
			Help: "Download attempts by source (owner or token) and outcome",
		}, []string{"source", "outcome"}),
		removals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "filevault_removals_total",
			Help: "Remove attempts by outcome",
		}, []string{"outcome"}),
		shareLinks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "filevault_share_links_total",
			Help: "Share link operations by action and outcome",
		}, []string{"action", "outcome"}),
	}
}

func (m *promRecorder) Upload(outcome string, sizeBytes int64) {
	m.uploads.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.uploadedBytes.Add(float64(sizeBytes))
	}
}

func (m *promRecorder) Download(source, outcome string) {
	m.downloads.WithLabelValues(source, outcome).Inc()
}

func (m *promRecorder) Remove(outcome string) {
	m.removals.WithLabelValues(outcome).Inc()
}

func (m *promRecorder) ShareLink(action, outcome string) {
	m.shareLinks.WithLabelValues(action, outcome).Inc()
}

type noop struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() Recorder { return noop{} }

func (noop) Upload(string, int64) {}
func (noop) Download(string, string) {}
func (noop) Remove(string) {}
func (noop) ShareLink(string, string) {}
