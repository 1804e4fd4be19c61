package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements the usecase metrics port on prometheus.
type Recorder struct {
	uploads        *prometheus.CounterVec
	uploadFailures *prometheus.CounterVec
	uploadDuration prometheus.Histogram
	votes          *prometheus.CounterVec
	cacheRequests  *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	m := &Recorder{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "video_api",
			Name:      "uploads_total",
			Help:      "Total accepted video uploads by resulting status.",
		}, []string{"status"}),
		uploadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "video_api",
			Name:      "upload_failures_total",
			Help:      "Total failed uploads by pipeline stage.",
		}, []string{"stage"}),
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "video_api",
			Name:      "upload_duration_seconds",
			Help:      "End-to-end duration of the upload pipeline.",
			Buckets:   prometheus.DefBuckets,
		}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "video_api",
			Name:      "votes_total",
			Help:      "Total vote attempts by result.",
		}, []string{"result"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "video_api",
			Name:      "cache_requests_total",
			Help:      "Ranking cache lookups by view and result.",
		}, []string{"view", "result"}),
	}

	reg.MustRegister(m.uploads, m.uploadFailures, m.uploadDuration, m.votes, m.cacheRequests)
	return m
}

func (m *Recorder) IncUpload(status string) {
	m.uploads.WithLabelValues(status).Inc()
}

func (m *Recorder) IncUploadFailure(stage string) {
	m.uploadFailures.WithLabelValues(stage).Inc()
}

func (m *Recorder) ObserveUploadDuration(d time.Duration) {
	m.uploadDuration.Observe(d.Seconds())
}

func (m *Recorder) IncVote(result string) {
	m.votes.WithLabelValues(result).Inc()
}

func (m *Recorder) IncCacheRequest(view, result string) {
	m.cacheRequests.WithLabelValues(view, result).Inc()
}
