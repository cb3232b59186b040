// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DialogueRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialogue_replies_total",
			Help: "Total number of replies generated, by agent type and intent",
		},
		[]string{"agent_type", "intent"},
	)

	DialogueFaultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialogue_faults_total",
			Help: "Total number of respond calls masked by the apology reply",
		},
		[]string{"agent_type"},
	)

	DialogueInterruptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialogue_interrupts_total",
			Help: "Total number of utterances that preempted an assistant turn",
		},
		[]string{"agent_type"},
	)

	DialogueRespondDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dialogue_respond_duration_seconds",
			Help:    "Duration of respond calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"agent_type"},
	)

	DialogueSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dialogue_sessions_active",
			Help: "Number of live conversation sessions",
		},
	)

	TranscriptWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_write_failures_total",
			Help: "Total number of failed transcript archive writes",
		},
		[]string{"sink"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
