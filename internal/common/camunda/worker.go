package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"voice-agent/internal/common/config"
	"voice-agent/internal/common/errors"
	"voice-agent/internal/common/logger"
	"voice-agent/internal/common/metrics"
	"voice-agent/internal/common/observability"
)

// ExecuteFunc runs one job from its raw variables and returns the variables to complete it with.
type ExecuteFunc func(ctx context.Context, variables string) (interface{}, error)

// JobRunner holds what every dialogue worker does around its execute step:
// timeout, span, metrics, completion and error handling.
type JobRunner struct {
	TaskType string
	Timeout  time.Duration
	Logger   logger.Logger
	Obs      *observability.Observability
	Errors   *errors.ErrorHandler
}

func NewJobRunner(taskType string, timeout time.Duration, log logger.Logger, obs *observability.Observability) *JobRunner {
	if obs == nil {
		obs = observability.NewNoop()
	}
	log = log.With(map[string]interface{}{"taskType": taskType})
	return &JobRunner{
		TaskType: taskType,
		Timeout:  timeout,
		Logger:   log,
		Obs:      obs,
		Errors:   errors.NewErrorHandler(log),
	}
}

func (r *JobRunner) Run(client worker.JobClient, job entities.Job, execute ExecuteFunc) {
	start := time.Now()
	r.Logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	ctx, span := r.Obs.StartSpan(ctx, r.TaskType,
		attribute.Int64("job.key", job.Key),
		attribute.Int64("job.process_instance_key", job.ProcessInstanceKey),
	)
	defer span.End()

	output, err := execute(ctx, job.Variables)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.fail(ctx, client, job, err, start)
		return
	}

	r.complete(ctx, client, job, output, start)
}

func (r *JobRunner) complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.fail(ctx, client, job, errors.NewInvalidJobInputError("encode output: "+err.Error()), start)
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		r.Logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	r.record(ctx, "completed", start)
	metrics.WorkerJobsCompleted.WithLabelValues(r.TaskType).Inc()
	r.Logger.Info("job completed", map[string]interface{}{
		"jobKey":   job.Key,
		"duration": time.Since(start).String(),
	})
}

func (r *JobRunner) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(r.TaskType, string(stdErr.Code)).Inc()
	r.record(ctx, "failed", start)
	r.Errors.HandleJobError(context.Background(), client, job, stdErr)
}

func (r *JobRunner) record(ctx context.Context, status string, start time.Time) {
	d := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(r.TaskType).Observe(d.Seconds())
	r.Obs.RecordJobProcessed(ctx, r.TaskType, status)
	r.Obs.RecordJobDuration(ctx, r.TaskType, d, status)
}

// Register opens a job worker for taskType unless it is disabled.
func Register(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	w := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return w
}
