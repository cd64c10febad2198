// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/metrics"
	"spa-registry/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// ExecuteFunc is the business step behind a task type.
type ExecuteFunc[I any, O any] func(ctx context.Context, input *I) (*O, error)

// JobRunner decodes job variables into I, runs the task under a timeout and
// completes the job with O. Failures go through the shared ErrorHandler.
type JobRunner[I any, O any] struct {
	taskType string
	timeout  time.Duration
	exec     ExecuteFunc[I, O]
	logger   logger.Logger
	errors   *apperrors.ErrorHandler
	obs      *observability.Observability
}

func NewJobRunner[I any, O any](
	taskType string,
	timeout time.Duration,
	exec ExecuteFunc[I, O],
	log logger.Logger,
	obs *observability.Observability,
) *JobRunner[I, O] {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	l := log.WithFields(map[string]interface{}{"taskType": taskType})
	return &JobRunner[I, O]{
		taskType: taskType,
		timeout:  timeout,
		exec:     exec,
		logger:   l,
		errors:   apperrors.NewErrorHandler(l),
		obs:      obs,
	}
}

// TaskType returns the job type this runner serves.
func (r *JobRunner[I, O]) TaskType() string {
	return r.taskType
}

// Run decodes variables and executes the task. Blank variables decode as an empty input.
func (r *JobRunner[I, O]) Run(ctx context.Context, variables string) (*O, error) {
	var input I
	if strings.TrimSpace(variables) != "" {
		if err := json.Unmarshal([]byte(variables), &input); err != nil {
			return nil, apperrors.NewParseError(err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.exec(ctx, &input)
}

// Handle satisfies worker.JobHandler.
func (r *JobRunner[I, O]) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx := context.Background()
	output, err := r.Run(ctx, job.Variables)
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(time.Since(start).Seconds())

	if err != nil {
		code := string(apperrors.CodeOf(err))
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, code).Inc()
		r.obs.RecordJobProcessed(ctx, r.taskType, "failed")
		r.obs.RecordJobDuration(ctx, r.taskType, time.Since(start), "failed")
		r.errors.HandleJobError(ctx, client, job, err)
		return
	}

	r.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	r.obs.RecordJobProcessed(ctx, r.taskType, "completed")
	r.obs.RecordJobDuration(ctx, r.taskType, time.Since(start), "completed")
}

func (r *JobRunner[I, O]) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *O) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return
	}
	r.logger.Info("job completed", map[string]interface{}{"jobKey": job.Key})
}

// Handler is what every worker package exposes to the manager.
type Handler interface {
	TaskType() string
	Handle(client worker.JobClient, job entities.Job)
}

// StartWorker opens a job worker for h.
func StartWorker(client zbc.Client, h Handler, maxJobsActive int, timeout time.Duration) worker.JobWorker {
	return client.NewJobWorker().
		JobType(h.TaskType()).
		Handler(h.Handle).
		MaxJobsActive(maxJobsActive).
		Timeout(timeout).
		Open()
}
