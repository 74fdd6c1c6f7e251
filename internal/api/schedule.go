package api

import (
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/zeebo/blake3"
	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/metrics"
	"github.com/felixgeelhaar/taskflow/internal/scheduler"
	"github.com/felixgeelhaar/taskflow/internal/telemetry"
)

// handleSchedule orders the submitted tasks so that every task comes after
// its dependencies. Stored tasks are neither read nor written.
func (a *API) handleSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := r.PathValue("projectId")

	owned, err := a.store.ProjectOwnedBy(ctx, claims(r).UserID(), projectID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if !owned {
		a.writeError(w, r, errors.NewForbiddenError("project"))
		return
	}

	var req scheduler.Request
	if err := decodeJSON(r, &req); err != nil {
		a.metrics.RecordSchedule(metrics.OutcomeInvalid, 0, 0)
		a.writeScheduleError(w, r, err)
		return
	}
	if err := scheduler.Validate(req.Tasks); err != nil {
		a.metrics.RecordSchedule(metrics.OutcomeInvalid, len(req.Tasks), 0)
		a.writeScheduleError(w, r, errors.Wrap(errors.ErrCodeScheduleInvalid, err.Error(), err))
		return
	}

	if dangling := scheduler.DanglingReferences(req.Tasks); len(dangling) > 0 {
		a.logger.WithContext(ctx).DebugContext(ctx, "ignoring dependencies on unknown tasks",
			"project_id", projectID, "count", len(dangling))
	}

	_, span := telemetry.StartResolveSpan(ctx, req.Tasks)
	start := time.Now()
	schedule, err := scheduler.Resolve(req.Tasks)
	elapsed := time.Since(start)

	if err != nil {
		telemetry.RecordError(span, err)
		span.End()

		outcome := metrics.OutcomeInvalid
		var tfErr *errors.TaskflowError
		var dup *scheduler.DuplicateTaskError
		switch {
		case scheduler.IsCycle(err):
			outcome = metrics.OutcomeCycle
			tfErr = errors.NewCycleDetectedError(err)
		case stderrors.As(err, &dup):
			tfErr = errors.NewDuplicateTaskError(dup.ID)
		default:
			tfErr = errors.NewScheduleInvalidError(err)
		}
		a.metrics.RecordSchedule(outcome, len(req.Tasks), elapsed)
		a.writeScheduleError(w, r, tfErr)
		return
	}

	telemetry.RecordSuccess(span, attribute.Int("taskflow.ordered", len(schedule.Order)))
	span.End()
	a.metrics.RecordSchedule(metrics.OutcomeOK, len(req.Tasks), elapsed)

	order := schedule.Order
	if order == nil {
		order = []string{}
	}
	w.Header().Set("ETag", orderETag(order))
	a.writeJSON(w, http.StatusOK, scheduleResponse{RecommendedOrder: order})
}

// writeScheduleError writes err in the schedule response shape.
func (a *API) writeScheduleError(w http.ResponseWriter, r *http.Request, err error) {
	tfErr := asTaskflowError(err)
	status := errors.HTTPStatus(tfErr)
	ctx := r.Context()

	a.metrics.RecordError(string(tfErr.Code))

	message := tfErr.Message
	if status >= http.StatusInternalServerError {
		a.logger.LogErrorContext(ctx, tfErr)
		message = "internal server error"
	} else {
		a.logger.WithContext(ctx).WithError(tfErr).DebugContext(ctx, "schedule rejected", "status", status)
	}

	a.writeJSON(w, status, scheduleResponse{RecommendedOrder: []string{}, Error: message})
}

// orderETag is a strong validator over the ordered titles.
func orderETag(order []string) string {
	data, _ := json.Marshal(order)
	sum := blake3.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
