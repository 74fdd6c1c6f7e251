package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/taskflow/internal/errors"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("failed to encode response", "error", err.Error())
	}
}

// asTaskflowError finds the structured error in err's chain. Anything else
// is a server fault.
func asTaskflowError(err error) *errors.TaskflowError {
	var tfErr *errors.TaskflowError
	if stderrors.As(err, &tfErr) {
		return tfErr
	}
	return errors.NewInternalError(err)
}

// writeError logs and counts err and writes it as {code, error}. Server
// faults are reported with a generic message.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	tfErr := asTaskflowError(err)
	status := errors.HTTPStatus(tfErr)
	ctx := r.Context()

	a.metrics.RecordError(string(tfErr.Code))

	message := tfErr.Message
	if status >= http.StatusInternalServerError {
		a.logger.LogErrorContext(ctx, tfErr)
		message = "internal server error"
	} else {
		a.logger.WithContext(ctx).WithError(tfErr).DebugContext(ctx, "request rejected", "status", status)
	}

	a.writeJSON(w, status, errorBody{Code: string(tfErr.Code), Error: message})
}

// decodeJSON reads a JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.NewBadRequestError(fmt.Errorf("empty body"))
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewBadRequestError(err)
	}
	return nil
}
