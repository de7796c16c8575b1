package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/municipio/backoffice/internal/domain/order"
	"github.com/municipio/backoffice/internal/domain/shared"
)

// decode reads the request body as JSON into v. The body is capped at 1 MiB.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &shared.ValidationError{Field: "body", Msg: "is not valid JSON: " + err.Error()}
	}
	return nil
}

// respond writes a JSON response built by fn with the given status code.
func respond(w http.ResponseWriter, status int, fn func(e *jx.Encoder)) {
	var e jx.Encoder
	fn(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// respondError maps a domain error to an HTTP status and JSON body.
// Unrecognized errors are logged and reported as 500 without detail.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	var (
		validationErr *shared.ValidationError
		notFoundErr   *shared.NotFoundError
		conflictErr   *shared.ConflictError
		immutableErr  *order.ImmutableStateError
		transitionErr *order.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validationErr):
		status, msg = http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &notFoundErr):
		status, msg = http.StatusNotFound, notFoundErr.Error()
	case errors.As(err, &conflictErr):
		status, msg = http.StatusConflict, conflictErr.Error()
	case errors.As(err, &immutableErr):
		status, msg = http.StatusUnprocessableEntity, immutableErr.Error()
	case errors.As(err, &transitionErr):
		status, msg = http.StatusUnprocessableEntity, transitionErr.Error()
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	}

	respond(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
		})
	})
}

// respondNoContent writes an empty 204 response.
func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
