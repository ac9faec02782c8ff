package handler

import (
	"log/slog"
	"net/http"

	"github.com/taskledger/taskledger/internal/metrics"
	"github.com/taskledger/taskledger/internal/middleware"
	"github.com/taskledger/taskledger/internal/repository"
)

// storeError answers a failed store call. Connectivity failures and
// constraint violations alike become a 500 carrying the store's message.
func storeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, recorder metrics.Recorder, op string, err error) {
	class := repository.ErrorClass(err)
	recorder.IncStoreError(op, class)

	attrs := []any{
		slog.String("op", op),
		slog.String("error_class", class),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("error", err.Error()),
	}
	if code := repository.ErrorCodeName(err); code != "" {
		attrs = append(attrs, slog.String("sqlstate", code))
	}
	logger.Error("store_error", attrs...)

	writeError(w, http.StatusInternalServerError, err.Error())
}
