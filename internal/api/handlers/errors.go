package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/rohits-web03/piiquante/internal/apperr"
	"github.com/rohits-web03/piiquante/internal/utils"
)

// writeError maps err to its status and writes the client-safe message.
// Server-side failures are logged with their cause.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := apperr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("kind", apperr.KindOf(err).String()),
			zap.Error(err),
		)
	}
	utils.JSONResponse(w, status, utils.Payload{
		Success: false,
		Message: apperr.PublicMessage(err),
	})
}

// decodeJSON reads a JSON body into v. strict rejects unknown fields.
func decodeJSON(r *http.Request, v any, strict bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return apperr.Wrap(apperr.InvalidInput, "Invalid input", err)
	}
	return nil
}
