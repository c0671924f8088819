package server

import (
	"encoding/json"
	"net/http"

	"github.com/classconduct/conduct-server/internal/faults"
	"github.com/classconduct/conduct-server/internal/metrics"
	"github.com/classconduct/conduct-server/internal/observability"
)

// Every endpoint answers the same envelope the clients already speak:
// {success, message?, data?}. Rejections (validation, not-found, rate
// limit) are 200s with success=false; only storage faults become 500s.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: message})
}

func writeRejected(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, apiResponse{Success: false, Message: message})
}

// writeFault maps the error taxonomy onto the wire.
func (s *Server) writeFault(w http.ResponseWriter, op string, err error) {
	switch {
	case faults.IsValidation(err), faults.IsNotFound(err), faults.IsRateLimited(err):
		writeRejected(w, err.Error())
	default:
		metrics.HandlerErrors.Inc()
		observability.CaptureOp(op, err)
		s.log.Errorw("handler failed", "op", op, "err", err)
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "server error"})
	}
}

func readJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return faults.Validationf("bad request body: %v", err)
	}
	return nil
}
