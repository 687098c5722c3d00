package propeller

import (
	"encoding/json"
	"errors"
	"net/http"

	"Propmatic/internal/httputil"
	"Propmatic/internal/metrics"

	"github.com/hashicorp/go-hclog"
)

type Handler struct {
	Logger hclog.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	req, err := DecodeRequest(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	spec, err := Observe(h.Logger, req)
	if err != nil {
		httputil.Error(w, Status(err), err.Error())
		return
	}
	httputil.JSON(w, http.StatusOK, spec)
}

// DecodeRequest reads a JSON Request body.
func DecodeRequest(r *http.Request) (Request, error) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return Request{}, verr
		}
		return Request{}, errors.New("invalid request payload")
	}
	return req, nil
}

// Observe runs Calculate and records the outcome in logs and metrics.
func Observe(logger hclog.Logger, req Request) (Spec, error) {
	spec, err := Calculate(req)
	pitch := req.PitchMode.String()
	if !req.PitchMode.valid() {
		pitch = "unknown"
	}
	if err != nil {
		outcome := "error"
		var verr *ValidationError
		if errors.As(err, &verr) {
			outcome = "invalid"
			logger.Debug("rejected propeller request", "field", verr.Field, "reason", verr.Reason)
		} else {
			logger.Error("propeller computation failed", "error", err)
		}
		metrics.ObserveComputation(pitch, outcome)
		return Spec{}, err
	}
	metrics.ObserveComputation(pitch, "ok")
	logger.Debug("computed propeller",
		"pitch", pitch,
		"diameter_ft", spec.DiameterFt,
		"cp0", spec.CP0,
		"blades", spec.Blades,
	)
	return spec, nil
}

// Status maps a model error to an HTTP status.
func Status(err error) int {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
