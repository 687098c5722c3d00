package autodesign

import (
	"encoding/json"
	"net/http"

	"Propmatic/internal/calc/propeller"
	"Propmatic/internal/httputil"
	"Propmatic/internal/metrics"

	"github.com/hashicorp/go-hclog"
)

type Handler struct {
	Logger hclog.Logger
}

func (h *Handler) DirectDrive(w http.ResponseWriter, r *http.Request) {
	var input DirectDriveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	res, err := DirectDrive(input)
	if err != nil {
		metrics.ObserveComputation(input.PitchMode.String(), "invalid")
		h.Logger.Debug("direct drive sizing rejected", "error", err)
		httputil.Error(w, propeller.Status(err), err.Error())
		return
	}
	metrics.ObserveComputation(res.Spec.Pitch.String(), "ok")
	httputil.JSON(w, http.StatusOK, res)
}
