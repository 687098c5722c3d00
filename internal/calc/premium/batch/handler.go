package batch

import (
	"encoding/json"
	"errors"
	"net/http"

	"Propmatic/internal/calc/propeller"
	"Propmatic/internal/httputil"

	"github.com/hashicorp/go-hclog"
)

type Handler struct {
	Logger hclog.Logger
}

func (h *Handler) Propellers(w http.ResponseWriter, r *http.Request) {
	var input PropellerBatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	res, err := CalculatePropellers(input, func(req propeller.Request) (propeller.Spec, error) {
		return propeller.Observe(h.Logger, req)
	})
	if err != nil {
		status := http.StatusBadRequest
		var item *ItemError
		if errors.As(err, &item) {
			status = propeller.Status(item.Err)
		}
		httputil.Error(w, status, err.Error())
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}
