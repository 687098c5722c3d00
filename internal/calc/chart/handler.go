package chart

import (
	"net/http"

	"Propmatic/internal/calc/propeller"
	"Propmatic/internal/httputil"

	"github.com/hashicorp/go-hclog"
)

type Handler struct {
	Logger hclog.Logger
}

func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	req, err := propeller.DecodeRequest(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	spec, err := propeller.Observe(h.Logger, req)
	if err != nil {
		httputil.Error(w, propeller.Status(err), err.Error())
		return
	}
	img, err := PNG(spec, DefaultWidth, DefaultHeight)
	if err != nil {
		h.Logger.Error("render propeller chart", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "chart generation error")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(img)
}
