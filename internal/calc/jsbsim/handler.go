package jsbsim

import (
	"net/http"

	"Propmatic/internal/cache"
	"Propmatic/internal/calc/propeller"
	"Propmatic/internal/httputil"
	"Propmatic/internal/metrics"

	"github.com/hashicorp/go-hclog"
)

type Handler struct {
	Cache  cache.Cache
	Logger hclog.Logger
}

// Document serves the JSBSim XML for a JSON propeller request.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	req, err := propeller.DecodeRequest(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	key, err := cache.Key("xml", req)
	if err == nil {
		if doc, ok := h.Cache.Get(r.Context(), key); ok {
			metrics.ObserveCache(true)
			writeXML(w, doc)
			return
		}
		metrics.ObserveCache(false)
	}

	spec, err := propeller.Observe(h.Logger, req)
	if err != nil {
		httputil.Error(w, propeller.Status(err), err.Error())
		return
	}
	doc, err := Render(spec)
	if err != nil {
		h.Logger.Error("render propeller document", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "document generation error")
		return
	}
	if key != "" {
		if err := h.Cache.Set(r.Context(), key, doc); err != nil {
			h.Logger.Warn("cache propeller document", "key", key, "error", err)
		}
	}
	writeXML(w, doc)
}

func writeXML(w http.ResponseWriter, doc []byte) {
	httputil.Attachment(w, "application/xml", "propeller.xml")
	w.Write(doc)
}
