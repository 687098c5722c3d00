package importer

import (
	"net/http"

	"Propmatic/internal/calc/propeller"
	"Propmatic/internal/httputil"

	"github.com/hashicorp/go-hclog"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Logger hclog.Logger
}

func (h *Handler) Propellers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	res, err := Import(file, func(req propeller.Request) (propeller.Spec, error) {
		return propeller.Observe(h.Logger, req)
	})
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.Logger.Info("imported propeller sheet", "count", res.Count, "rejected", len(res.Errors))
	httputil.JSON(w, http.StatusOK, res)
}
