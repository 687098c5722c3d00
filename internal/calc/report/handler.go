package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"Propmatic/internal/calc/propeller"
	"Propmatic/internal/httputil"

	"github.com/hashicorp/go-hclog"
)

type Input struct {
	Meta
	Propeller propeller.Request `json:"propeller"`
}

type Handler struct {
	Logger hclog.Logger
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		var verr *propeller.ValidationError
		if errors.As(err, &verr) {
			httputil.Error(w, http.StatusBadRequest, verr.Error())
			return
		}
		httputil.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	spec, err := propeller.Observe(h.Logger, input.Propeller)
	if err != nil {
		httputil.Error(w, propeller.Status(err), err.Error())
		return
	}
	input.Meta.Date = time.Now()

	var buf bytes.Buffer
	if err := WritePDF(&buf, input.Meta, spec); err != nil {
		h.Logger.Error("render propeller datasheet", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "report generation error")
		return
	}
	httputil.Attachment(w, "application/pdf", "propeller.pdf")
	buf.WriteTo(w)
}

func (h *Handler) Workbook(w http.ResponseWriter, r *http.Request) {
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
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, spec); err != nil {
		h.Logger.Error("render propeller workbook", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "workbook generation error")
		return
	}
	httputil.Attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "propeller.xlsx")
	buf.WriteTo(w)
}
