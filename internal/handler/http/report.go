package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vidyadesk/school-backend-go/internal/handler/http/response"
	"github.com/vidyadesk/school-backend-go/internal/pkg/payslip"
	reportservice "github.com/vidyadesk/school-backend-go/internal/service/report"
)

type ReportHandler interface {
	PFReport(w http.ResponseWriter, r *http.Request)
	ESIReport(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService reportservice.Service
}

func NewReportHandler(reportService reportservice.Service) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

// reportMonthYear reads the month and year query parameters that select the
// reported period.
func reportMonthYear(r *http.Request) (month, year int, err error) {
	month, err = strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12")
	}
	year, err = strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, fmt.Errorf("year must be a four-digit year")
	}
	return month, year, nil
}

// PFReport serves the monthly PF return as JSON, or as a CSV download when
// format=csv.
func (h *ReportHandlerImpl) PFReport(w http.ResponseWriter, r *http.Request) {
	month, year, err := reportMonthYear(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	rep, err := h.reportService.PFReport(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		raw, err := reportservice.RenderPFCSV(rep)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		serveCSV(w, fmt.Sprintf("pf_report_%d_%d.csv", rep.Month, rep.Year), raw)
		return
	}

	response.Success(w, rep)
}

func (h *ReportHandlerImpl) ESIReport(w http.ResponseWriter, r *http.Request) {
	month, year, err := reportMonthYear(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	rep, err := h.reportService.ESIReport(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		raw, err := reportservice.RenderESICSV(rep)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		serveCSV(w, fmt.Sprintf("esi_report_%d_%d.csv", rep.Month, rep.Year), raw)
		return
	}

	response.Success(w, rep)
}

// Payslip serves one payroll item as a PDF download.
func (h *ReportHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		response.BadRequest(w, "Payroll item ID is required", nil)
		return
	}

	data, err := h.reportService.Payslip(r.Context(), itemID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	pdf, err := payslip.Render(data)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payslip.Filename(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func serveCSV(w http.ResponseWriter, filename string, raw []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
