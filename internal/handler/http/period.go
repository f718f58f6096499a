package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/period"
	"github.com/vidyadesk/school-backend-go/internal/handler/http/response"
	payrollservice "github.com/vidyadesk/school-backend-go/internal/service/payroll"
	periodservice "github.com/vidyadesk/school-backend-go/internal/service/period"
)

type PeriodHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Lock(w http.ResponseWriter, r *http.Request)
	Unlock(w http.ResponseWriter, r *http.Request)

	Compute(w http.ResponseWriter, r *http.Request)
	ListItems(w http.ResponseWriter, r *http.Request)
	MarkItemsProcessed(w http.ResponseWriter, r *http.Request)
}

type PeriodHandlerImpl struct {
	periodService  periodservice.Service
	payrollService payrollservice.Service
}

func NewPeriodHandler(periodService periodservice.Service, payrollService payrollservice.Service) PeriodHandler {
	return &PeriodHandlerImpl{
		periodService:  periodService,
		payrollService: payrollService,
	}
}

func (h *PeriodHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req period.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.periodService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll period created", created)
}

func (h *PeriodHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var year *int
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid year", nil)
			return
		}
		year = &parsed
	}

	periods, err := h.periodService.List(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, periods)
}

func (h *PeriodHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	detail, err := h.periodService.Get(r.Context(), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, detail)
}

func (h *PeriodHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	var req period.UpdatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = periodID

	updated, err := h.periodService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period updated", updated)
}

func (h *PeriodHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	if err := h.periodService.Delete(r.Context(), periodID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period deleted", nil)
}

func (h *PeriodHandlerImpl) Lock(w http.ResponseWriter, r *http.Request) {
	h.setLock(w, r, true)
}

func (h *PeriodHandlerImpl) Unlock(w http.ResponseWriter, r *http.Request) {
	h.setLock(w, r, false)
}

func (h *PeriodHandlerImpl) setLock(w http.ResponseWriter, r *http.Request, lock bool) {
	periodID := chi.URLParam(r, "id")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	var req period.LockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	var err error
	if lock {
		err = h.periodService.Lock(r.Context(), periodID, req.Reason)
	} else {
		err = h.periodService.Unlock(r.Context(), periodID, req.Reason)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Payroll period locked"
	if !lock {
		message = "Payroll period unlocked"
	}
	response.SuccessWithMessage(w, message, nil)
}

func (h *PeriodHandlerImpl) Compute(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	var req payroll.ComputePeriodRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}
	req.PeriodID = periodID

	result, err := h.payrollService.ComputePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll computed", result)
}

func (h *PeriodHandlerImpl) ListItems(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	items, err := h.payrollService.ListItems(r.Context(), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, items)
}

func (h *PeriodHandlerImpl) MarkItemsProcessed(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	var req struct {
		ItemIDs []string `json:"item_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if len(req.ItemIDs) == 0 {
		response.BadRequest(w, "item_ids must not be empty", nil)
		return
	}

	if err := h.payrollService.MarkItemsProcessed(r.Context(), periodID, req.ItemIDs); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll items marked processed", nil)
}
