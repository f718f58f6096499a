package http

import (
	"encoding/json"
	"net/http"

	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/handler/http/response"
	payrollservice "github.com/vidyadesk/school-backend-go/internal/service/payroll"
)

type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type SettingsHandlerImpl struct {
	payrollService payrollservice.Service
}

func NewSettingsHandler(payrollService payrollservice.Service) SettingsHandler {
	return &SettingsHandlerImpl{payrollService: payrollService}
}

func (h *SettingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.payrollService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings)
}

func (h *SettingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	settings, err := h.payrollService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll settings updated", settings)
}
