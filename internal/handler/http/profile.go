package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vidyadesk/school-backend-go/internal/domain/profile"
	"github.com/vidyadesk/school-backend-go/internal/handler/http/response"
	profileservice "github.com/vidyadesk/school-backend-go/internal/service/profile"
)

type ProfileHandler interface {
	GetMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	SubmitChange(w http.ResponseWriter, r *http.Request)
	ReviewChange(w http.ResponseWriter, r *http.Request)
}

type ProfileHandlerImpl struct {
	profileService profileservice.Service
}

func NewProfileHandler(profileService profileservice.Service) ProfileHandler {
	return &ProfileHandlerImpl{profileService: profileService}
}

func (h *ProfileHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	p, err := h.profileService.GetMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, p)
}

func (h *ProfileHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profiles)
}

func (h *ProfileHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	p, err := h.profileService.Get(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, p)
}

func (h *ProfileHandlerImpl) SubmitChange(w http.ResponseWriter, r *http.Request) {
	var req profile.SubmitChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	p, err := h.profileService.SubmitChange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile change submitted for approval", p)
}

func (h *ProfileHandlerImpl) ReviewChange(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req profile.ReviewChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = employeeID

	p, err := h.profileService.ReviewChange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile change reviewed", p)
}
