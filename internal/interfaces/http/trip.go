package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/trip"
)

type TripHandler struct {
	service *trip.Service
}

func NewTripHandler(service *trip.Service) *TripHandler {
	return &TripHandler{service: service}
}

// Request/Response DTOs

type CreateTripRequest struct {
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	StartDate    string           `json:"startDate"`
	EndDate      string           `json:"endDate"`
	CurrencyCode string           `json:"currencyCode"`
	TotalBudget  *decimal.Decimal `json:"totalBudget,omitempty"`
	DailyBudget  *decimal.Decimal `json:"dailyBudget,omitempty"`
}

type UpdateTripRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	StartDate    *string          `json:"startDate,omitempty"`
	EndDate      *string          `json:"endDate,omitempty"`
	CurrencyCode *string          `json:"currencyCode,omitempty"`
	TotalBudget  *decimal.Decimal `json:"totalBudget,omitempty"`
	DailyBudget  *decimal.Decimal `json:"dailyBudget,omitempty"`
}

type AddMemberRequest struct {
	UserID int64 `json:"userId"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

// HandleTrips routes requests to the appropriate handler based on method
func (h *TripHandler) HandleTrips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListTrips(w, r)
	case http.MethodPost:
		h.handleCreateTrip(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTripByID routes requests for a specific trip
func (h *TripHandler) HandleTripByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetTrip(w, r)
	case http.MethodPut:
		h.handleUpdateTrip(w, r)
	case http.MethodDelete:
		h.handleDeleteTrip(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMembers routes requests for a trip's member collection
func (h *TripHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListMembers(w, r)
	case http.MethodPost:
		h.handleAddMember(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMemberByID routes requests for a specific trip member
func (h *TripHandler) HandleMemberByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.handleUpdateMemberRole(w, r)
	case http.MethodDelete:
		h.handleRemoveMember(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TripHandler) handleListTrips(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	trips, err := h.service.ListTrips(r.Context(), uid)
	if err != nil {
		respondError(w, err, "Failed to list trips")
		return
	}

	if trips == nil {
		trips = []*trip.Trip{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trips)
}

func (h *TripHandler) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create trip request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		http.Error(w, "startDate must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		http.Error(w, "endDate must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	params := trip.CreateParams{
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    startDate,
		EndDate:      endDate,
		CurrencyCode: req.CurrencyCode,
		TotalBudget:  req.TotalBudget,
		DailyBudget:  req.DailyBudget,
	}

	t, err := h.service.CreateTrip(r.Context(), params, uid)
	if err != nil {
		respondError(w, err, "Failed to create trip")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

func (h *TripHandler) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")
	if tripID == "" {
		http.Error(w, "Trip ID is required", http.StatusBadRequest)
		return
	}

	t, _, err := h.service.GetTripForUser(r.Context(), tripID, uid)
	if err != nil {
		respondError(w, err, "Failed to get trip")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

func (h *TripHandler) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")
	if tripID == "" {
		http.Error(w, "Trip ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update trip request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := trip.UpdateParams{
		Name:         req.Name,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		TotalBudget:  req.TotalBudget,
		DailyBudget:  req.DailyBudget,
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			http.Error(w, "startDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			http.Error(w, "endDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.EndDate = &d
	}

	t, err := h.service.UpdateTrip(r.Context(), tripID, uid, params)
	if err != nil {
		respondError(w, err, "Failed to update trip")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

func (h *TripHandler) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")
	if tripID == "" {
		http.Error(w, "Trip ID is required", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteTrip(r.Context(), tripID, uid); err != nil {
		respondError(w, err, "Failed to delete trip")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TripHandler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")
	if tripID == "" {
		http.Error(w, "Trip ID is required", http.StatusBadRequest)
		return
	}

	members, err := h.service.ListMembers(r.Context(), tripID, uid)
	if err != nil {
		respondError(w, err, "Failed to list trip members")
		return
	}

	if members == nil {
		members = []*trip.Member{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(members)
}

func (h *TripHandler) handleAddMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")
	if tripID == "" {
		http.Error(w, "Trip ID is required", http.StatusBadRequest)
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding add member request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	m, err := h.service.AddMember(r.Context(), tripID, req.UserID, uid)
	if err != nil {
		respondError(w, err, "Failed to add trip member")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(m)
}

func (h *TripHandler) handleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")
	memberID, err := parseMemberID(r)
	if tripID == "" || err != nil {
		http.Error(w, "Trip ID and member user ID are required", http.StatusBadRequest)
		return
	}

	var req UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update member role request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	m, err := h.service.UpdateMemberRole(r.Context(), tripID, memberID, req.Role, uid)
	if err != nil {
		respondError(w, err, "Failed to update member role")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}

func (h *TripHandler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")
	memberID, err := parseMemberID(r)
	if tripID == "" || err != nil {
		http.Error(w, "Trip ID and member user ID are required", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveMember(r.Context(), tripID, memberID, uid); err != nil {
		respondError(w, err, "Failed to remove trip member")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
