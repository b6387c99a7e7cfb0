package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/category"
)

type CategoryHandler struct {
	service *category.Service
}

func NewCategoryHandler(service *category.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Request/Response DTOs

type CreateCategoryRequest struct {
	Name             string          `json:"name"`
	Color            string          `json:"color"`
	Icon             string          `json:"icon,omitempty"`
	BudgetPercentage decimal.Decimal `json:"budgetPercentage"`
}

type UpdateCategoryRequest struct {
	Name             *string          `json:"name,omitempty"`
	Color            *string          `json:"color,omitempty"`
	Icon             *string          `json:"icon,omitempty"`
	BudgetPercentage *decimal.Decimal `json:"budgetPercentage,omitempty"`
}

type ReorderCategoriesRequest struct {
	CategoryIDs []string `json:"categoryIds"`
}

// HandleCategories routes requests for a trip's category collection
func (h *CategoryHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListCategories(w, r)
	case http.MethodPost:
		h.handleCreateCategory(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleCategoryByID routes requests for a specific category
func (h *CategoryHandler) HandleCategoryByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.handleUpdateCategory(w, r)
	case http.MethodDelete:
		h.handleDeleteCategory(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleReorder rewrites a trip's category display order
func (h *CategoryHandler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

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

	var req ReorderCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding reorder request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	categories, err := h.service.Reorder(r.Context(), tripID, uid, req.CategoryIDs)
	if err != nil {
		respondError(w, err, "Failed to reorder categories")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

func (h *CategoryHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
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

	categories, err := h.service.ListCategories(r.Context(), tripID, uid)
	if err != nil {
		respondError(w, err, "Failed to list categories")
		return
	}

	if categories == nil {
		categories = []*category.Category{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

func (h *CategoryHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
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

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create category request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := category.CreateParams{
		Name:             req.Name,
		Color:            req.Color,
		Icon:             req.Icon,
		BudgetPercentage: req.BudgetPercentage,
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.service.CreateCategory(r.Context(), tripID, uid, params)
	if err != nil {
		respondError(w, err, "Failed to create category")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

func (h *CategoryHandler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	categoryID := r.PathValue("id")
	if categoryID == "" {
		http.Error(w, "Category ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update category request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := category.UpdateParams{
		Name:             req.Name,
		Color:            req.Color,
		Icon:             req.Icon,
		BudgetPercentage: req.BudgetPercentage,
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.service.UpdateCategory(r.Context(), categoryID, uid, params)
	if err != nil {
		respondError(w, err, "Failed to update category")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

func (h *CategoryHandler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	categoryID := r.PathValue("id")
	if categoryID == "" {
		http.Error(w, "Category ID is required", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), categoryID, uid); err != nil {
		respondError(w, err, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
