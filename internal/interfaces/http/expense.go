package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/expense"
)

type ExpenseHandler struct {
	service *expense.Service
}

func NewExpenseHandler(service *expense.Service) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// Request/Response DTOs

type CreateExpenseRequest struct {
	CategoryID    string          `json:"categoryId"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode,omitempty"`
	StartDate     string          `json:"startDate"`
	EndDate       *string         `json:"endDate,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Location      string          `json:"location,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

type UpdateExpenseRequest struct {
	CategoryID    *string          `json:"categoryId,omitempty"`
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	CurrencyCode  *string          `json:"currencyCode,omitempty"`
	StartDate     *string          `json:"startDate,omitempty"`
	EndDate       *string          `json:"endDate,omitempty"`
	ClearEndDate  bool             `json:"clearEndDate,omitempty"`
	PaymentMethod *string          `json:"paymentMethod,omitempty"`
	Location      *string          `json:"location,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// HandleExpenses routes requests for a trip's expense collection
func (h *ExpenseHandler) HandleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListExpenses(w, r)
	case http.MethodPost:
		h.handleCreateExpense(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleExpenseByID routes requests for a specific expense
func (h *ExpenseHandler) HandleExpenseByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetExpense(w, r)
	case http.MethodPut:
		h.handleUpdateExpense(w, r)
	case http.MethodDelete:
		h.handleDeleteExpense(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ExpenseHandler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
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

	filter := expense.ListFilter{
		CategoryID:    r.URL.Query().Get("categoryId"),
		PaymentMethod: r.URL.Query().Get("paymentMethod"),
	}
	if createdBy := r.URL.Query().Get("createdBy"); createdBy != "" {
		id, err := strconv.ParseInt(createdBy, 10, 64)
		if err != nil {
			http.Error(w, "createdBy must be a user ID", http.StatusBadRequest)
			return
		}
		filter.CreatedBy = id
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		filter.Limit = n
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			http.Error(w, "offset must be a non-negative integer", http.StatusBadRequest)
			return
		}
		filter.Offset = n
	}
	if from := r.URL.Query().Get("from"); from != "" {
		d, err := parseDate(from)
		if err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.From = &d
	}
	if to := r.URL.Query().Get("to"); to != "" {
		d, err := parseDate(to)
		if err != nil {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.To = &d
	}

	expenses, err := h.service.ListExpenses(r.Context(), tripID, uid, filter)
	if err != nil {
		respondError(w, err, "Failed to list expenses")
		return
	}

	if expenses == nil {
		expenses = []*expense.Expense{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expenses)
}

func (h *ExpenseHandler) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
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

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create expense request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		http.Error(w, "startDate must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	params := expense.CreateParams{
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		CurrencyCode:  req.CurrencyCode,
		StartDate:     startDate,
		PaymentMethod: req.PaymentMethod,
		Location:      req.Location,
		Notes:         req.Notes,
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			http.Error(w, "endDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.EndDate = &d
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.service.CreateExpense(r.Context(), tripID, uid, params)
	if err != nil {
		respondError(w, err, "Failed to create expense")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(e)
}

func (h *ExpenseHandler) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenseID := r.PathValue("id")
	if expenseID == "" {
		http.Error(w, "Expense ID is required", http.StatusBadRequest)
		return
	}

	e, err := h.service.GetExpense(r.Context(), expenseID, uid)
	if err != nil {
		respondError(w, err, "Failed to get expense")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(e)
}

func (h *ExpenseHandler) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenseID := r.PathValue("id")
	if expenseID == "" {
		http.Error(w, "Expense ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update expense request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := expense.UpdateParams{
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		CurrencyCode:  req.CurrencyCode,
		ClearEndDate:  req.ClearEndDate,
		PaymentMethod: req.PaymentMethod,
		Location:      req.Location,
		Notes:         req.Notes,
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

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.service.UpdateExpense(r.Context(), expenseID, uid, params)
	if err != nil {
		respondError(w, err, "Failed to update expense")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(e)
}

func (h *ExpenseHandler) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenseID := r.PathValue("id")
	if expenseID == "" {
		http.Error(w, "Expense ID is required", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteExpense(r.Context(), expenseID, uid); err != nil {
		respondError(w, err, "Failed to delete expense")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
