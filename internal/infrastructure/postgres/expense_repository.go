package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tripledger/internal/domain/expense"
	"tripledger/internal/domain/trip"
)

type ExpenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `id, trip_id, category_id, title, description, amount, currency_code, exchange_rate,
	amount_in_trip_currency, start_date, end_date, payment_method, location, notes, created_by, created_at, updated_at`

func scanExpense(s interface{ Scan(...any) error }) (*expense.Expense, error) {
	var e expense.Expense
	err := s.Scan(
		&e.ID, &e.TripID, &e.CategoryID, &e.Title, &e.Description,
		&e.Amount, &e.CurrencyCode, &e.ExchangeRate, &e.AmountInTripCurrency,
		&e.StartDate, &e.EndDate, &e.PaymentMethod, &e.Location, &e.Notes,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.StartDate = trip.DateOnly(e.StartDate)
	if e.EndDate != nil {
		d := trip.DateOnly(*e.EndDate)
		e.EndDate = &d
	}
	return &e, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) (*expense.Expense, error) {
	query := `
		INSERT INTO expenses (id, trip_id, category_id, title, description, amount, currency_code,
			exchange_rate, amount_in_trip_currency, start_date, end_date, payment_method, location, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + expenseColumns

	row := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), e.TripID, e.CategoryID, e.Title, e.Description,
		e.Amount, e.CurrencyCode, e.ExchangeRate, e.AmountInTripCurrency,
		e.StartDate, e.EndDate, e.PaymentMethod, e.Location, e.Notes, e.CreatedBy,
	)

	created, err := scanExpense(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return created, nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*expense.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// ListByTripID returns a trip's expenses, newest first. The date filter
// matches any expense whose own span overlaps the requested window.
func (r *ExpenseRepository) ListByTripID(ctx context.Context, tripID string, filter expense.ListFilter) ([]*expense.Expense, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + expenseColumns + ` FROM expenses WHERE trip_id = $1`)

	args := []any{tripID}

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		fmt.Fprintf(&sb, " AND category_id = $%d", len(args))
	}
	if filter.CreatedBy != 0 {
		args = append(args, filter.CreatedBy)
		fmt.Fprintf(&sb, " AND created_by = $%d", len(args))
	}
	if filter.PaymentMethod != "" {
		args = append(args, filter.PaymentMethod)
		fmt.Fprintf(&sb, " AND payment_method = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		fmt.Fprintf(&sb, " AND COALESCE(end_date, start_date) >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		fmt.Fprintf(&sb, " AND start_date <= $%d", len(args))
	}

	sb.WriteString(" ORDER BY start_date DESC, created_at DESC")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, e *expense.Expense) (*expense.Expense, error) {
	query := `
		UPDATE expenses
		SET category_id = $1,
		    title = $2,
		    description = $3,
		    amount = $4,
		    currency_code = $5,
		    exchange_rate = $6,
		    amount_in_trip_currency = $7,
		    start_date = $8,
		    end_date = $9,
		    payment_method = $10,
		    location = $11,
		    notes = $12,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $13
		RETURNING ` + expenseColumns

	row := r.db.QueryRowContext(
		ctx, query,
		e.CategoryID, e.Title, e.Description, e.Amount, e.CurrencyCode,
		e.ExchangeRate, e.AmountInTripCurrency, e.StartDate, e.EndDate,
		e.PaymentMethod, e.Location, e.Notes, e.ID,
	)

	updated, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, expense.ErrExpenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return updated, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM expenses WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return expense.ErrExpenseNotFound
	}

	return nil
}
