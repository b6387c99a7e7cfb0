package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tripledger/internal/domain/category"
)

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, trip_id, name, color, icon, budget_percentage, is_default, display_order, created_at`

func (r *CategoryRepository) Create(ctx context.Context, tripID string, params category.CreateParams, isDefault bool, displayOrder int) (*category.Category, error) {
	query := `
		INSERT INTO categories (id, trip_id, name, color, icon, budget_percentage, is_default, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + categoryColumns

	var c category.Category
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), tripID, params.Name, params.Color, params.Icon,
		params.BudgetPercentage, isDefault, displayOrder,
	).Scan(
		&c.ID, &c.TripID, &c.Name, &c.Color, &c.Icon,
		&c.BudgetPercentage, &c.IsDefault, &c.DisplayOrder, &c.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &c, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	var c category.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.TripID, &c.Name, &c.Color, &c.Icon,
		&c.BudgetPercentage, &c.IsDefault, &c.DisplayOrder, &c.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &c, nil
}

func (r *CategoryRepository) ListByTripID(ctx context.Context, tripID string) ([]*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE trip_id = $1
		ORDER BY display_order ASC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		var c category.Category
		err := rows.Scan(
			&c.ID, &c.TripID, &c.Name, &c.Color, &c.Icon,
			&c.BudgetPercentage, &c.IsDefault, &c.DisplayOrder, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, params category.UpdateParams) (*category.Category, error) {
	query := `
		UPDATE categories
		SET name = COALESCE($1, name),
		    color = COALESCE($2, color),
		    icon = COALESCE($3, icon),
		    budget_percentage = COALESCE($4, budget_percentage)
		WHERE id = $5
		RETURNING ` + categoryColumns

	var c category.Category
	err := r.db.QueryRowContext(
		ctx, query,
		params.Name, params.Color, params.Icon, params.BudgetPercentage, id,
	).Scan(
		&c.ID, &c.TripID, &c.Name, &c.Color, &c.Icon,
		&c.BudgetPercentage, &c.IsDefault, &c.DisplayOrder, &c.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return category.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepository) SumBudgetPercentage(ctx context.Context, tripID string, excludeID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(budget_percentage), 0)
		FROM categories
		WHERE trip_id = $1 AND ($2 = '' OR id != $2)
	`

	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, tripID, excludeID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum budget percentages: %w", err)
	}

	return sum, nil
}

func (r *CategoryRepository) MaxDisplayOrder(ctx context.Context, tripID string) (int, error) {
	query := `SELECT COALESCE(MAX(display_order), -1) FROM categories WHERE trip_id = $1`

	var max int
	if err := r.db.QueryRowContext(ctx, query, tripID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max display order: %w", err)
	}

	return max, nil
}

func (r *CategoryRepository) CountExpenses(ctx context.Context, categoryID string) (int, error) {
	query := `SELECT COUNT(*) FROM expenses WHERE category_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count category expenses: %w", err)
	}

	return count, nil
}

func (r *CategoryRepository) SetDisplayOrder(ctx context.Context, tripID string, orderedIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE categories SET display_order = $1 WHERE id = $2 AND trip_id = $3`
	for i, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, query, i, id, tripID); err != nil {
			return fmt.Errorf("failed to set display order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit display order: %w", err)
	}

	return nil
}
