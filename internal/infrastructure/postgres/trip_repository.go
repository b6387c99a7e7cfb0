package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"tripledger/internal/domain/trip"
)

type TripRepository struct {
	db *DB
}

func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, name, description, start_date, end_date, currency_code, total_budget, daily_budget, owner_id, created_at, updated_at`

func scanTrip(s interface{ Scan(...any) error }) (*trip.Trip, error) {
	var t trip.Trip
	err := s.Scan(
		&t.ID, &t.Name, &t.Description, &t.StartDate, &t.EndDate,
		&t.CurrencyCode, &t.TotalBudget, &t.DailyBudget, &t.OwnerID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.StartDate = trip.DateOnly(t.StartDate)
	t.EndDate = trip.DateOnly(t.EndDate)
	return &t, nil
}

func (r *TripRepository) Create(ctx context.Context, params trip.CreateParams, ownerID int64) (*trip.Trip, error) {
	id := uuid.NewString()

	query := `
		INSERT INTO trips (id, name, description, start_date, end_date, currency_code, total_budget, daily_budget, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + tripColumns

	row := r.db.QueryRowContext(
		ctx, query,
		id, params.Name, params.Description, params.StartDate, params.EndDate,
		params.CurrencyCode, params.TotalBudget, params.DailyBudget, ownerID,
	)

	t, err := scanTrip(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	memberQuery := `
		INSERT INTO trip_members (id, trip_id, user_id, role)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, memberQuery, uuid.NewString(), id, ownerID, trip.RoleOwner); err != nil {
		return nil, fmt.Errorf("failed to add owner membership: %w", err)
	}

	return t, nil
}

func (r *TripRepository) GetByID(ctx context.Context, id string) (*trip.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	t, err := scanTrip(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return t, nil
}

func (r *TripRepository) ListByUserID(ctx context.Context, userID int64) ([]*trip.Trip, error) {
	query := `
		SELECT t.id, t.name, t.description, t.start_date, t.end_date, t.currency_code,
		       t.total_budget, t.daily_budget, t.owner_id, t.created_at, t.updated_at
		FROM trips t
		JOIN trip_members m ON m.trip_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.start_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*trip.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trips: %w", err)
	}

	return trips, nil
}

func (r *TripRepository) Update(ctx context.Context, id string, params trip.UpdateParams) (*trip.Trip, error) {
	query := `
		UPDATE trips
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    start_date = COALESCE($3, start_date),
		    end_date = COALESCE($4, end_date),
		    currency_code = COALESCE($5, currency_code),
		    total_budget = COALESCE($6, total_budget),
		    daily_budget = COALESCE($7, daily_budget),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
		RETURNING ` + tripColumns

	row := r.db.QueryRowContext(
		ctx, query,
		params.Name, params.Description, params.StartDate, params.EndDate,
		params.CurrencyCode, params.TotalBudget, params.DailyBudget, id,
	)

	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, trip.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	return t, nil
}

func (r *TripRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trips WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return trip.ErrTripNotFound
	}

	return nil
}

func (r *TripRepository) AddMember(ctx context.Context, tripID string, userID int64, role string) (*trip.Member, error) {
	query := `
		INSERT INTO trip_members (id, trip_id, user_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, trip_id, user_id, role, joined_at
	`

	var m trip.Member
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), tripID, userID, role).Scan(
		&m.ID, &m.TripID, &m.UserID, &m.Role, &m.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add trip member: %w", err)
	}

	return &m, nil
}

func (r *TripRepository) GetMember(ctx context.Context, tripID string, userID int64) (*trip.Member, error) {
	query := `
		SELECT id, trip_id, user_id, role, joined_at
		FROM trip_members
		WHERE trip_id = $1 AND user_id = $2
	`

	var m trip.Member
	err := r.db.QueryRowContext(ctx, query, tripID, userID).Scan(
		&m.ID, &m.TripID, &m.UserID, &m.Role, &m.JoinedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip member: %w", err)
	}

	return &m, nil
}

func (r *TripRepository) ListMembers(ctx context.Context, tripID string) ([]*trip.Member, error) {
	query := `
		SELECT id, trip_id, user_id, role, joined_at
		FROM trip_members
		WHERE trip_id = $1
		ORDER BY joined_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip members: %w", err)
	}
	defer rows.Close()

	var members []*trip.Member
	for rows.Next() {
		var m trip.Member
		if err := rows.Scan(&m.ID, &m.TripID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip member: %w", err)
		}
		members = append(members, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip members: %w", err)
	}

	return members, nil
}

func (r *TripRepository) UpdateMemberRole(ctx context.Context, tripID string, userID int64, role string) (*trip.Member, error) {
	query := `
		UPDATE trip_members
		SET role = $1
		WHERE trip_id = $2 AND user_id = $3
		RETURNING id, trip_id, user_id, role, joined_at
	`

	var m trip.Member
	err := r.db.QueryRowContext(ctx, query, role, tripID, userID).Scan(
		&m.ID, &m.TripID, &m.UserID, &m.Role, &m.JoinedAt,
	)
	if err == sql.ErrNoRows {
		return nil, trip.ErrNotMember
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	return &m, nil
}

func (r *TripRepository) RemoveMember(ctx context.Context, tripID string, userID int64) error {
	query := `DELETE FROM trip_members WHERE trip_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, tripID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove trip member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return trip.ErrNotMember
	}

	return nil
}
