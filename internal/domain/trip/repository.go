package trip

import "context"

// Repository defines the persistence operations for trips and their members.
type Repository interface {
	Create(ctx context.Context, params CreateParams, ownerID int64) (*Trip, error)
	GetByID(ctx context.Context, id string) (*Trip, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Trip, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Trip, error)
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, tripID string, userID int64, role string) (*Member, error)
	GetMember(ctx context.Context, tripID string, userID int64) (*Member, error)
	ListMembers(ctx context.Context, tripID string) ([]*Member, error)
	UpdateMemberRole(ctx context.Context, tripID string, userID int64, role string) (*Member, error)
	RemoveMember(ctx context.Context, tripID string, userID int64) error
}
