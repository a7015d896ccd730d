package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/xuanphong03/nest-auth/internal/auth/domain UserRepository

import "context"

type UserRepository interface {
	// GetByEmail returns (nil, nil) when no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID returns (nil, nil) when no user has the given id.
	GetByID(ctx context.Context, id string) (*User, error)
	// Create inserts the user and returns ErrEmailAlreadyInUse when the
	// email unique constraint is violated at the storage layer.
	Create(ctx context.Context, user *User) error
	// UpdateRefreshTokenHash unconditionally overwrites the stored hash.
	UpdateRefreshTokenHash(ctx context.Context, id, hash string) error
	// RotateRefreshTokenHash replaces the stored hash only if it still
	// equals currentHash, returning ErrRefreshTokenStale otherwise.
	RotateRefreshTokenHash(ctx context.Context, id, currentHash, newHash string) error
	// ClearRefreshTokenHash nulls the stored hash; clearing an already
	// cleared hash is a no-op.
	ClearRefreshTokenHash(ctx context.Context, id string) error
}
