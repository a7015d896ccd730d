package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/xuanphong03/nest-auth/internal/auth/domain"
	"github.com/xuanphong03/nest-auth/internal/auth/dto"
	autherror "github.com/xuanphong03/nest-auth/internal/errors"
	"github.com/xuanphong03/nest-auth/pkg/constant"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserService orchestrates registration, login, logout, and refresh-token
// rotation on top of the repository, the token issuer, and the hasher.
type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	hasher       Hasher
	logger       *slog.Logger
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, hasher Hasher, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		hasher:       hasher,
		logger:       logger,
	}
}

// Register validates the input, checks email uniqueness, creates the account,
// and returns its first token pair.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.TokenPair, error) {
	input.Normalize()

	if err := validateRegister(input); err != nil {
		return nil, err
	}

	// Pure validation passed; now the uniqueness pre-check. The storage
	// layer still enforces the constraint, so a racing registration
	// surfaces as ErrEmailAlreadyInUse from Create below.
	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.tokenService.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	if err := s.rotate(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return pair, nil
}

// Login verifies credentials and mints a fresh token pair. Unknown email and
// wrong password are indistinguishable to the caller; the distinction lives
// only in debug telemetry.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenPair, error) {
	input.Normalize()

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		// Burn the same verification work as the known-email path.
		s.hasher.Verify(input.Password, s.hasher.DummyHash())
		s.logger.DebugContext(ctx, "login failed", "reason", "unknown email")

		return nil, autherror.ErrInvalidCredentials
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.logger.DebugContext(ctx, "login failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, autherror.ErrInvalidCredentials
	}

	pair, err := s.tokenService.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	if err := s.rotate(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout clears the stored refresh-token hash. Logging out an account with no
// active session is a no-op.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repo.ClearRefreshTokenHash(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	return nil
}

// Refresh exchanges a valid refresh token for a new pair, invalidating the
// presented token. The conditional rotation guarantees that of two concurrent
// refreshes with the same token only one succeeds.
func (s *UserService) Refresh(ctx context.Context, userID, refreshToken string) (*dto.TokenPair, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil || user.RefreshTokenHash == nil {
		return nil, autherror.ErrInvalidRefreshToken
	}

	currentHash := *user.RefreshTokenHash
	if !s.hasher.Verify(refreshToken, currentHash) {
		s.logger.DebugContext(ctx, "refresh failed", "reason", "token hash mismatch", "user_id", userID)
		return nil, autherror.ErrInvalidRefreshToken
	}

	pair, err := s.tokenService.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	newHash, err := s.hasher.Hash(pair.RefreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RotateRefreshTokenHash(ctx, user.ID, currentHash, newHash); err != nil {
		if errors.Is(err, autherror.ErrRefreshTokenStale) {
			s.logger.DebugContext(ctx, "refresh failed", "reason", "concurrent rotation", "user_id", userID)
			return nil, autherror.ErrInvalidRefreshToken
		}

		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return pair, nil
}

// Profile returns the account's public fields.
func (s *UserService) Profile(ctx context.Context, userID string) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	return &dto.UserOutput{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

// rotate is the single write path that sets the refresh-token hash non-null:
// hash the new token and overwrite whatever was stored.
func (s *UserService) rotate(ctx context.Context, userID, refreshToken string) error {
	hash, err := s.hasher.Hash(refreshToken)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateRefreshTokenHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to store refresh token hash: %w", err)
	}

	return nil
}

func validateRegister(input dto.RegisterInput) error {
	vErr := autherror.NewValidationError()

	if len(input.Name) < constant.MinNameLength {
		vErr.Add("name", fmt.Sprintf("name must contain at least %d characters", constant.MinNameLength))
	}

	if input.Email == "" || !emailRe.MatchString(input.Email) {
		vErr.Add("email", "email is not valid")
	}

	if len(input.Password) < constant.MinPasswordLength {
		vErr.Add("password", fmt.Sprintf("password must contain at least %d characters", constant.MinPasswordLength))
	}

	if vErr.HasErrors() {
		return vErr
	}

	return nil
}
