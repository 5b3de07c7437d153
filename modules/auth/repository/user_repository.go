package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"schedulai/core/database"
	"schedulai/core/logger"
	"schedulai/modules/auth/entity"
)

// UserRepositoryInterface defines the account and credential store contract.
type UserRepositoryInterface interface {
	UpsertByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	SaveCredential(ctx context.Context, cred *entity.GoogleCredential) error
	GetCredential(ctx context.Context, userID uuid.UUID) (*entity.GoogleCredential, error)
}

// UserRepository persists accounts and their Google credentials.
type UserRepository struct {
	DB database.IDatabase
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db database.IDatabase) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) UpsertByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		INSERT INTO users (email)
		VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id, email, created_at, updated_at
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		logger.Error("UserRepository:UpsertByEmail", "error", err)
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT id, email, created_at, updated_at FROM users WHERE id = $1`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetByID", "error", err)
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) SaveCredential(ctx context.Context, cred *entity.GoogleCredential) error {
	query := `
		INSERT INTO google_credentials (user_id, access_token, refresh_token, token_expires_at, calendar_email)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			access_token = $2,
			refresh_token = COALESCE($3, google_credentials.refresh_token),
			token_expires_at = $4,
			calendar_email = $5,
			updated_at = NOW()
	`

	err := r.DB.ExecContext(ctx, query,
		cred.UserID, cred.AccessToken, cred.RefreshToken, cred.TokenExpiresAt, cred.CalendarEmail)
	if err != nil {
		logger.Error("UserRepository:SaveCredential", "error", err)
		return err
	}

	return nil
}

func (r *UserRepository) GetCredential(ctx context.Context, userID uuid.UUID) (*entity.GoogleCredential, error) {
	query := `
		SELECT user_id, access_token, refresh_token, token_expires_at, calendar_email, created_at, updated_at
		FROM google_credentials
		WHERE user_id = $1
	`

	var cred entity.GoogleCredential
	err := r.DB.GetContext(ctx, &cred, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetCredential", "error", err)
		return nil, err
	}

	return &cred, nil
}
