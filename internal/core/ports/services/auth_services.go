package services

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/dto"
)

// UserSvc manages the identities that own accounts.
type UserSvc interface {
	// Register creates a new user with a hashed password.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
}

// TokenSvc authenticates credentials and issues bearer tokens.
type TokenSvc interface {
	// Login verifies email and password and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthSvcFacade combines user and token services.
type AuthSvcFacade interface {
	UserSvc
	TokenSvc
}
