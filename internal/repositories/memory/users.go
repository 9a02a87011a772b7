package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// FindUserByID retrieves a user by id.
func (s *Store) FindUserByID(_ context.Context, userID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// FindUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

// SaveUser inserts a new user.
func (s *Store) SaveUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := s.emails[key]; ok {
		return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, user.Email)
	}
	s.nextUserID++
	user.UserID = s.nextUserID
	user.CreatedAt = s.now()
	cp := *user
	s.users[user.UserID] = &cp
	s.emails[key] = user.UserID
	return nil
}
