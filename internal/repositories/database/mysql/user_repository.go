package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/models"
	"github.com/SscSPs/bank_ledger/internal/utils/mapping"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func newGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

var _ portsrepo.UserRepositoryFacade = (*GormUserRepository)(nil)

func (r *GormUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where(where, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *GormUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *GormUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *GormUserRepository) SaveUser(ctx context.Context, user *domain.User) error {
	m := mapping.ToModelUser(*user)
	m.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if mysqlErrorNumber(err) == errDupEntry {
			return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	user.UserID = m.UserID
	user.CreatedAt = m.CreatedAt
	return nil
}
