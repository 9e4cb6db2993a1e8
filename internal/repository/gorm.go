package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eaglebank/banque/internal/models"
)

// GormAccountRepository stores accounts through GORM. It backs the MySQL
// driver but works with any GORM dialect.
type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Migrate runs GORM auto-migration for the accounts table.
func (r *GormAccountRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.Account{}); err != nil {
		return fmt.Errorf("failed to migrate accounts table: %w", err)
	}
	return nil
}

func (r *GormAccountRepository) FindAll(ctx context.Context) ([]models.Account, error) {
	accounts := []models.Account{}
	if err := r.db.WithContext(ctx).Order("id").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *GormAccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	var a models.Account
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}

func (r *GormAccountRepository) Save(ctx context.Context, account *models.Account) error {
	if account.ID == 0 {
		if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"balance":       account.Balance,
			"creation_date": account.CreationDate,
			"type":          account.Type,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// MySQL reports 0 affected rows when the values are unchanged, so
		// only a missing row counts as not found.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", account.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("failed to update account %d: %w", account.ID, ErrAccountNotFound)
		}
	}
	return nil
}

func (r *GormAccountRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Account{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete account: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
