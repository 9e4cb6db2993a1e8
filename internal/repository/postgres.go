package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/banque/internal/models"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS accounts (
		id            BIGSERIAL PRIMARY KEY,
		balance       NUMERIC(19, 4) NOT NULL DEFAULT 0,
		creation_date TIMESTAMPTZ,
		type          VARCHAR(64) NOT NULL DEFAULT ''
	)
`

// PostgresAccountRepository stores accounts in PostgreSQL through lib/pq.
type PostgresAccountRepository struct {
	db *sql.DB
}

func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// Migrate creates the accounts table if it does not exist yet.
func (r *PostgresAccountRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate accounts table: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) FindAll(ctx context.Context) ([]models.Account, error) {
	query := `SELECT id, balance, creation_date, type FROM accounts ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Balance, &a.CreationDate, &a.Type); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT id, balance, creation_date, type FROM accounts WHERE id = $1`
	var a models.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Balance, &a.CreationDate, &a.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}

func (r *PostgresAccountRepository) Save(ctx context.Context, account *models.Account) error {
	if account.ID == 0 {
		return r.insert(ctx, account)
	}
	query := `
		UPDATE accounts
		SET balance = $2, creation_date = $3, type = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, account.ID, account.Balance, account.CreationDate, account.Type)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to update account %d: %w", account.ID, ErrAccountNotFound)
	}
	return nil
}

func (r *PostgresAccountRepository) insert(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (balance, creation_date, type)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, account.Balance, account.CreationDate, account.Type).Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows > 0, nil
}
