// internal/repository/sqlrepo/investment_sql.go
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const investmentColumns = `id, group_id, kind, principal, purchase_date, current_value, provider, annual_return_rate, purchased_by, transaction_id, created_at, updated_at`

// InvestmentRepository implements repository.InvestmentRepository on sqlx.
type InvestmentRepository struct{}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(conn *sqlx.DB) repository.InvestmentRepository {
	return &InvestmentRepository{}
}

// CreateInvestment inserts an investment using the provided DBExecutor.
func (r *InvestmentRepository) CreateInvestment(ctx context.Context, q repository.DBExecutor, inv *domain.Investment) error {
	query := q.Rebind(`INSERT INTO investments (` + investmentColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query,
		inv.ID, inv.GroupID, inv.Kind, inv.Principal, inv.PurchaseDate, inv.CurrentValue,
		inv.Provider, inv.AnnualReturnRate, inv.PurchasedBy, inv.TransactionID, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

// GetInvestmentByID retrieves an investment by its ID.
func (r *InvestmentRepository) GetInvestmentByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Investment, error) {
	var inv domain.Investment
	query := q.Rebind(`SELECT ` + investmentColumns + ` FROM investments WHERE id = ?`)
	if err := q.GetContext(ctx, &inv, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get investment by ID %s: %w", id, err)
	}
	return &inv, nil
}

// ListInvestmentsByGroup returns a group's investments in purchase order.
func (r *InvestmentRepository) ListInvestmentsByGroup(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.Investment, error) {
	investments := []domain.Investment{}
	query := q.Rebind(`SELECT ` + investmentColumns + ` FROM investments WHERE group_id = ? ORDER BY purchase_date, id`)
	if err := q.SelectContext(ctx, &investments, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list investments for group %s: %w", groupID, err)
	}
	return investments, nil
}

// ListAllInvestments returns every investment across all groups.
func (r *InvestmentRepository) ListAllInvestments(ctx context.Context, q repository.DBExecutor) ([]domain.Investment, error) {
	investments := []domain.Investment{}
	query := `SELECT ` + investmentColumns + ` FROM investments ORDER BY purchase_date, id`
	if err := q.SelectContext(ctx, &investments, query); err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	return investments, nil
}

// UpdateInvestmentValue overwrites the cached current value of an investment.
func (r *InvestmentRepository) UpdateInvestmentValue(ctx context.Context, q repository.DBExecutor, id string, value decimal.Decimal, at time.Time) error {
	query := q.Rebind(`UPDATE investments SET current_value = ?, updated_at = ? WHERE id = ?`)
	result, err := q.ExecContext(ctx, query, value, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update value of investment %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating investment %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("investment %s: %w", id, util.ErrNotFound)
	}
	return nil
}
