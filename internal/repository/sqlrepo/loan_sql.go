// internal/repository/sqlrepo/loan_sql.go
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
)

const loanColumns = `l.id, l.membership_id, l.principal, l.rate, l.start_date, l.due_date, l.status, l.transaction_id, l.created_at, l.updated_at`

// LoanRepository implements repository.LoanRepository on sqlx.
type LoanRepository struct{}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(conn *sqlx.DB) repository.LoanRepository {
	return &LoanRepository{}
}

// CreateLoan inserts a loan using the provided DBExecutor.
func (r *LoanRepository) CreateLoan(ctx context.Context, q repository.DBExecutor, l *domain.Loan) error {
	query := q.Rebind(`INSERT INTO loans (id, membership_id, principal, rate, start_date, due_date, status, transaction_id, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query,
		l.ID, l.MembershipID, l.Principal, l.Rate, l.StartDate, l.DueDate,
		l.Status, l.TransactionID, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// GetLoanByID retrieves a loan by its ID.
func (r *LoanRepository) GetLoanByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Loan, error) {
	var l domain.Loan
	query := q.Rebind(`SELECT ` + loanColumns + ` FROM loans l WHERE l.id = ?`)
	if err := q.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get loan by ID %s: %w", id, err)
	}
	return &l, nil
}

// TransitionLoanStatus performs a compare-and-set on the loan status.
func (r *LoanRepository) TransitionLoanStatus(ctx context.Context, q repository.DBExecutor, id string, from, to domain.LoanStatus, transactionID *string, at time.Time) (bool, error) {
	var (
		result sql.Result
		err    error
	)
	if transactionID != nil {
		query := q.Rebind(`UPDATE loans SET status = ?, transaction_id = ?, updated_at = ? WHERE id = ? AND status = ?`)
		result, err = q.ExecContext(ctx, query, to, *transactionID, at.UTC(), id, from)
	} else {
		query := q.Rebind(`UPDATE loans SET status = ?, updated_at = ? WHERE id = ? AND status = ?`)
		result, err = q.ExecContext(ctx, query, to, at.UTC(), id, from)
	}
	if err != nil {
		return false, fmt.Errorf("failed to move loan %s from %s to %s: %w", id, from, to, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected after updating loan %s: %w", id, err)
	}
	return rowsAffected == 1, nil
}

// ListOverdueLoans returns APPROVED loans due strictly before now.
func (r *LoanRepository) ListOverdueLoans(ctx context.Context, q repository.DBExecutor, now time.Time) ([]domain.Loan, error) {
	loans := []domain.Loan{}
	query := q.Rebind(`SELECT ` + loanColumns + ` FROM loans l WHERE l.status = ? AND l.due_date < ? ORDER BY l.due_date, l.id`)
	if err := q.SelectContext(ctx, &loans, query, domain.LoanApproved, now.UTC()); err != nil {
		return nil, fmt.Errorf("failed to list overdue loans: %w", err)
	}
	return loans, nil
}

// ListLoansByMembership returns a member's loans, newest first.
func (r *LoanRepository) ListLoansByMembership(ctx context.Context, q repository.DBExecutor, membershipID string) ([]domain.Loan, error) {
	loans := []domain.Loan{}
	query := q.Rebind(`SELECT ` + loanColumns + ` FROM loans l WHERE l.membership_id = ? ORDER BY l.created_at DESC, l.id`)
	if err := q.SelectContext(ctx, &loans, query, membershipID); err != nil {
		return nil, fmt.Errorf("failed to list loans for membership %s: %w", membershipID, err)
	}
	return loans, nil
}

// CountLoansByGroupAndStatus counts loans taken by members of a group in the given status.
func (r *LoanRepository) CountLoansByGroupAndStatus(ctx context.Context, q repository.DBExecutor, groupID string, status domain.LoanStatus) (int64, error) {
	var count int64
	query := q.Rebind(`SELECT COUNT(*) FROM loans l
		JOIN memberships m ON m.id = l.membership_id
		WHERE m.group_id = ? AND l.status = ?`)
	if err := q.GetContext(ctx, &count, query, groupID, status); err != nil {
		return 0, fmt.Errorf("failed to count %s loans for group %s: %w", status, groupID, err)
	}
	return count, nil
}
