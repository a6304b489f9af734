// internal/repository/sqlrepo/repositories.go
package sqlrepo

import (
	"wakala-ledger/internal/repository"

	"github.com/jmoiron/sqlx"
)

// NewRepositories builds every SQL repository for conn.
func NewRepositories(conn *sqlx.DB) repository.Repositories {
	return repository.Repositories{
		Users:         NewUserRepository(conn),
		Groups:        NewGroupRepository(conn),
		Memberships:   NewMembershipRepository(conn),
		Contributions: NewContributionRepository(conn),
		Loans:         NewLoanRepository(conn),
		Investments:   NewInvestmentRepository(conn),
		Transactions:  NewTransactionRepository(conn),
	}
}
