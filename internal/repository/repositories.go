// internal/repository/repositories.go
package repository

// Repositories bundles the persistence ports the services depend on.
type Repositories struct {
	Users         UserRepository
	Groups        GroupRepository
	Memberships   MembershipRepository
	Contributions ContributionRepository
	Loans         LoanRepository
	Investments   InvestmentRepository
	Transactions  TransactionRepository
}
