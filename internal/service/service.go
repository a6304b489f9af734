// internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"
	"wakala-ledger/pkg/db"

	"github.com/shopspring/decimal"
)

// TxFuncs is the injected transaction lifecycle. Tests substitute mocks here.
type TxFuncs struct {
	Begin    db.BeginTxFunc
	Commit   db.CommitTxFunc
	Rollback db.RollbackTxFunc
}

// DefaultTxFuncs returns the pkg/db transaction helpers.
func DefaultTxFuncs() TxFuncs {
	return TxFuncs{Begin: db.BeginTx, Commit: db.CommitTx, Rollback: db.RollbackTx}
}

// Clock supplies the timestamps written to ledger state.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// txRunner runs a function inside a database transaction.
type txRunner struct {
	dbBeginner db.DBTxBeginner
	tx         TxFuncs
}

// inTx begins a transaction, runs fn with it and commits. Any error from fn
// rolls the transaction back.
func (r txRunner) inTx(ctx context.Context, op string, fn func(q repository.DBExecutor) error) error {
	txController, err := r.tx.Begin(ctx, r.dbBeginner)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer r.tx.Rollback(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("%s: transaction controller does not implement DBExecutor", op)
	}

	if err := fn(txExecutor); err != nil {
		return err
	}

	if err := r.tx.Commit(txController); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}

// notFound turns a repository util.ErrNotFound into the entity-specific
// sentinel while keeping util.ErrNotFound matchable.
func notFound(op string, specific error, id string, err error) error {
	if errors.Is(err, util.ErrNotFound) {
		return fmt.Errorf("%s: %w: %s: %w", op, specific, id, util.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// checkMoney rejects non-positive amounts with util.ErrInvalidAmount and
// sub-cent amounts with util.ErrInvalidInput.
func checkMoney(op string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return util.ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%s: amount %s has more than two decimal places: %w", op, amount, util.ErrInvalidInput)
	}
	return nil
}
