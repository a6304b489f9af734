// Package accrual computes time-dependent money values: interest owed on a
// loan and the growth of an investment. Every function is pure and uses
// decimal arithmetic, so calling it twice with the same inputs returns the
// same value.
//
// Day counting uses whole elapsed days and a fixed 365-day year. Leap years
// are ignored.
package accrual

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DaysPerYear is the fixed year length used for every accrual.
const DaysPerYear = 365

// MoneyPlaces is the number of decimal places results are rounded to.
const MoneyPlaces = 2

// powPrecision bounds the fractional power computation. It is fixed so that
// results never depend on anything but the inputs.
const powPrecision = 18

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(DaysPerYear)
)

// DaysBetween returns the number of whole days elapsed from start to end.
// Spans where end is not after start count as zero days.
func DaysBetween(start, end time.Time) int64 {
	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start) / (24 * time.Hour))
}

// YearFraction returns DaysBetween(start, end) / 365.
func YearFraction(start, end time.Time) decimal.Decimal {
	return decimal.NewFromInt(DaysBetween(start, end)).Div(daysPerYear)
}

// LoanInterest is simple interest over the loan term:
//
//	principal * ratePercent/100 * days/365
func LoanInterest(principal, ratePercent decimal.Decimal, start, due time.Time) decimal.Decimal {
	days := decimal.NewFromInt(DaysBetween(start, due))
	return principal.Mul(ratePercent).Mul(days).
		Div(hundred.Mul(daysPerYear)).
		Round(MoneyPlaces)
}

// TotalRepayment is the principal plus LoanInterest.
func TotalRepayment(principal, ratePercent decimal.Decimal, start, due time.Time) decimal.Decimal {
	return principal.Add(LoanInterest(principal, ratePercent, start, due)).Round(MoneyPlaces)
}

// InvestmentReturn is the gain on principal compounded annually by year fraction:
//
//	principal * (1 + annualRatePercent/100)^(days/365) - principal
//
// A zero asOf means "now".
func InvestmentReturn(principal, annualRatePercent decimal.Decimal, purchased, asOf time.Time) (decimal.Decimal, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	days := DaysBetween(purchased, asOf)
	if days == 0 || annualRatePercent.IsZero() || principal.IsZero() {
		return decimal.Zero, nil
	}

	growth := decimal.NewFromInt(1).Add(annualRatePercent.Div(hundred))
	exponent := decimal.NewFromInt(days).Div(daysPerYear)

	factor, err := growth.PowWithPrecision(exponent, powPrecision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("compound %s over %d days: %w", growth, days, err)
	}
	return principal.Mul(factor).Sub(principal).Round(MoneyPlaces), nil
}

// CurrentValue is the principal plus InvestmentReturn.
func CurrentValue(principal, annualRatePercent decimal.Decimal, purchased, asOf time.Time) (decimal.Decimal, error) {
	gain, err := InvestmentReturn(principal, annualRatePercent, purchased, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return principal.Add(gain), nil
}

// LoanQuote summarises what a borrower owes over the full loan term.
type LoanQuote struct {
	Principal      decimal.Decimal `json:"principal"`
	Rate           decimal.Decimal `json:"rate"`
	TermDays       int64           `json:"term_days"`
	Interest       decimal.Decimal `json:"interest"`
	TotalRepayment decimal.Decimal `json:"total_repayment"`
}

// QuoteLoan computes the interest and total repayment for a loan term.
func QuoteLoan(principal, ratePercent decimal.Decimal, start, due time.Time) LoanQuote {
	interest := LoanInterest(principal, ratePercent, start, due)
	return LoanQuote{
		Principal:      principal,
		Rate:           ratePercent,
		TermDays:       DaysBetween(start, due),
		Interest:       interest,
		TotalRepayment: principal.Add(interest),
	}
}
