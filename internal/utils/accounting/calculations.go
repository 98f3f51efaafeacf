package accounting

import (
	"fmt"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrientedBalance computes the running balance of an account from its total
// debits and credits, oriented by the type's normal polarity: debit-normal
// accounts grow with debits, credit-normal accounts grow with credits.
func OrientedBalance(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// SignedLineAmount returns the signed contribution of a single journal line to
// its account's balance, oriented by the account type's polarity.
func SignedLineAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	return OrientedBalance(accountType, line.Debit, line.Credit)
}

// SplitBalance routes an account's signed balance into trial balance columns.
// A positive balance lands on the account's normal side; a negative balance is
// abnormal and is reported, not rejected, on the opposite side.
func SplitBalance(accountType domain.AccountType, balance decimal.Decimal) (debit, credit decimal.Decimal, abnormal bool) {
	negative := balance.IsNegative()
	magnitude := balance.Abs()

	if accountType.IsDebitNormal() {
		if negative {
			return decimal.Zero, magnitude, true
		}
		return magnitude, decimal.Zero, false
	}
	if negative {
		return magnitude, decimal.Zero, true
	}
	return decimal.Zero, magnitude, false
}
