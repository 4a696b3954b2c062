// Package allocation tracks money committed away from discretionary spending:
// lockups and savings goals.
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
	"moneytrack/internal/ledger"
)

// TotalLockups sums the remaining balance of every lockup.
func TotalLockups(lockups []core.Lockup) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lockups {
		total = total.Add(l.Balance)
	}
	return total
}

// TotalSavings sums the current amount of every saving goal.
func TotalSavings(savings []core.Saving) decimal.Decimal {
	total := decimal.Zero
	for _, s := range savings {
		total = total.Add(s.CurrentAmount)
	}
	return total
}

// TotalSavingsTarget sums the targets of every saving goal.
func TotalSavingsTarget(savings []core.Saving) decimal.Decimal {
	total := decimal.Zero
	for _, s := range savings {
		total = total.Add(s.TargetAmount)
	}
	return total
}

// Progress is the percentage of target reached, between 0 and 100.
func Progress(current, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	return current.Div(target).Mul(decimal.NewFromInt(100)).Round(1)
}

// AvailableBalance is net balance minus everything locked or saved. It is
// not clamped and goes negative when commitments exceed the net balance.
func AvailableBalance(txs []core.Transaction, lockups []core.Lockup, savings []core.Saving) decimal.Decimal {
	return ledger.NetBalance(txs).Sub(TotalLockups(lockups)).Sub(TotalSavings(savings))
}

// SpendFromLockup returns l with amount taken from its balance. Spending more
// than the balance is rejected with core.ErrInsufficientFunds.
func SpendFromLockup(l core.Lockup, amount decimal.Decimal) (core.Lockup, error) {
	if !amount.IsPositive() {
		return l, core.ErrInvalidAmount
	}
	if amount.GreaterThan(l.Balance) {
		return l, fmt.Errorf("%w: %s available in %q", core.ErrInsufficientFunds, l.Balance, l.Title)
	}
	updated := l
	updated.Balance = decimal.Max(decimal.Zero, l.Balance.Sub(amount))
	return updated, nil
}

// ContributeToSaving adds amount to s, clamped at the target. Overflow is
// discarded.
func ContributeToSaving(s core.Saving, amount decimal.Decimal) (core.Saving, error) {
	if !amount.IsPositive() {
		return s, core.ErrInvalidAmount
	}
	updated := s
	updated.CurrentAmount = decimal.Min(s.TargetAmount, s.CurrentAmount.Add(amount))
	return updated, nil
}

// WithdrawFromSaving takes amount out of s, clamped at zero.
func WithdrawFromSaving(s core.Saving, amount decimal.Decimal) (core.Saving, error) {
	if !amount.IsPositive() {
		return s, core.ErrInvalidAmount
	}
	updated := s
	updated.CurrentAmount = decimal.Max(decimal.Zero, s.CurrentAmount.Sub(amount))
	return updated, nil
}
