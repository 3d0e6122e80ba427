package budget

import (
	"errors"
	"math"

	"github.com/PaoloMadone/invest/src/models"
	"github.com/PaoloMadone/invest/src/utils"
)

var ErrInvalidQuantityInput = errors.New("amount and unit price must be greater than 0")

// AutoAllocations splits a monthly net income into the amounts earmarked for
// stock and crypto investing, each a fixed percentage rounded to cents.
func AutoAllocations(netIncome, percent float64) (stockAllocation, cryptoAllocation float64) {
	stockAllocation = utils.RoundFloat(netIncome*percent, 2)
	cryptoAllocation = utils.RoundFloat(netIncome*percent, 2)
	return stockAllocation, cryptoAllocation
}

// PeriodExists reports whether an income entry already covers a YYYY-MM
// period.
func PeriodExists(incomes []models.Income, period string) bool {
	for _, income := range incomes {
		if income.Period == period {
			return true
		}
	}
	return false
}

// QuantityFor derives the asset quantity bought or sold from an amount and a
// unit price. This is the one place the package refuses to proceed:
// dividing by a non-positive price yields a meaningless quantity.
func QuantityFor(amount, unitPrice float64) (float64, error) {
	if amount <= 0 || unitPrice <= 0 {
		return 0, ErrInvalidQuantityInput
	}
	return amount / unitPrice, nil
}

// AvailableBudget sums the earmarked allocations across all recorded
// incomes. Each class budget is rounded up to the next whole unit, matching
// how the dashboard has always displayed budgets.
func AvailableBudget(incomes []models.Income) (stockBudget, cryptoBudget, totalBudget float64) {
	var stockRaw, cryptoRaw float64
	for _, income := range incomes {
		stockRaw += income.StockAllocation
		cryptoRaw += income.CryptoAllocation
	}
	stockBudget = math.Ceil(stockRaw)
	cryptoBudget = math.Ceil(cryptoRaw)
	return stockBudget, cryptoBudget, stockBudget + cryptoBudget
}

// UsedBudget sums transaction amounts against the budget. Out-of-budget rows
// (including every sale) do not consume budget but still count toward the
// total invested figure.
func UsedBudget(transactions []models.Transaction) (usedBudget, totalInvested float64) {
	for _, tx := range transactions {
		if !tx.OutOfBudget {
			usedBudget += tx.Amount
		}
		totalInvested += tx.Amount
	}
	return usedBudget, totalInvested
}

// RemainingBudget is what is left to invest.
func RemainingBudget(availableBudget, usedBudget float64) float64 {
	return availableBudget - usedBudget
}

// Status rolls the budget figures for one user into a single report.
func Status(incomes []models.Income, transactions []models.Transaction) models.BudgetStatus {
	stockBudget, cryptoBudget, totalBudget := AvailableBudget(incomes)
	usedBudget, totalInvested := UsedBudget(transactions)
	return models.BudgetStatus{
		StockBudget:     stockBudget,
		CryptoBudget:    cryptoBudget,
		TotalBudget:     totalBudget,
		UsedBudget:      usedBudget,
		TotalInvested:   totalInvested,
		RemainingBudget: RemainingBudget(totalBudget, usedBudget),
	}
}
