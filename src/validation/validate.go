package validation

import (
	"fmt"
	"strings"

	"github.com/PaoloMadone/invest/src/ledger"
	"github.com/PaoloMadone/invest/src/models"
)

// ValidateIncome checks a monthly income entry. Returns the list of
// validation errors, empty when the entry is valid.
func ValidateIncome(amount float64, month, year int) []string {
	var errs []string
	if amount <= 0 {
		errs = append(errs, "net income must be greater than 0")
	}
	if month < 1 || month > 12 {
		errs = append(errs, "month must be between 1 and 12")
	}
	if year < 2020 || year > 2030 {
		errs = append(errs, "year must be between 2020 and 2030")
	}
	return errs
}

// ValidateInvestment checks a purchase entry.
func ValidateInvestment(amount, unitPrice float64, symbol string) []string {
	var errs []string
	if amount <= 0 {
		errs = append(errs, "amount must be greater than 0")
	}
	if unitPrice <= 0 {
		errs = append(errs, "unit price must be greater than 0")
	}
	if strings.TrimSpace(symbol) == "" {
		errs = append(errs, "symbol is required")
	}
	return errs
}

// ValidateSale checks a sale entry against the existing position. Overselling
// is rejected here, at entry time; the ledger itself stays lenient so that
// already-recorded inconsistent histories still render.
func ValidateSale(amount, unitPrice, quantity float64, symbol string, transactions []models.Transaction) []string {
	var errs []string
	if amount <= 0 {
		errs = append(errs, "sale amount must be greater than 0")
	}
	if unitPrice <= 0 {
		errs = append(errs, "sale unit price must be greater than 0")
	}
	if quantity <= 0 {
		errs = append(errs, "sale quantity must be greater than 0")
	}
	if strings.TrimSpace(symbol) == "" {
		errs = append(errs, "symbol is required")
	}

	if len(errs) == 0 {
		available := ledger.AvailableQuantity(transactions, symbol)
		if quantity > available {
			errs = append(errs, fmt.Sprintf("insufficient quantity: available %.4f, requested %.4f", available, quantity))
		}
	}
	return errs
}
