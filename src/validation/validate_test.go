package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PaoloMadone/invest/src/models"
)

func TestValidateIncome(t *testing.T) {
	assert.Empty(t, ValidateIncome(2500, 6, 2024))

	errs := ValidateIncome(0, 13, 2019)
	assert.Len(t, errs, 3)
	assert.Contains(t, errs, "net income must be greater than 0")
	assert.Contains(t, errs, "month must be between 1 and 12")
	assert.Contains(t, errs, "year must be between 2020 and 2030")
}

func TestValidateInvestment(t *testing.T) {
	assert.Empty(t, ValidateInvestment(100, 50, "AAPL"))

	errs := ValidateInvestment(-1, 0, "  ")
	assert.Len(t, errs, 3)
}

func TestValidateSaleAcceptsCoveredSale(t *testing.T) {
	transactions := []models.Transaction{
		{Date: "2024-01-10", Symbol: "AAPL", Operation: models.OperationPurchase, Quantity: 5},
	}

	assert.Empty(t, ValidateSale(300, 150, 2, "AAPL", transactions))
}

func TestValidateSaleRejectsOversell(t *testing.T) {
	transactions := []models.Transaction{
		{Date: "2024-01-10", Symbol: "AAPL", Operation: models.OperationPurchase, Quantity: 1},
	}

	errs := ValidateSale(750, 150, 5, "AAPL", transactions)
	assert.Len(t, errs, 1)
	assert.Equal(t, "insufficient quantity: available 1.0000, requested 5.0000", errs[0])
}

func TestValidateSaleSkipsPositionCheckOnBadInput(t *testing.T) {
	// Field errors come first; the position check only runs on otherwise
	// valid input.
	errs := ValidateSale(0, 0, 0, "", nil)
	assert.Len(t, errs, 4)
}
