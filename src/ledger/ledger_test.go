package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaoloMadone/invest/src/models"
)

func buy(date, symbol string, quantity, unitPrice float64) models.Transaction {
	return models.Transaction{
		Date:      date,
		Symbol:    symbol,
		Operation: models.OperationPurchase,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    quantity * unitPrice,
	}
}

func sell(date, symbol string, quantity, unitPrice float64) models.Transaction {
	return models.Transaction{
		Date:      date,
		Symbol:    symbol,
		Operation: models.OperationSale,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    quantity * unitPrice,
	}
}

func TestAvailableQuantity(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "AAPL", 2, 100),
		sell("2024-02-10", "AAPL", 1, 150),
		buy("2024-01-15", "MSFT", 5, 300),
	}

	assert.Equal(t, 1.0, AvailableQuantity(transactions, "AAPL"))
	assert.Equal(t, 5.0, AvailableQuantity(transactions, "MSFT"))
	assert.Equal(t, 0.0, AvailableQuantity(transactions, "GOOG"))
}

func TestAvailableQuantityCaseInsensitive(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "aapl", 2, 100),
		sell("2024-02-10", "AAPL", 1, 150),
	}

	assert.Equal(t, 1.0, AvailableQuantity(transactions, "Aapl"))
}

func TestAvailableQuantityClampsOversoldHistory(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "AAPL", 1, 100),
		sell("2024-02-10", "AAPL", 5, 150),
	}

	assert.Equal(t, 0.0, AvailableQuantity(transactions, "AAPL"))
}

func TestAvailableQuantityCountsRoundUpsAndSaveBacks(t *testing.T) {
	transactions := []models.Transaction{
		{Date: "2024-01-10", Symbol: "BTC", Operation: models.OperationRoundUp, Quantity: 0.01},
		{Date: "2024-01-11", Symbol: "BTC", Operation: models.OperationSaveBack, Quantity: 0.02},
		{Date: "2024-01-12", Symbol: "BTC", Operation: models.OperationPurchase, Quantity: 0.1},
	}

	assert.InDelta(t, 0.13, AvailableQuantity(transactions, "btc"), 1e-9)
}

func TestRemainingLotsSimpleRoundTrip(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "AAPL", 2, 100),
		sell("2024-02-10", "AAPL", 1, 150),
	}

	lots := RemainingLots(transactions, "AAPL")
	require.Len(t, lots, 1)

	lot := lots[0]
	assert.Equal(t, "2024-01-10", lot.Date)
	assert.Equal(t, 2.0, lot.InitialQuantity)
	assert.Equal(t, 1.0, lot.RemainingQuantity)
	assert.Equal(t, 100.0, lot.UnitPrice)
	assert.Equal(t, 200.0, lot.InitialAmount)
	assert.Equal(t, 100.0, lot.RemainingAmount)
	assert.InDelta(t, 0.5, lot.PercentSold, 1e-9)
}

func TestRemainingLotsFIFODepletesEarliestFirst(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-01", "AAPL", 100, 10),
		buy("2024-02-01", "AAPL", 50, 20),
		buy("2024-03-01", "AAPL", 30, 30),
		sell("2024-04-01", "AAPL", 120, 25),
	}

	lots := RemainingLots(transactions, "AAPL")
	require.Len(t, lots, 3)

	assert.Equal(t, 0.0, lots[0].RemainingQuantity)
	assert.Equal(t, 0.0, lots[0].RemainingAmount)
	assert.InDelta(t, 1.0, lots[0].PercentSold, 1e-9)

	assert.Equal(t, 30.0, lots[1].RemainingQuantity)
	assert.Equal(t, 600.0, lots[1].RemainingAmount)
	assert.InDelta(t, 0.4, lots[1].PercentSold, 1e-9)

	assert.Equal(t, 30.0, lots[2].RemainingQuantity)
	assert.Equal(t, 900.0, lots[2].RemainingAmount)
	assert.Equal(t, 0.0, lots[2].PercentSold)
}

func TestRemainingLotsSortsByDateBeforeMatching(t *testing.T) {
	// History arrives out of order; FIFO must follow the dates, not the
	// slice order.
	transactions := []models.Transaction{
		buy("2024-03-01", "AAPL", 30, 30),
		sell("2024-04-01", "AAPL", 10, 25),
		buy("2024-01-01", "AAPL", 100, 10),
	}

	lots := RemainingLots(transactions, "AAPL")
	require.Len(t, lots, 2)
	assert.Equal(t, "2024-01-01", lots[0].Date)
	assert.Equal(t, 90.0, lots[0].RemainingQuantity)
	assert.Equal(t, 30.0, lots[1].RemainingQuantity)
}

func TestRemainingLotsSameDayKeepsInsertionOrder(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "AAPL", 10, 10),
		buy("2024-01-10", "AAPL", 10, 20),
		sell("2024-01-20", "AAPL", 10, 30),
	}

	lots := RemainingLots(transactions, "AAPL")
	require.Len(t, lots, 2)
	assert.Equal(t, 10.0, lots[0].UnitPrice)
	assert.Equal(t, 0.0, lots[0].RemainingQuantity)
	assert.Equal(t, 10.0, lots[1].RemainingQuantity)
}

func TestRemainingLotsOversellTruncatesSilently(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "AAPL", 1, 100),
		sell("2024-02-10", "AAPL", 5, 150),
	}

	lots := RemainingLots(transactions, "AAPL")
	require.Len(t, lots, 1)
	assert.Equal(t, 0.0, lots[0].RemainingQuantity)
	assert.InDelta(t, 1.0, lots[0].PercentSold, 1e-9)
}

func TestRemainingLotsDoesNotMutateInput(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-03-01", "AAPL", 30, 30),
		buy("2024-01-01", "AAPL", 100, 10),
		sell("2024-04-01", "AAPL", 10, 25),
	}

	first := RemainingLots(transactions, "AAPL")
	assert.Equal(t, "2024-03-01", transactions[0].Date)
	assert.Equal(t, 30.0, transactions[0].Quantity)

	second := RemainingLots(transactions, "AAPL")
	assert.Equal(t, first, second)
}

func TestRealizedGainSimpleRoundTrip(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "AAPL", 2, 100),
		sell("2024-02-10", "AAPL", 1, 150),
	}

	gain := RealizedGain(transactions, "AAPL")
	assert.InDelta(t, 50.0, gain.Amount, 1e-9)
	assert.InDelta(t, 50.0, gain.Percentage, 1e-9)
	assert.Equal(t, 1.0, gain.QuantitySold)
	assert.InDelta(t, 150.0, gain.AvgSalePrice, 1e-9)
	assert.InDelta(t, 100.0, gain.AvgCostBasisPrice, 1e-9)
}

func TestRealizedGainMultiLotFIFO(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-01", "AAPL", 100, 10),
		buy("2024-02-01", "AAPL", 50, 20),
		buy("2024-03-01", "AAPL", 30, 30),
		sell("2024-04-01", "AAPL", 120, 25),
	}

	gain := RealizedGain(transactions, "AAPL")
	// 100 units at cost 10 and 20 units at cost 20, all sold at 25.
	assert.InDelta(t, 1600.0, gain.Amount, 1e-9)
	assert.Equal(t, 120.0, gain.QuantitySold)
	assert.InDelta(t, 25.0, gain.AvgSalePrice, 1e-9)
	assert.InDelta(t, 1400.0/120.0, gain.AvgCostBasisPrice, 1e-9)
	assert.InDelta(t, 1600.0/1400.0*100, gain.Percentage, 1e-9)
}

func TestRealizedGainNoSalesIsZero(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "AAPL", 2, 100),
	}

	assert.Equal(t, models.RealizedGain{}, RealizedGain(transactions, "AAPL"))
	assert.Equal(t, models.RealizedGain{}, RealizedGain(nil, "AAPL"))
}

func TestRealizedGainOversellKeepsNominalQuantity(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "AAPL", 1, 100),
		sell("2024-02-10", "AAPL", 5, 150),
	}

	gain := RealizedGain(transactions, "AAPL")
	// Only one unit had a cost basis to match against.
	assert.InDelta(t, 50.0, gain.Amount, 1e-9)
	assert.Equal(t, 5.0, gain.QuantitySold)
	assert.InDelta(t, 150.0, gain.AvgSalePrice, 1e-9)
	assert.InDelta(t, 100.0/5.0, gain.AvgCostBasisPrice, 1e-9)
}

func TestRealizedGainLoss(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "AAPL", 10, 100),
		sell("2024-02-10", "AAPL", 10, 80),
	}

	gain := RealizedGain(transactions, "AAPL")
	assert.InDelta(t, -200.0, gain.Amount, 1e-9)
	assert.InDelta(t, -20.0, gain.Percentage, 1e-9)
}

func TestRealizedGainIgnoresOtherSymbols(t *testing.T) {
	transactions := []models.Transaction{
		buy("2024-01-10", "AAPL", 2, 100),
		sell("2024-02-10", "AAPL", 1, 150),
		buy("2024-01-10", "MSFT", 10, 300),
		sell("2024-03-10", "MSFT", 10, 200),
	}

	gain := RealizedGain(transactions, "AAPL")
	assert.InDelta(t, 50.0, gain.Amount, 1e-9)
	assert.Equal(t, 1.0, gain.QuantitySold)
}
