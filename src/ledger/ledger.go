package ledger

import (
	"sort"
	"strings"

	"github.com/PaoloMadone/invest/src/models"
	"github.com/PaoloMadone/invest/src/utils"
)

// AvailableQuantity returns how many units of symbol are currently held:
// the sum of purchase-like quantities minus the sum of sale quantities.
// An oversold history is clamped to zero rather than reported negative;
// rejecting oversells is the caller's job (validation package), the ledger
// must still render imported histories.
func AvailableQuantity(transactions []models.Transaction, symbol string) float64 {
	var total float64
	for _, tx := range transactions {
		if !strings.EqualFold(tx.Symbol, symbol) {
			continue
		}
		if tx.Operation.IsSale() {
			total -= tx.Quantity
		} else {
			total += tx.Quantity
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

// RemainingLots rebuilds the FIFO lot state for one symbol from its full
// transaction history. Purchases become lots in chronological order; each
// sale then depletes the earliest lot first. Fully depleted lots are kept in
// the result so callers can display the sold-off fraction.
func RemainingLots(transactions []models.Transaction, symbol string) []models.Lot {
	purchases, sales := partitionBySymbol(transactions, symbol)

	lots := make([]models.Lot, 0, len(purchases))
	for _, p := range purchases {
		lots = append(lots, models.Lot{
			Date:              p.Date,
			Operation:         p.Operation,
			UnitPrice:         p.UnitPrice,
			InitialQuantity:   p.Quantity,
			RemainingQuantity: p.Quantity,
			InitialAmount:     p.Amount,
			RemainingAmount:   p.Amount,
		})
	}

	for _, sale := range sales {
		quantityToSell := sale.Quantity
		for i := range lots {
			if quantityToSell <= 0 {
				break
			}
			lot := &lots[i]
			if lot.RemainingQuantity <= 0 {
				continue
			}
			matched := min(lot.RemainingQuantity, quantityToSell)
			lot.RemainingQuantity -= matched
			lot.RemainingAmount = lot.RemainingQuantity * lot.UnitPrice
			quantityToSell -= matched
		}
		// A sale that outruns the lots is silently truncated here; see
		// AvailableQuantity for the matching clamp.
	}

	result := make([]models.Lot, 0, len(lots))
	for _, lot := range lots {
		if lot.InitialQuantity <= 0 {
			continue
		}
		lot.PercentSold = (lot.InitialQuantity - lot.RemainingQuantity) / lot.InitialQuantity
		result = append(result, lot)
	}
	return result
}

// RealizedGain walks the same FIFO matching as RemainingLots but accumulates
// the profit locked in by each matched portion: sale value minus the cost
// basis of the units consumed. A symbol with no sales returns the zero
// record, never an error.
func RealizedGain(transactions []models.Transaction, symbol string) models.RealizedGain {
	purchases, sales := partitionBySymbol(transactions, symbol)
	if len(sales) == 0 {
		return models.RealizedGain{}
	}

	type openLot struct {
		unitPrice float64
		remaining float64
	}
	lots := make([]openLot, 0, len(purchases))
	for _, p := range purchases {
		lots = append(lots, openLot{unitPrice: p.UnitPrice, remaining: p.Quantity})
	}

	var (
		totalGain    float64
		costBasisSum float64
		saleGrossSum float64
		quantitySold float64
	)
	for _, sale := range sales {
		// Nominal sold quantity, not reduced when lots run out.
		quantitySold += sale.Quantity
		saleGrossSum += sale.Amount

		quantityToSell := sale.Quantity
		for i := range lots {
			if quantityToSell <= 0 {
				break
			}
			lot := &lots[i]
			if lot.remaining <= 0 {
				continue
			}
			matched := min(lot.remaining, quantityToSell)
			costBasis := matched * lot.unitPrice
			saleValue := matched * sale.UnitPrice
			totalGain += saleValue - costBasis
			costBasisSum += costBasis
			lot.remaining -= matched
			quantityToSell -= matched
		}
	}

	gain := models.RealizedGain{
		Amount:       totalGain,
		QuantitySold: quantitySold,
	}
	if quantitySold > 0 {
		gain.AvgSalePrice = saleGrossSum / quantitySold
		gain.AvgCostBasisPrice = costBasisSum / quantitySold
	}
	if costBasisSum > 0 {
		gain.Percentage = totalGain / costBasisSum * 100
	}
	return gain
}

// partitionBySymbol filters to the symbol (case-insensitive), sorts
// chronologically keeping insertion order for same-day rows, and splits into
// purchase-like and sale transactions in that sorted order.
func partitionBySymbol(transactions []models.Transaction, symbol string) (purchases, sales []models.Transaction) {
	var filtered []models.Transaction
	for _, tx := range transactions {
		if strings.EqualFold(tx.Symbol, symbol) {
			filtered = append(filtered, tx)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return utils.ParseDate(filtered[i].Date).Before(utils.ParseDate(filtered[j].Date))
	})

	for _, tx := range filtered {
		if tx.Operation.IsSale() {
			sales = append(sales, tx)
		} else {
			purchases = append(purchases, tx)
		}
	}
	return purchases, sales
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
