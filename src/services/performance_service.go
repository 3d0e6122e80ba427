package services

import (
	"strings"

	"github.com/PaoloMadone/invest/src/ledger"
	"github.com/PaoloMadone/invest/src/models"
)

// PerformanceService attaches live valuations to transaction batches and
// rolls them up into per-class and portfolio-level summaries. It holds no
// state of its own; price caching is the PriceSource's concern.
type PerformanceService struct {
	prices PriceSource
}

func NewPerformanceService(prices PriceSource) *PerformanceService {
	return &PerformanceService{prices: prices}
}

// EnrichTransactions resolves the current price once per distinct symbol in
// the batch and applies it to every transaction of that symbol. Price feeds
// are rate limited, so one lookup per transaction would be a correctness
// problem, not just wasted work.
//
// Purchase rows get a current value and P&L against their entry price. Sale
// rows are always reported at zero: the position no longer exists and
// per-row P&L on a sale is meaningless outside the FIFO matching — realized
// gains come from the ledger, per symbol. A symbol with no resolvable price
// degrades to current value == gross amount with PriceResolved false.
func (s *PerformanceService) EnrichTransactions(transactions []models.Transaction, assetClass models.AssetClass) []models.EnrichedTransaction {
	type resolvedPrice struct {
		price float64
		ok    bool
	}
	pricesBySymbol := make(map[string]resolvedPrice)
	for _, tx := range transactions {
		key := strings.ToUpper(tx.Symbol)
		if _, done := pricesBySymbol[key]; done {
			continue
		}
		price, ok := s.prices.GetCurrentPrice(tx.Symbol, assetClass)
		pricesBySymbol[key] = resolvedPrice{price: price, ok: ok}
	}

	enriched := make([]models.EnrichedTransaction, 0, len(transactions))
	for _, tx := range transactions {
		e := models.EnrichedTransaction{Transaction: tx}
		resolved := pricesBySymbol[strings.ToUpper(tx.Symbol)]

		switch {
		case tx.Operation.IsSale():
			e.PriceResolved = resolved.ok
			if resolved.ok {
				e.CurrentPrice = resolved.price
			}
			// CurrentValue, GainAmount and GainPercent stay zero.
		case resolved.ok:
			e.PriceResolved = true
			e.CurrentPrice = resolved.price
			e.CurrentValue = tx.Quantity * resolved.price
			e.GainAmount = e.CurrentValue - tx.Amount
			if tx.UnitPrice > 0 {
				e.GainPercent = (resolved.price - tx.UnitPrice) / tx.UnitPrice * 100
			}
		default:
			// No price: assume no change so portfolio totals stay defined.
			e.CurrentValue = tx.Amount
		}
		enriched = append(enriched, e)
	}
	return enriched
}

// PortfolioSummary rolls both enriched asset classes into one report. An
// empty class yields an all-zero summary, never an absent one, so the cross
// totals are always well defined.
func (s *PerformanceService) PortfolioSummary(cryptoEnriched, stockEnriched []models.EnrichedTransaction) models.PortfolioSummary {
	cryptoSummary := summarizeClass(cryptoEnriched)
	stockSummary := summarizeClass(stockEnriched)

	total := models.AssetSummary{
		InitialValue:   cryptoSummary.InitialValue + stockSummary.InitialValue,
		CurrentValue:   cryptoSummary.CurrentValue + stockSummary.CurrentValue,
		RealizedGain:   cryptoSummary.RealizedGain + stockSummary.RealizedGain,
		UnrealizedGain: cryptoSummary.UnrealizedGain + stockSummary.UnrealizedGain,
		TotalGain:      cryptoSummary.TotalGain + stockSummary.TotalGain,
	}
	// Recomputed from the summed figures; averaging the per-class
	// percentages would be a percentage-of-percentage error.
	if total.InitialValue > 0 {
		total.GainPercentage = total.TotalGain / total.InitialValue * 100
	}

	return models.PortfolioSummary{
		Crypto: cryptoSummary,
		Stock:  stockSummary,
		Total:  total,
	}
}

func summarizeClass(enriched []models.EnrichedTransaction) models.AssetSummary {
	var summary models.AssetSummary
	transactions := make([]models.Transaction, 0, len(enriched))
	symbolsSeen := make(map[string]bool)

	for _, e := range enriched {
		transactions = append(transactions, e.Transaction)
		symbolsSeen[strings.ToUpper(e.Symbol)] = true

		if e.Operation.IsSale() {
			// Sold positions contribute nothing to invested or current value.
			continue
		}
		summary.InitialValue += e.Amount
		summary.CurrentValue += e.CurrentValue
	}

	summary.UnrealizedGain = summary.CurrentValue - summary.InitialValue
	for symbol := range symbolsSeen {
		summary.RealizedGain += ledger.RealizedGain(transactions, symbol).Amount
	}
	summary.TotalGain = summary.RealizedGain + summary.UnrealizedGain
	if summary.InitialValue > 0 {
		summary.GainPercentage = summary.TotalGain / summary.InitialValue * 100
	}
	return summary
}
