package models

// AssetClass identifies which of the two tracked portfolios a transaction
// belongs to. Each class has its own budget allocation and price source.
type AssetClass string

const (
	AssetClassStock  AssetClass = "stock"
	AssetClassCrypto AssetClass = "crypto"
)

// OperationKind classifies a transaction for ledger purposes. Anything that
// is not a sale creates a purchase lot, even the named subtypes the UI
// distinguishes (round-ups, save-backs).
type OperationKind string

const (
	OperationPurchase OperationKind = "Purchase"
	OperationSale     OperationKind = "Sale"
	OperationRoundUp  OperationKind = "RoundUp"
	OperationSaveBack OperationKind = "SaveBack"
)

// IsSale reports whether the operation removes quantity from the position.
func (k OperationKind) IsSale() bool {
	return k == OperationSale
}

// Transaction is one recorded purchase or sale of a symbol. Quantity, unit
// price and amount are always stored positive; the sign of a sale is carried
// by the operation kind, never by the stored value.
type Transaction struct {
	ID          int64         `json:"id,omitempty"`
	UserID      int64         `json:"user_id,omitempty"`
	Date        string        `json:"date"` // ISO 8601 (YYYY-MM-DD)
	Symbol      string        `json:"symbol"`
	AssetClass  AssetClass    `json:"asset_class"`
	Operation   OperationKind `json:"operation"`
	Quantity    float64       `json:"quantity"`
	UnitPrice   float64       `json:"unit_price"`
	Amount      float64       `json:"amount"` // gross amount at transaction time
	OutOfBudget bool          `json:"out_of_budget"`
}

// Lot is a purchase position tracked for FIFO matching. Initial values are
// fixed at creation; remaining values shrink as sales consume the lot. A
// fully depleted lot stays in the result set so the caller can show its
// sold-off history.
type Lot struct {
	Date              string        `json:"date"`
	Operation         OperationKind `json:"operation"`
	UnitPrice         float64       `json:"unit_price"`
	InitialQuantity   float64       `json:"initial_quantity"`
	RemainingQuantity float64       `json:"remaining_quantity"`
	InitialAmount     float64       `json:"initial_amount"`
	RemainingAmount   float64       `json:"remaining_amount"`
	PercentSold       float64       `json:"percent_sold"`
}

// RealizedGain aggregates the profit locked in by all sales of one symbol,
// computed against the FIFO-matched cost basis. A symbol with no sale
// history yields the zero value.
type RealizedGain struct {
	Amount            float64 `json:"realized_gain"`
	Percentage        float64 `json:"realized_gain_percentage"`
	QuantitySold      float64 `json:"quantity_sold"`
	AvgSalePrice      float64 `json:"avg_sale_price"`
	AvgCostBasisPrice float64 `json:"avg_cost_basis_price"`
}

// EnrichedTransaction is a transaction with a live valuation attached.
// CurrentPrice is only meaningful when PriceResolved is true; unresolved
// purchases fall back to their gross amount so totals stay defined.
type EnrichedTransaction struct {
	Transaction
	CurrentPrice  float64 `json:"current_price"`
	CurrentValue  float64 `json:"current_value"`
	GainAmount    float64 `json:"gain_amount"`
	GainPercent   float64 `json:"gain_percent"`
	PriceResolved bool    `json:"price_resolved"`
}

// AssetSummary rolls one asset class up to portfolio-level figures. Sales
// never count as invested capital and a sold-out position contributes zero
// to the current value.
type AssetSummary struct {
	InitialValue   float64 `json:"initial_value"`
	CurrentValue   float64 `json:"current_value"`
	RealizedGain   float64 `json:"realized_gain"`
	UnrealizedGain float64 `json:"unrealized_gain"`
	TotalGain      float64 `json:"total_gain"`
	GainPercentage float64 `json:"gain_percentage"`
}

// PortfolioSummary combines both asset classes. Total is the pairwise sum of
// the two class summaries with the percentage recomputed from the summed
// figures.
type PortfolioSummary struct {
	Crypto AssetSummary `json:"crypto"`
	Stock  AssetSummary `json:"stock"`
	Total  AssetSummary `json:"total"`
}

// Income is one month of recorded net income with the fixed-percentage
// amounts earmarked for each asset class.
type Income struct {
	ID               int64   `json:"id,omitempty"`
	UserID           int64   `json:"user_id,omitempty"`
	Month            int     `json:"month"`
	Year             int     `json:"year"`
	Period           string  `json:"period"` // YYYY-MM
	Amount           float64 `json:"amount"`
	StockAllocation  float64 `json:"stock_allocation"`
	CryptoAllocation float64 `json:"crypto_allocation"`
}

// BudgetStatus reports how much of the earmarked investment budget is
// available, spent and left, per asset class and combined.
type BudgetStatus struct {
	StockBudget     float64 `json:"stock_budget"`
	CryptoBudget    float64 `json:"crypto_budget"`
	TotalBudget     float64 `json:"total_budget"`
	UsedBudget      float64 `json:"used_budget"`
	TotalInvested   float64 `json:"total_invested"`
	RemainingBudget float64 `json:"remaining_budget"`
}

// Backup is the document written by the backup export: everything a user has
// entered, in plain serializable form.
type Backup struct {
	ExportedAt   string        `json:"exported_at"`
	Incomes      []Income      `json:"incomes"`
	Transactions []Transaction `json:"transactions"`
}
