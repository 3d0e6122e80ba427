package services

import "github.com/PaoloMadone/invest/src/models"

// PriceSource resolves the current price of a symbol within an asset class.
// Absence of a price is a normal outcome (unknown symbol, provider down,
// rate limited), reported through ok=false — never as an error the caller
// has to unwrap. Implementations must be safe to call repeatedly for the
// same symbol.
type PriceSource interface {
	GetCurrentPrice(symbol string, assetClass models.AssetClass) (price float64, ok bool)
}

// SymbolMappingStore persists learned user-symbol to provider-ticker
// mappings so a successful exchange-suffix search does not have to be
// repeated on every price refresh.
type SymbolMappingStore interface {
	GetMapping(userSymbol string) (providerSymbol string, found bool, err error)
	SaveMapping(userSymbol, providerSymbol, companyName string) error
}
