package model

import (
	"database/sql"
	"time"
)

// SymbolMapping caches the provider ticker a user symbol resolved to, so the
// exchange-suffix search only runs once per symbol.
type SymbolMapping struct {
	UserSymbol     string
	ProviderSymbol string
	CompanyName    sql.NullString
	CreatedAt      time.Time
	LastCheckedAt  sql.NullTime
}

// SymbolMappingDB implements the price service's mapping store on the
// application database.
type SymbolMappingDB struct {
	DB *sql.DB
}

func (s *SymbolMappingDB) GetMapping(userSymbol string) (string, bool, error) {
	row := s.DB.QueryRow(`SELECT provider_symbol FROM symbol_mappings WHERE user_symbol = ?`, userSymbol)
	var providerSymbol string
	if err := row.Scan(&providerSymbol); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return providerSymbol, true, nil
}

func (s *SymbolMappingDB) SaveMapping(userSymbol, providerSymbol, companyName string) error {
	_, err := s.DB.Exec(`
		INSERT INTO symbol_mappings (user_symbol, provider_symbol, company_name, last_checked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_symbol) DO UPDATE SET
			provider_symbol = excluded.provider_symbol,
			company_name = excluded.company_name,
			last_checked_at = excluded.last_checked_at`,
		userSymbol, providerSymbol, companyName, time.Now())
	return err
}
