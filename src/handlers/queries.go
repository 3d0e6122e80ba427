package handlers

import (
	"github.com/PaoloMadone/invest/src/database"
	"github.com/PaoloMadone/invest/src/models"
)

// queryUserIncomes loads all income rows for a user, oldest period first.
func queryUserIncomes(userID int64) ([]models.Income, error) {
	rows, err := database.DB.Query(`
		SELECT id, month, year, period, amount, stock_allocation, crypto_allocation
		FROM incomes WHERE user_id = ? ORDER BY period ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		var income models.Income
		income.UserID = userID
		if err := rows.Scan(&income.ID, &income.Month, &income.Year, &income.Period,
			&income.Amount, &income.StockAllocation, &income.CryptoAllocation); err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

// queryUserTransactions loads a user's transactions, optionally filtered by
// asset class. Insertion order is preserved for same-day rows (id ASC), which
// the ledger's stable sort relies on.
func queryUserTransactions(userID int64, assetClass models.AssetClass) ([]models.Transaction, error) {
	query := `
		SELECT id, date, symbol, asset_class, operation, quantity, unit_price, amount, out_of_budget
		FROM transactions WHERE user_id = ?`
	args := []interface{}{userID}
	if assetClass != "" {
		query += ` AND asset_class = ?`
		args = append(args, assetClass)
	}
	query += ` ORDER BY date ASC, id ASC`

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		tx.UserID = userID
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Symbol, &tx.AssetClass, &tx.Operation,
			&tx.Quantity, &tx.UnitPrice, &tx.Amount, &tx.OutOfBudget); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
