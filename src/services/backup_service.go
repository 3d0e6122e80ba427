package services

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/PaoloMadone/invest/src/database"
	"github.com/PaoloMadone/invest/src/logger"
	"github.com/PaoloMadone/invest/src/models"
)

// BackupService exports everything a user has entered to a local JSON file,
// mirroring what the hosted store holds. The export doubles as the download
// payload.
type BackupService struct {
	filePath string
}

func NewBackupService(filePath string) *BackupService {
	return &BackupService{filePath: filePath}
}

// Export gathers the user's incomes and transactions, writes them as
// indented JSON to the configured backup file and returns the document.
func (s *BackupService) Export(userID int64) (*models.Backup, error) {
	incomes, err := loadIncomes(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load incomes for backup: %w", err)
	}
	transactions, err := loadTransactions(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for backup: %w", err)
	}

	backup := &models.Backup{
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		Incomes:      incomes,
		Transactions: transactions,
	}

	jsonData, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.WriteFile(s.filePath, jsonData, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write backup file %s: %w", s.filePath, err)
	}

	logger.L.Info("Backup exported", "userID", userID, "path", s.filePath,
		"incomes", len(incomes), "transactions", len(transactions))
	return backup, nil
}

func loadIncomes(userID int64) ([]models.Income, error) {
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

func loadTransactions(userID int64) ([]models.Transaction, error) {
	rows, err := database.DB.Query(`
		SELECT id, date, symbol, asset_class, operation, quantity, unit_price, amount, out_of_budget
		FROM transactions WHERE user_id = ? ORDER BY date ASC, id ASC`, userID)
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
