package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PaoloMadone/invest/src/budget"
	"github.com/PaoloMadone/invest/src/database"
	"github.com/PaoloMadone/invest/src/logger"
	"github.com/PaoloMadone/invest/src/models"
	"github.com/PaoloMadone/invest/src/utils"
	"github.com/PaoloMadone/invest/src/validation"
)

type TransactionHandler struct{}

func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

type transactionPayload struct {
	Date        string               `json:"date"`
	Symbol      string               `json:"symbol"`
	AssetClass  models.AssetClass    `json:"asset_class"`
	Operation   models.OperationKind `json:"operation"`
	Amount      float64              `json:"amount"`
	UnitPrice   float64              `json:"unit_price"`
	OutOfBudget bool                 `json:"out_of_budget"`
}

func parseAssetClass(raw string) (models.AssetClass, error) {
	switch models.AssetClass(raw) {
	case models.AssetClassStock, models.AssetClassCrypto:
		return models.AssetClass(raw), nil
	default:
		return "", fmt.Errorf("unknown asset class %q", raw)
	}
}

func (h *TransactionHandler) HandleRecordPurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := parseAssetClass(string(payload.AssetClass)); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if errs := validation.ValidateInvestment(payload.Amount, payload.UnitPrice, payload.Symbol); len(errs) > 0 {
		utils.SendJSONError(w, fmt.Sprintf("validation failed: %v", errs), http.StatusBadRequest)
		return
	}

	operation := payload.Operation
	switch operation {
	case "", models.OperationPurchase:
		operation = models.OperationPurchase
	case models.OperationRoundUp, models.OperationSaveBack:
		// Named purchase subtypes, still lot-creating.
	default:
		utils.SendJSONError(w, fmt.Sprintf("operation %q is not a purchase kind", operation), http.StatusBadRequest)
		return
	}

	quantity, err := budget.QuantityFor(payload.Amount, payload.UnitPrice)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx := models.Transaction{
		UserID:      userID,
		Date:        payload.Date,
		Symbol:      strings.ToUpper(strings.TrimSpace(payload.Symbol)),
		AssetClass:  payload.AssetClass,
		Operation:   operation,
		Quantity:    quantity,
		UnitPrice:   payload.UnitPrice,
		Amount:      payload.Amount,
		OutOfBudget: payload.OutOfBudget,
	}
	if err := insertTransaction(&tx); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error inserting transaction for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	logger.L.Info("Purchase recorded", "userID", userID, "symbol", tx.Symbol, "assetClass", tx.AssetClass, "amount", tx.Amount)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

func (h *TransactionHandler) HandleRecordSale(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := parseAssetClass(string(payload.AssetClass)); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	quantity, err := budget.QuantityFor(payload.Amount, payload.UnitPrice)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := queryUserTransactions(userID, payload.AssetClass)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying transactions for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	if errs := validation.ValidateSale(payload.Amount, payload.UnitPrice, quantity, payload.Symbol, existing); len(errs) > 0 {
		utils.SendJSONError(w, fmt.Sprintf("validation failed: %v", errs), http.StatusBadRequest)
		return
	}

	tx := models.Transaction{
		UserID:     userID,
		Date:       payload.Date,
		Symbol:     strings.ToUpper(strings.TrimSpace(payload.Symbol)),
		AssetClass: payload.AssetClass,
		Operation:  models.OperationSale,
		Quantity:   quantity,
		UnitPrice:  payload.UnitPrice,
		Amount:     payload.Amount,
		// Sales never consume budget.
		OutOfBudget: true,
	}
	if err := insertTransaction(&tx); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error inserting transaction for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	logger.L.Info("Sale recorded", "userID", userID, "symbol", tx.Symbol, "assetClass", tx.AssetClass, "amount", tx.Amount)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var assetClass models.AssetClass
	if raw := r.URL.Query().Get("class"); raw != "" {
		parsed, err := parseAssetClass(raw)
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		assetClass = parsed
	}

	transactions, err := queryUserTransactions(userID, assetClass)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying transactions for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

func (h *TransactionHandler) HandleDeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	result, err := database.DB.Exec(`DELETE FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error deleting transactions for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	deleted, _ := result.RowsAffected()

	logger.L.Info("All transactions deleted", "userID", userID, "count", deleted)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"deleted": deleted})
}

func insertTransaction(tx *models.Transaction) error {
	res, err := database.DB.Exec(`
		INSERT INTO transactions (user_id, date, symbol, asset_class, operation, quantity, unit_price, amount, out_of_budget)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.Date, tx.Symbol, tx.AssetClass, tx.Operation,
		tx.Quantity, tx.UnitPrice, tx.Amount, tx.OutOfBudget)
	if err != nil {
		return err
	}
	tx.ID, _ = res.LastInsertId()
	return nil
}
