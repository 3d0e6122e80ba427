package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/PaoloMadone/invest/src/budget"
	"github.com/PaoloMadone/invest/src/config"
	"github.com/PaoloMadone/invest/src/database"
	"github.com/PaoloMadone/invest/src/logger"
	"github.com/PaoloMadone/invest/src/models"
	"github.com/PaoloMadone/invest/src/utils"
	"github.com/PaoloMadone/invest/src/validation"
)

type IncomeHandler struct{}

func NewIncomeHandler() *IncomeHandler {
	return &IncomeHandler{}
}

func (h *IncomeHandler) HandleCreateIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Amount float64 `json:"amount"`
		Month  int     `json:"month"`
		Year   int     `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if errs := validation.ValidateIncome(payload.Amount, payload.Month, payload.Year); len(errs) > 0 {
		utils.SendJSONError(w, fmt.Sprintf("validation failed: %v", errs), http.StatusBadRequest)
		return
	}

	period := utils.PeriodString(payload.Year, payload.Month)
	incomes, err := queryUserIncomes(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying incomes for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	if budget.PeriodExists(incomes, period) {
		utils.SendJSONError(w, fmt.Sprintf("an income for %s already exists", period), http.StatusConflict)
		return
	}

	stockAllocation, cryptoAllocation := budget.AutoAllocations(payload.Amount, config.Cfg.InvestmentAllocationPercent)
	income := models.Income{
		UserID:           userID,
		Month:            payload.Month,
		Year:             payload.Year,
		Period:           period,
		Amount:           payload.Amount,
		StockAllocation:  stockAllocation,
		CryptoAllocation: cryptoAllocation,
	}

	res, err := database.DB.Exec(`
		INSERT INTO incomes (user_id, month, year, period, amount, stock_allocation, crypto_allocation)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		income.UserID, income.Month, income.Year, income.Period,
		income.Amount, income.StockAllocation, income.CryptoAllocation)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error inserting income for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	income.ID, _ = res.LastInsertId()

	logger.L.Info("Income recorded", "userID", userID, "period", period, "amount", payload.Amount)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(income)
}

func (h *IncomeHandler) HandleGetIncomes(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	incomes, err := queryUserIncomes(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying incomes for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(incomes)
}

func (h *IncomeHandler) HandleGetBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	incomes, err := queryUserIncomes(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying incomes for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	transactions, err := queryUserTransactions(userID, "")
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying transactions for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(budget.Status(incomes, transactions))
}
