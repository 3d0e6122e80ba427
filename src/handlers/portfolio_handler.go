package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PaoloMadone/invest/src/ledger"
	"github.com/PaoloMadone/invest/src/logger"
	"github.com/PaoloMadone/invest/src/models"
	"github.com/PaoloMadone/invest/src/services"
	"github.com/PaoloMadone/invest/src/utils"
)

type PortfolioHandler struct {
	performanceService *services.PerformanceService
}

func NewPortfolioHandler(performanceService *services.PerformanceService) *PortfolioHandler {
	return &PortfolioHandler{performanceService: performanceService}
}

// HandleGetLots returns the FIFO lot breakdown and available quantity for
// one symbol.
func (h *PortfolioHandler) HandleGetLots(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		utils.SendJSONError(w, "symbol query parameter is required", http.StatusBadRequest)
		return
	}

	transactions, err := queryUserTransactions(userID, "")
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying transactions for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"symbol":             strings.ToUpper(symbol),
		"available_quantity": ledger.AvailableQuantity(transactions, symbol),
		"lots":               ledger.RemainingLots(transactions, symbol),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleGetRealizedGain returns the FIFO realized P&L record for one symbol.
func (h *PortfolioHandler) HandleGetRealizedGain(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		utils.SendJSONError(w, "symbol query parameter is required", http.StatusBadRequest)
		return
	}

	transactions, err := queryUserTransactions(userID, "")
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying transactions for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ledger.RealizedGain(transactions, symbol))
}

// HandleGetPerformance returns one asset class's transactions enriched with
// live valuations. Symbols whose price cannot be resolved come back flagged,
// not missing.
func (h *PortfolioHandler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	assetClass, err := parseAssetClass(r.URL.Query().Get("class"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, err := queryUserTransactions(userID, assetClass)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying transactions for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	enriched := h.performanceService.EnrichTransactions(transactions, assetClass)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(enriched)
}

// HandleGetSummary returns the cross-asset portfolio summary. The response
// carries an ETag; a matching If-None-Match short-circuits to 304 since
// pricing an entire portfolio is the most expensive request we serve.
func (h *PortfolioHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	cryptoTxs, err := queryUserTransactions(userID, models.AssetClassCrypto)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying crypto transactions for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	stockTxs, err := queryUserTransactions(userID, models.AssetClassStock)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying stock transactions for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	cryptoEnriched := h.performanceService.EnrichTransactions(cryptoTxs, models.AssetClassCrypto)
	stockEnriched := h.performanceService.EnrichTransactions(stockTxs, models.AssetClassStock)
	summary := h.performanceService.PortfolioSummary(cryptoEnriched, stockEnriched)

	etag, err := utils.GenerateETag(summary)
	if err != nil {
		logger.L.Warn("Failed to generate ETag for portfolio summary", "userID", userID, "error", err)
	} else {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
