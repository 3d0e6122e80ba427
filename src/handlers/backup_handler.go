package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/PaoloMadone/invest/src/services"
	"github.com/PaoloMadone/invest/src/utils"
)

type BackupHandler struct {
	backupService *services.BackupService
}

func NewBackupHandler(backupService *services.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// HandleExport writes the user's full data set to the configured backup
// file and streams the same document back as the response.
func (h *BackupHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	backup, err := h.backupService.Export(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error exporting backup for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=invest-backup.json")
	json.NewEncoder(w).Encode(backup)
}
