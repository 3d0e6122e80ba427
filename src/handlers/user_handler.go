package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PaoloMadone/invest/src/config"
	"github.com/PaoloMadone/invest/src/database"
	"github.com/PaoloMadone/invest/src/logger"
	"github.com/PaoloMadone/invest/src/model"
	"github.com/PaoloMadone/invest/src/security"
	"github.com/PaoloMadone/invest/src/utils"
)

type UserHandler struct {
	authService *security.AuthService
}

func NewUserHandler(authService *security.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	credentials.Username = strings.TrimSpace(credentials.Username)
	if credentials.Username == "" || len(credentials.Password) < 8 {
		utils.SendJSONError(w, "Username is required and password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	user := &model.User{Username: credentials.Username}
	if err := user.HashPassword(credentials.Password); err != nil {
		logger.L.Error("Failed to hash password", "username", credentials.Username, "error", err)
		utils.SendJSONError(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	if err := user.CreateUser(database.DB); err != nil {
		logger.L.Warn("User registration failed", "username", credentials.Username, "error", err)
		utils.SendJSONError(w, "Username already taken", http.StatusConflict)
		return
	}

	logger.L.Info("User registered", "userID", user.ID, "username", user.Username)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"id": user.ID, "username": user.Username})
}

func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByUsername(database.DB, credentials.Username)
	if err != nil {
		logger.L.Warn("Login failed: user lookup", "username", credentials.Username, "error", err)
		utils.SendJSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}
	if err := user.CheckPassword(credentials.Password); err != nil {
		logger.L.Warn("Login failed: password mismatch", "username", credentials.Username)
		utils.SendJSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	userIDStr := fmt.Sprintf("%d", user.ID)
	accessToken, err := h.authService.GenerateToken(userIDStr)
	if err != nil {
		utils.SendJSONError(w, "Failed to generate access token", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		utils.SendJSONError(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	session := &model.Session{
		UserID:       user.ID,
		Token:        accessToken,
		RefreshToken: refreshToken,
		UserAgent:    r.UserAgent(),
		ClientIP:     r.RemoteAddr,
		ExpiresAt:    time.Now().Add(config.Cfg.RefreshTokenExpiry),
	}
	if err := model.CreateSession(database.DB, session); err != nil {
		logger.L.Error("Failed to create session", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	logger.L.Info("User logged in", "userID", user.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          map[string]interface{}{"id": user.ID, "username": user.Username},
	})
}

func (h *UserHandler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RefreshToken == "" {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := model.GetSessionByRefreshToken(database.DB, payload.RefreshToken)
	if err != nil {
		logger.L.Warn("Refresh failed: session lookup", "error", err)
		utils.SendJSONError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	accessToken, err := h.authService.GenerateToken(fmt.Sprintf("%d", session.UserID))
	if err != nil {
		utils.SendJSONError(w, "Failed to generate access token", http.StatusInternalServerError)
		return
	}
	if err := model.UpdateSessionToken(database.DB, session.ID, accessToken); err != nil {
		logger.L.Error("Failed to update session token", "sessionID", session.ID, "error", err)
		utils.SendJSONError(w, "Failed to refresh session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"access_token": accessToken})
}

func (h *UserHandler) LogoutUserHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := bearerToken(r)
	if tokenString == "" {
		utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
		return
	}
	if err := model.DeleteSessionByToken(database.DB, tokenString); err != nil {
		logger.L.Error("Failed to delete session on logout", "error", err)
		utils.SendJSONError(w, "Failed to log out", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "logged out"})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}
