package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"personal_finance/internal/auth"
	"personal_finance/internal/domain"
	"personal_finance/internal/fraud"
	"personal_finance/internal/repository"
	"personal_finance/internal/service"
)

type APIHandler struct {
	transactions   *service.TransactionService
	users          *service.UserService
	tokens         *auth.TokenManager
	logger         *slog.Logger
	requestTimeout time.Duration
}

func NewAPIHandler(
	transactions *service.TransactionService,
	users *service.UserService,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		transactions:   transactions,
		users:          users,
		tokens:         tokens,
		logger:         logger,
		requestTimeout: 30 * time.Second,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description,omitempty"`
}

type TransactionResponse struct {
	ID         string   `json:"id"`
	FraudScore float64  `json:"fraud_score"`
	IsFraud    bool     `json:"is_fraud"`
	FraudFlags []string `json:"fraud_flags,omitempty"`
	Message    string   `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}
	if req.Username == "" || req.Password == "" {
		h.sendError(w, "Username and password are required", http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	if _, err := h.users.Register(ctx, req.Username, req.Password); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			h.sendError(w, "Username already exists", http.StatusBadRequest, "DUPLICATE_USERNAME")
			return
		}
		h.logger.Error("Registration failed", slog.String("error", err.Error()))
		h.sendError(w, "Registration failed", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	h.sendJSON(w, map[string]string{"message": "User registered successfully"}, http.StatusCreated)
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	token, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.sendError(w, "Invalid credentials", http.StatusUnauthorized, "INVALID_CREDENTIALS")
			return
		}
		h.logger.Error("Login failed", slog.String("error", err.Error()))
		h.sendError(w, "Login failed", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	h.sendJSON(w, map[string]string{"access_token": token}, http.StatusOK)
}

func (h *APIHandler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		h.sendError(w, "Authentication required", http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	tx, err := h.transactions.Add(ctx, userID, req.Amount, req.Category, req.Description)
	if err != nil {
		if errors.Is(err, fraud.ErrValidation) {
			h.sendError(w, fmt.Sprintf("Amount and category are required: %v", err), http.StatusBadRequest, "VALIDATION_ERROR")
			return
		}
		h.logger.Error("Transaction processing failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		h.sendError(w, "Transaction failed", http.StatusInternalServerError, "PROCESSING_ERROR")
		return
	}

	response := TransactionResponse{
		ID:         tx.ID,
		FraudScore: tx.FraudScore,
		IsFraud:    tx.IsFraud,
		FraudFlags: tx.FraudFlags,
	}

	// Flagged transactions are persisted with their verdict but the
	// submission itself is rejected.
	if tx.IsFraud {
		response.Message = "Transaction added but detected as fraudulent"
		h.sendJSON(w, response, http.StatusBadRequest)
		return
	}

	response.Message = "Transaction added successfully"
	h.sendJSON(w, response, http.StatusCreated)
}

func (h *APIHandler) GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	h.listTransactions(w, r, "transactions", h.transactions.ListByUser)
}

func (h *APIHandler) FraudAlertsHandler(w http.ResponseWriter, r *http.Request) {
	h.listTransactions(w, r, "fraud_alerts", h.transactions.FraudAlerts)
}

func (h *APIHandler) listTransactions(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	fetch func(context.Context, string) ([]*domain.Transaction, error),
) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		h.sendError(w, "Authentication required", http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	transactions, err := fetch(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to list transactions",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		h.sendError(w, "Failed to get transactions", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}
	if transactions == nil {
		transactions = []*domain.Transaction{}
	}

	h.sendJSON(w, map[string][]*domain.Transaction{field: transactions}, http.StatusOK)
}

func (h *APIHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		h.sendError(w, "Failed to list users", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}
	if users == nil {
		users = []*domain.User{}
	}

	h.sendJSON(w, map[string][]*domain.User{"users": users}, http.StatusOK)
}

func (h *APIHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	username := r.PathValue("username")
	if err := h.users.DeleteByUsername(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, fmt.Sprintf("User %s not found", username), http.StatusNotFound, "NOT_FOUND")
			return
		}
		h.sendError(w, "Failed to delete user", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	h.sendJSON(w, map[string]string{"message": fmt.Sprintf("User %s deleted successfully", username)}, http.StatusOK)
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}
	h.sendJSON(w, response, http.StatusOK)
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, message string, statusCode int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})

	h.logger.Warn("API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	authRequired := auth.Middleware(h.tokens, h.logger)

	mux.HandleFunc("POST /api/register", h.RegisterHandler)
	mux.HandleFunc("POST /api/login", h.LoginHandler)
	mux.HandleFunc("POST /api/transactions", authRequired(h.CreateTransactionHandler))
	mux.HandleFunc("GET /api/transactions", authRequired(h.GetTransactionsHandler))
	mux.HandleFunc("GET /api/fraud-alerts", authRequired(h.FraudAlertsHandler))
	mux.HandleFunc("GET /api/debug/users", h.ListUsersHandler)
	mux.HandleFunc("DELETE /api/debug/users/{username}", h.DeleteUserHandler)
	mux.HandleFunc("GET /api/health", h.HealthCheckHandler)
}
