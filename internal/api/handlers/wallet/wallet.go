package wallet

import (
	"encoding/json"
	"errors"
	"net/http"

	"kobovault/internal/config"
	"kobovault/internal/models"
	"kobovault/internal/services"
	"kobovault/pkg/utils"

	"github.com/shopspring/decimal"
)

type Handler struct {
	Wallets *services.WalletService
	Enqueue *services.EnqueueService
}

func userID(r *http.Request) (int, bool) {
	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		return 0, false
	}
	return int(idFloat), true
}

// CreateWallet is synchronous: the wallet either exists when the response
// returns or it does not.
func (h *Handler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := userID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		Currency string `json:"currency"`
		TxID     string `json:"txId"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Currency == "" {
		utils.WriteError(w, "currency is required", http.StatusBadRequest)
		return
	}
	if req.TxID == "" {
		req.TxID = services.GenerateReference("WC")
	}

	created, err := h.Wallets.CreateWallet(r.Context(), uid, req.Currency, req.TxID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateRequest):
			utils.WriteError(w, "duplicate wallet creation request", http.StatusConflict)
		case errors.Is(err, services.ErrWalletExists):
			utils.WriteError(w, "you already have a "+req.Currency+" wallet", http.StatusConflict)
		default:
			utils.Logger.WithError(err).Error("Wallet creation failed")
			utils.WriteError(w, "failed to create wallet", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, map[string]any{
		"status": "success",
		"data":   created,
	})
}

// GetUserWallets lists the caller's live wallets through the cache.
func (h *Handler) GetUserWallets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := userID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wallets, err := h.Wallets.GetUserWallets(r.Context(), uid)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to list wallets")
		utils.WriteError(w, "failed to fetch wallets", http.StatusInternalServerError)
		return
	}
	if wallets == nil {
		wallets = []models.Wallet{}
	}

	utils.WriteJSON(w, map[string]any{
		"status": "success",
		"count":  len(wallets),
		"data":   wallets,
	})
}

type moneyRequest struct {
	WalletID int             `json:"walletId"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	TxID     string          `json:"txId"`
}

func (h *Handler) decodeMoneyRequest(w http.ResponseWriter, r *http.Request) (*moneyRequest, bool) {
	var req moneyRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}
	defer r.Body.Close()

	if req.WalletID <= 0 || req.Currency == "" || req.TxID == "" {
		utils.WriteError(w, "walletId, currency and txId are required", http.StatusBadRequest)
		return nil, false
	}
	if !req.Amount.IsPositive() {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func (h *Handler) FundWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := userID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := h.decodeMoneyRequest(w, r)
	if !ok {
		return
	}

	job := models.FundJob{
		UserID:   uid,
		WalletID: req.WalletID,
		Currency: req.Currency,
		Amount:   req.Amount,
		TxID:     req.TxID,
	}
	result, err := h.Enqueue.Enqueue(r.Context(), config.QueueFunding, req.TxID, job,
		"Wallet funding has been queued and is being processed.")
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to queue funding job")
		utils.WriteError(w, "failed to queue funding", http.StatusInternalServerError)
		return
	}

	writeEnqueueResult(w, result)
}

func (h *Handler) WithdrawWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := userID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := h.decodeMoneyRequest(w, r)
	if !ok {
		return
	}

	job := models.WithdrawJob{
		UserID:   uid,
		WalletID: req.WalletID,
		Currency: req.Currency,
		Amount:   req.Amount,
		TxID:     req.TxID,
	}
	result, err := h.Enqueue.Enqueue(r.Context(), config.QueueWithdrawal, req.TxID, job,
		"Wallet withdrawal has been queued and is being processed.")
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to queue withdrawal job")
		utils.WriteError(w, "failed to queue withdrawal", http.StatusInternalServerError)
		return
	}

	writeEnqueueResult(w, result)
}

func (h *Handler) TransferFunds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := userID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		SenderWalletID    int             `json:"senderWalletId"`
		RecipientID       int             `json:"recipientId"`
		RecipientWalletID int             `json:"recipientWalletId"`
		Amount            decimal.Decimal `json:"amount"`
		Currency          string          `json:"currency"`
		TxID              string          `json:"txId"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	job := models.TransferJob{
		SenderID:          uid,
		SenderWalletID:    req.SenderWalletID,
		RecipientID:       req.RecipientID,
		RecipientWalletID: req.RecipientWalletID,
		Amount:            req.Amount,
		Currency:          req.Currency,
		TxID:              req.TxID,
	}
	if err := job.Validate(); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Enqueue.Enqueue(r.Context(), config.QueueTransfer, req.TxID, job,
		"Wallet transfer has been queued and is being processed.")
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to queue transfer job")
		utils.WriteError(w, "failed to queue transfer", http.StatusInternalServerError)
		return
	}

	writeEnqueueResult(w, result)
}

func writeEnqueueResult(w http.ResponseWriter, result *services.EnqueueResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.StatusCode)
	json.NewEncoder(w).Encode(result)
}
