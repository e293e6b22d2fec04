package transactions

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"kobovault/internal/models"
	"kobovault/internal/repositories"
	"kobovault/pkg/utils"
)

type Handler struct {
	Transactions  *repositories.TransactionRepo
	Notifications *repositories.NotificationRepo
	LoginLogs     *repositories.LoginLogRepo
}

func userID(r *http.Request) (int, bool) {
	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		return 0, false
	}
	return int(idFloat), true
}

type pageResponse struct {
	Status   string `json:"status"`
	Count    int    `json:"count"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Data     any    `json:"data"`
}

// GetAllUserTransactions returns one page of the caller's history.
func (h *Handler) GetAllUserTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := userID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, limit := utils.GetPaginationParams(r)
	records, total, err := h.Transactions.ListByUser(ctx, uid, page, limit)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to fetch transactions")
		utils.WriteError(w, "error fetching transactions", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.Transaction{}
	}

	utils.WriteJSON(w, pageResponse{
		Status:   "success",
		Count:    len(records),
		Total:    total,
		Page:     page,
		PageSize: limit,
		Data:     records,
	})
}

// GetTransactionById returns one of the caller's transactions.
func (h *Handler) GetTransactionById(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := userID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid transaction ID", http.StatusBadRequest)
		return
	}

	record, err := h.Transactions.GetByID(r.Context(), uid, id)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to fetch transaction")
		utils.WriteError(w, "error fetching transaction", http.StatusInternalServerError)
		return
	}
	if record == nil {
		utils.WriteError(w, "transaction not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]any{
		"status": "success",
		"data":   record,
	})
}

func (h *Handler) GetUserNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := userID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	page, limit := utils.GetPaginationParams(r)
	notifications, total, err := h.Notifications.ListByUser(r.Context(), uid, page, limit)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to fetch notifications")
		utils.WriteError(w, "error fetching notifications", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	utils.WriteJSON(w, pageResponse{
		Status:   "success",
		Count:    len(notifications),
		Total:    total,
		Page:     page,
		PageSize: limit,
		Data:     notifications,
	})
}

func (h *Handler) GetUserLoginLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := userID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	page, limit := utils.GetPaginationParams(r)
	logs, total, err := h.LoginLogs.ListByUser(r.Context(), uid, page, limit)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to fetch login logs")
		utils.WriteError(w, "error fetching login logs", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []models.LoginLog{}
	}

	utils.WriteJSON(w, pageResponse{
		Status:   "success",
		Count:    len(logs),
		Total:    total,
		Page:     page,
		PageSize: limit,
		Data:     logs,
	})
}
