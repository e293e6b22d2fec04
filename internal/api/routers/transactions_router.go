package routers

import (
	"net/http"

	"kobovault/internal/api/handlers/transactions"
)

func transactionsRouter(h *transactions.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/transactions/", h.GetAllUserTransactions)
	mux.HandleFunc("/transactions/notifications", h.GetUserNotifications)
	mux.HandleFunc("/transactions/login-logs", h.GetUserLoginLogs)
	mux.HandleFunc("/transactions/{id}", h.GetTransactionById)

	return mux
}
