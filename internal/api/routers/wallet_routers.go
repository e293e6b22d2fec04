package routers

import (
	"net/http"

	"kobovault/internal/api/handlers/wallet"
)

func walletRouter(h *wallet.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/wallet/", h.GetUserWallets)
	mux.HandleFunc("/wallet/create", h.CreateWallet)
	mux.HandleFunc("/wallet/fund", h.FundWallet)
	mux.HandleFunc("/wallet/withdraw", h.WithdrawWallet)
	mux.HandleFunc("/wallet/transfer", h.TransferFunds)

	return mux
}
