package routers

import (
	"net/http"

	"kobovault/internal/api/handlers/transactions"
	"kobovault/internal/api/handlers/wallet"
)

func MainRouter(wh *wallet.Handler, th *transactions.Handler) *http.ServeMux {

	mux := http.NewServeMux()

	wRouter := walletRouter(wh)
	mux.Handle("/wallet/", wRouter)

	tRouter := transactionsRouter(th)
	mux.Handle("/transactions/", tRouter)

	return mux
}
