package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"

	txhandlers "kobovault/internal/api/handlers/transactions"
	whandlers "kobovault/internal/api/handlers/wallet"
	mw "kobovault/internal/api/middlewares"
	"kobovault/internal/api/routers"
	"kobovault/internal/cache"
	"kobovault/internal/config"
	"kobovault/internal/queue"
	"kobovault/internal/repositories"
	"kobovault/internal/repositories/sqlconnect"
	"kobovault/internal/services"
	walletcore "kobovault/internal/wallet"
	"kobovault/pkg/utils"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	utils.InitLogger()

	cfg := config.Load()

	db, err := sqlconnect.ConnectDb(cfg)
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}
	defer db.Close()

	store, err := cache.Connect(cfg)
	if err != nil {
		utils.Logger.Fatal("Redis connection failed: ", err)
	}
	defer store.Close()

	q := queue.NewRedisQueue(store.Client())

	walletRepo := repositories.NewWalletRepo(db)
	requestRepo := repositories.NewRequestRepo(db)
	txRepo := repositories.NewTransactionRepo(db)
	notificationRepo := repositories.NewNotificationRepo(db)
	loginRepo := repositories.NewLoginLogRepo(db)

	sync := walletcore.NewCacheSync(store)

	walletHandler := &whandlers.Handler{
		Wallets: services.NewWalletService(walletRepo, requestRepo, store, sync, q),
		Enqueue: services.NewEnqueueService(requestRepo, store, q),
	}
	txHandler := &txhandlers.Handler{
		Transactions:  txRepo,
		Notifications: notificationRepo,
		LoginLogs:     loginRepo,
	}

	router := routers.MainRouter(walletHandler, txHandler)
	secureMux := mw.JWTMiddleware(mw.SecurityHeaders(router))

	port := cfg.ServerPort
	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	server := &http.Server{
		Addr:    port,
		Handler: secureMux,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	fmt.Println("Server is running on port", port)
	if cert != "" && key != "" {
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}
}
