package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"kobovault/internal/cache"
	"kobovault/internal/config"
	"kobovault/internal/consumers"
	"kobovault/internal/queue"
	"kobovault/internal/repositories"
	"kobovault/internal/repositories/sqlconnect"
	walletcore "kobovault/internal/wallet"
	croncfg "kobovault/pkg/cron"
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
	router := queue.NewRetryRouter(q, config.MaxAttempts, config.QueueDeadLetter)

	walletRepo := repositories.NewWalletRepo(db)
	requestRepo := repositories.NewRequestRepo(db)
	notificationRepo := repositories.NewNotificationRepo(db)
	loginRepo := repositories.NewLoginLogRepo(db)

	guard := walletcore.NewIdempotencyGuard(requestRepo, store)
	mutator := walletcore.NewLedgerMutator(db)
	cacheSync := walletcore.NewCacheSync(store)

	funding := consumers.NewFundingConsumer(guard, mutator, walletRepo, cacheSync, q)
	withdrawal := consumers.NewWithdrawalConsumer(guard, mutator, walletRepo, cacheSync, q)
	transfer := consumers.NewTransferConsumer(guard, mutator, walletRepo, cacheSync, q)

	var sendEmail func(to, subject, body string) error
	if cfg.SMTPHost != "" && cfg.SMTPPort != "" {
		sendEmail = utils.SendEmail
	}
	notification := consumers.NewNotificationConsumer(notificationRepo, consumers.LookupUserEmail(db), sendEmail)
	login := consumers.NewLoginConsumer(loginRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	consume := func(queueName string, handler queue.Handler) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Consume(ctx, queueName, router, handler)
		}()
	}

	consume(config.QueueFunding, funding.Handle)
	consume(config.QueueWithdrawal, withdrawal.Handle)
	consume(config.QueueTransfer, transfer.Handle)
	consume(config.QueueNotifications, notification.Handle)
	consume(config.QueueLoginLogs, login.Handle)

	cronJobs := croncfg.StartCronJob(store.Client())
	defer cronJobs.Stop()

	utils.Logger.Info("Worker is running, waiting for jobs")
	<-ctx.Done()

	utils.Logger.Info("Shutting down workers...")
	wg.Wait()
}
