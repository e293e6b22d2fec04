package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Job payloads carried on the queues. Each variant validates itself on
// receipt so a malformed body fails the message instead of crashing the
// consumer loop.

type FundJob struct {
	UserID   int             `json:"userId"`
	WalletID int             `json:"walletId"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	TxID     string          `json:"txId"`
}

func (j *FundJob) Validate() error {
	if j.UserID <= 0 || j.WalletID <= 0 {
		return errors.New("fund job missing user or wallet id")
	}
	if j.Currency == "" {
		return errors.New("fund job missing currency")
	}
	if j.TxID == "" {
		return errors.New("fund job missing txId")
	}
	if !j.Amount.IsPositive() {
		return errors.New("fund job amount must be greater than 0")
	}
	return nil
}

type WithdrawJob struct {
	UserID   int             `json:"userId"`
	WalletID int             `json:"walletId"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	TxID     string          `json:"txId"`
}

func (j *WithdrawJob) Validate() error {
	if j.UserID <= 0 || j.WalletID <= 0 {
		return errors.New("withdraw job missing user or wallet id")
	}
	if j.Currency == "" {
		return errors.New("withdraw job missing currency")
	}
	if j.TxID == "" {
		return errors.New("withdraw job missing txId")
	}
	if !j.Amount.IsPositive() {
		return errors.New("withdraw job amount must be greater than 0")
	}
	return nil
}

type TransferJob struct {
	SenderID          int             `json:"senderId"`
	SenderWalletID    int             `json:"senderWalletId"`
	RecipientID       int             `json:"recipientId"`
	RecipientWalletID int             `json:"recipientWalletId"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	TxID              string          `json:"txId"`
}

func (j *TransferJob) Validate() error {
	if j.SenderID <= 0 || j.SenderWalletID <= 0 {
		return errors.New("transfer job missing sender")
	}
	if j.RecipientID <= 0 || j.RecipientWalletID <= 0 {
		return errors.New("transfer job missing recipient")
	}
	if j.SenderWalletID == j.RecipientWalletID {
		return errors.New("transfer job sender and recipient wallets are the same")
	}
	if j.Currency == "" {
		return errors.New("transfer job missing currency")
	}
	if j.TxID == "" {
		return errors.New("transfer job missing txId")
	}
	if !j.Amount.IsPositive() {
		return errors.New("transfer job amount must be greater than 0")
	}
	return nil
}

type NotificationJob struct {
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Type   string `json:"type"`
}

func (j *NotificationJob) Validate() error {
	if j.UserID <= 0 || j.Title == "" || j.Body == "" || j.Type == "" {
		return errors.New("notification job missing required fields")
	}
	return nil
}

type LoginLogJob struct {
	UserID    int    `json:"userId"`
	Email     string `json:"email"`
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
	Location  string `json:"location"`
	Success   bool   `json:"success"`
}
