package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendimo/vendimo/internal/domain"
)

type BankAccountDTO struct {
	HolderName    string `json:"holder_name" validate:"required" example:"John Doe"`
	AccountNumber string `json:"account_number" validate:"required" example:"40817810099910004312"`
	BankName      string `json:"bank_name" validate:"required" example:"First National"`
}

type SubmitWithdrawalRequestDTO struct {
	Amount decimal.Decimal `json:"amount" validate:"required" example:"60.00"`
	Bank   BankAccountDTO  `json:"bank" validate:"required"`
}

type RejectWithdrawalRequestDTO struct {
	Reason string `json:"reason" validate:"required" example:"bank account could not be verified"`
}

type WithdrawalResponseDTO struct {
	ID              string          `json:"id" example:"e1d2c3b4-a5f6-4a7b-8c9d-0e1f2a3b4c5d"`
	ShopID          string          `json:"shop_id"`
	SellerID        string          `json:"seller_id"`
	SellerName      string          `json:"seller_name" example:"Gadget Shop"`
	SellerEmail     string          `json:"seller_email" example:"seller@example.com"`
	Amount          decimal.Decimal `json:"amount" example:"60.00"`
	Bank            BankAccountDTO  `json:"bank"`
	Status          string          `json:"status" example:"Processing"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	DecidedAt       *time.Time      `json:"decided_at,omitempty"`
}

type TransactionResponseDTO struct {
	ID           int64           `json:"id" example:"42"`
	ShopID       string          `json:"shop_id"`
	OrderID      *string         `json:"order_id,omitempty"`
	WithdrawalID *string         `json:"withdrawal_id,omitempty"`
	Amount       decimal.Decimal `json:"amount" example:"100.00"`
	Type         string          `json:"type" example:"order_payment"`
	Status       string          `json:"status" example:"Completed"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type PlatformRevenueResponseDTO struct {
	Total decimal.Decimal `json:"total" example:"6.00"`
}

func WithdrawalToResponse(wr *domain.WithdrawalRequest) WithdrawalResponseDTO {
	return WithdrawalResponseDTO{
		ID:          wr.ID,
		ShopID:      wr.ShopID,
		SellerID:    wr.SellerID,
		SellerName:  wr.SellerName,
		SellerEmail: wr.SellerEmail,
		Amount:      wr.Amount,
		Bank: BankAccountDTO{
			HolderName:    wr.Bank.HolderName,
			AccountNumber: wr.Bank.AccountNumber,
			BankName:      wr.Bank.BankName,
		},
		Status:          string(wr.Status),
		RejectionReason: wr.RejectionReason,
		CreatedAt:       wr.CreatedAt,
		DecidedAt:       wr.DecidedAt,
	}
}

func WithdrawalsToResponse(requests []domain.WithdrawalRequest) []WithdrawalResponseDTO {
	resp := make([]WithdrawalResponseDTO, 0, len(requests))
	for i := range requests {
		resp = append(resp, WithdrawalToResponse(&requests[i]))
	}
	return resp
}

func TransactionsToResponse(txs []domain.Transaction) []TransactionResponseDTO {
	resp := make([]TransactionResponseDTO, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, TransactionResponseDTO{
			ID:           tx.ID,
			ShopID:       tx.ShopID,
			OrderID:      tx.OrderID,
			WithdrawalID: tx.WithdrawalID,
			Amount:       tx.Amount,
			Type:         string(tx.Type),
			Status:       tx.Status,
			Description:  tx.Description,
			CreatedAt:    tx.CreatedAt,
		})
	}
	return resp
}
