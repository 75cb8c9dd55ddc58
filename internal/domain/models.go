package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// OrderStatusProcessing is the initial status of every order.
	OrderStatusProcessing    OrderStatus = "processing"
	OrderStatusTransferred   OrderStatus = "transferred to delivery partner"
	OrderStatusShipping      OrderStatus = "shipping"
	OrderStatusOnTheWay      OrderStatus = "on the way"
	OrderStatusReceived      OrderStatus = "received"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusRefundRequest OrderStatus = "refund request"
	OrderStatusRefunded      OrderStatus = "refunded"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

// KnownOrderStatus reports whether s is one of the enumerated order statuses.
func KnownOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusTransferred, OrderStatusShipping,
		OrderStatusOnTheWay, OrderStatusReceived, OrderStatusDelivered,
		OrderStatusRefundRequest, OrderStatusRefunded, OrderStatusCancelled:
		return true
	}
	return false
}

// Earned reports whether the ledger gains a credit on the old -> new move:
// the order enters a settled state it has not been in before.
func Earned(oldStatus, newStatus OrderStatus) bool {
	return isSettled(newStatus) && !isSettled(oldStatus)
}

// Reversed reports whether the ledger owes a debit on the old -> new move.
// A refund approval arrives from "refund request", which itself is only
// reachable from a settled state; cancelling an already-credited order owes
// the same debit.
func Reversed(oldStatus, newStatus OrderStatus) bool {
	switch newStatus {
	case OrderStatusRefunded:
		return isSettled(oldStatus) || oldStatus == OrderStatusRefundRequest
	case OrderStatusCancelled:
		return isSettled(oldStatus)
	}
	return false
}

func isSettled(s OrderStatus) bool {
	return s == OrderStatusDelivered || s == OrderStatusReceived
}

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodPaypal PaymentMethod = "paypal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// OrderItem is a catalog snapshot taken at checkout; later catalog edits
// never alter it.
type OrderItem struct {
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Name            string          `json:"name"`
	Images          []string        `json:"images,omitempty"`
}

type ShippingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// PaymentInfo carries masked card data only.
type PaymentInfo struct {
	Method     PaymentMethod `json:"method"`
	Status     PaymentStatus `json:"status"`
	CardLast4  string        `json:"card_last4,omitempty"`
	CardHolder string        `json:"card_holder,omitempty"`
}

type AppliedCoupon struct {
	Code            string          `json:"code"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

type Order struct {
	ID                string          `db:"id"`
	UserID            string          `db:"user_id"`
	ShopID            string          `db:"shop_id"`
	Items             []OrderItem     `db:"items"`
	Shipping          ShippingAddress `db:"shipping"`
	Payment           PaymentInfo     `db:"payment"`
	Coupon            *AppliedCoupon  `db:"coupon"`
	Subtotal          decimal.Decimal `db:"subtotal"`
	TotalPrice        decimal.Decimal `db:"total_price"`
	Status            OrderStatus     `db:"order_status"`
	CancelReason      string          `db:"cancel_reason"`
	CreatedAt         time.Time       `db:"created_at"`
	DeliveredAt       *time.Time      `db:"delivered_at"`
	CancelledAt       *time.Time      `db:"cancelled_at"`
	RefundRequestedAt *time.Time      `db:"refund_requested_at"`
	RefundDecidedAt   *time.Time      `db:"refund_decided_at"`
	RefundedAt        *time.Time      `db:"refunded_at"`
}

type Shop struct {
	ID               string          `db:"id"`
	SellerID         string          `db:"seller_id"`
	Name             string          `db:"name"`
	Email            string          `db:"email"`
	AvailableBalance decimal.Decimal `db:"available_balance"`
	CreatedAt        time.Time       `db:"created_at"`
}

type TransactionType string

const (
	TransactionOrderPayment     TransactionType = "order_payment"
	TransactionRefund           TransactionType = "refund"
	TransactionWithdraw         TransactionType = "withdraw"
	TransactionWithdrawReversal TransactionType = "withdraw_reversal"
)

const TransactionStatusCompleted = "Completed"

// Transaction is one append-only ledger record; the shop balance must equal
// the fold of these records at all times.
type Transaction struct {
	ID           int64           `db:"id"`
	ShopID       string          `db:"shop_id"`
	OrderID      *string         `db:"order_id"`
	WithdrawalID *string         `db:"withdrawal_id"`
	Amount       decimal.Decimal `db:"amount"`
	Type         TransactionType `db:"tx_type"`
	Status       string          `db:"status"`
	Description  string          `db:"description"`
	CreatedAt    time.Time       `db:"created_at"`
}

type BankAccount struct {
	HolderName    string `json:"holder_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
}

type WithdrawalStatus string

const (
	WithdrawalStatusProcessing WithdrawalStatus = "Processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "Completed"
	WithdrawalStatusRejected   WithdrawalStatus = "Rejected"
)

type WithdrawalRequest struct {
	ID              string           `db:"id"`
	ShopID          string           `db:"shop_id"`
	SellerID        string           `db:"seller_id"`
	SellerName      string           `db:"seller_name"`
	SellerEmail     string           `db:"seller_email"`
	Amount          decimal.Decimal  `db:"amount"`
	Bank            BankAccount      `db:"bank"`
	Status          WithdrawalStatus `db:"status"`
	RejectionReason string           `db:"rejection_reason"`
	CreatedAt       time.Time        `db:"created_at"`
	DecidedAt       *time.Time       `db:"decided_at"`
}
