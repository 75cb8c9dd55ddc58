package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendimo/vendimo/internal/domain"
)

type CheckoutItemDTO struct {
	ProductID       string          `json:"product_id" example:"7f9c24e5-2f3a-4b6e-9c1d-8a5b3e2f1d0c"`
	ShopID          string          `json:"shop_id" example:"3b2a1c0d-9e8f-4a5b-8c7d-6e5f4a3b2c1d"`
	Quantity        int             `json:"quantity" example:"2"`
	UnitPrice       decimal.Decimal `json:"unit_price" example:"25.00"`
	DiscountedPrice decimal.Decimal `json:"discounted_price" example:"20.00"`
	Name            string          `json:"name" example:"Wireless mouse"`
	Images          []string        `json:"images,omitempty"`
}

type ShippingAddressDTO struct {
	Address string `json:"address" example:"12 Main St"`
	City    string `json:"city" example:"Springfield"`
	Zip     string `json:"zip" example:"49007"`
	State   string `json:"state,omitempty" example:"MI"`
	Country string `json:"country,omitempty" example:"US"`
	Phone   string `json:"phone,omitempty" example:"+1-555-0100"`
}

type PaymentInfoDTO struct {
	Method     string `json:"method" example:"card"`
	CardNumber string `json:"card_number,omitempty" example:"4561261212345467"`
	CardHolder string `json:"card_holder,omitempty" example:"JOHN DOE"`
}

type AppliedCouponDTO struct {
	Code            string          `json:"code" example:"SPRING10"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" example:"10.00"`
	DiscountPercent decimal.Decimal `json:"discount_percent" example:"0"`
}

type CreateOrdersRequestDTO struct {
	Items       []CheckoutItemDTO  `json:"items" validate:"required,min=1"`
	Shipping    ShippingAddressDTO `json:"shipping" validate:"required"`
	Payment     PaymentInfoDTO     `json:"payment" validate:"required"`
	Coupon      *AppliedCouponDTO  `json:"coupon,omitempty"`
	TotalAmount decimal.Decimal    `json:"total_amount" example:"50.00"`
}

type OrderResponseDTO struct {
	ID                string             `json:"id" example:"b4f9c2e1-7d3a-4e5b-9c8d-1a2b3c4d5e6f"`
	UserID            string             `json:"user_id"`
	ShopID            string             `json:"shop_id"`
	Items             []domain.OrderItem `json:"items"`
	Shipping          ShippingAddressDTO `json:"shipping"`
	PaymentMethod     string             `json:"payment_method" example:"card"`
	PaymentStatus     string             `json:"payment_status" example:"pending"`
	CardLast4         string             `json:"card_last4,omitempty" example:"5467"`
	Coupon            *AppliedCouponDTO  `json:"coupon,omitempty"`
	Subtotal          decimal.Decimal    `json:"subtotal" example:"50.00"`
	TotalPrice        decimal.Decimal    `json:"total_price" example:"40.00"`
	Status            string             `json:"status" example:"processing"`
	CancelReason      string             `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	DeliveredAt       *time.Time         `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time         `json:"cancelled_at,omitempty"`
	RefundRequestedAt *time.Time         `json:"refund_requested_at,omitempty"`
	RefundDecidedAt   *time.Time         `json:"refund_decided_at,omitempty"`
	RefundedAt        *time.Time         `json:"refunded_at,omitempty"`
}

type UpdateOrderStatusRequestDTO struct {
	Status string `json:"status" validate:"required" example:"shipping"`
}

type CancelOrderRequestDTO struct {
	Reason string `json:"reason" example:"ordered by mistake"`
}

type DecideRefundRequestDTO struct {
	Approve bool `json:"approve" example:"true"`
}

func OrderToResponse(o *domain.Order) OrderResponseDTO {
	resp := OrderResponseDTO{
		ID:     o.ID,
		UserID: o.UserID,
		ShopID: o.ShopID,
		Items:  o.Items,
		Shipping: ShippingAddressDTO{
			Address: o.Shipping.Address,
			City:    o.Shipping.City,
			Zip:     o.Shipping.Zip,
			State:   o.Shipping.State,
			Country: o.Shipping.Country,
			Phone:   o.Shipping.Phone,
		},
		PaymentMethod:     string(o.Payment.Method),
		PaymentStatus:     string(o.Payment.Status),
		CardLast4:         o.Payment.CardLast4,
		Subtotal:          o.Subtotal,
		TotalPrice:        o.TotalPrice,
		Status:            string(o.Status),
		CancelReason:      o.CancelReason,
		CreatedAt:         o.CreatedAt,
		DeliveredAt:       o.DeliveredAt,
		CancelledAt:       o.CancelledAt,
		RefundRequestedAt: o.RefundRequestedAt,
		RefundDecidedAt:   o.RefundDecidedAt,
		RefundedAt:        o.RefundedAt,
	}
	if o.Coupon != nil {
		resp.Coupon = &AppliedCouponDTO{
			Code:            o.Coupon.Code,
			DiscountAmount:  o.Coupon.DiscountAmount,
			DiscountPercent: o.Coupon.DiscountPercent,
		}
	}
	return resp
}

func OrdersToResponse(orders []domain.Order) []OrderResponseDTO {
	resp := make([]OrderResponseDTO, 0, len(orders))
	for i := range orders {
		resp = append(resp, OrderToResponse(&orders[i]))
	}
	return resp
}
