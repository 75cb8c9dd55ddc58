package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendimo/vendimo/internal/domain"
	"github.com/vendimo/vendimo/internal/dto"
	orderservice "github.com/vendimo/vendimo/internal/service/orderservice"
	"github.com/vendimo/vendimo/pkg/auth"
	"github.com/vendimo/vendimo/pkg/utils"
	"github.com/vendimo/vendimo/pkg/validate"
)

type Service interface {
	CreateOrders(ctx context.Context, userID string, checkout orderservice.Checkout) ([]domain.Order, error)
	Transition(ctx context.Context, orderID string, newStatus domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, orderID string, principal auth.Principal, reason string) (*domain.Order, error)
	RequestRefund(ctx context.Context, orderID string, principal auth.Principal) (*domain.Order, error)
	DecideRefund(ctx context.Context, orderID string, approve bool) (*domain.Order, error)
	Delete(ctx context.Context, orderID string, principal auth.Principal) error
	GetOrders(ctx context.Context, userID string) ([]domain.Order, error)
	GetSellerOrders(ctx context.Context, sellerID string) ([]domain.Order, error)
}

type OrderHandler struct {
	orderService Service
	dev          bool
}

func New(orderService Service, dev bool) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		dev:          dev,
	}
}

// CreateOrders godoc
//
//	@Summary		Create orders from a checkout
//	@Description	Split the checkout payload into one order per shop and persist them atomically.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body	dto.CreateOrdersRequestDTO	true	"Checkout payload"
//	@Security		BearerAuth
//	@Success		201	{array}		dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid payload"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/orders [post]
func (h *OrderHandler) CreateOrders(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req dto.CreateOrdersRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	payment, err := maskPayment(req.Payment)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	checkout := orderservice.Checkout{
		Shipping: domain.ShippingAddress{
			Address: req.Shipping.Address,
			City:    req.Shipping.City,
			Zip:     req.Shipping.Zip,
			State:   req.Shipping.State,
			Country: req.Shipping.Country,
			Phone:   req.Shipping.Phone,
		},
		Payment:     payment,
		TotalAmount: req.TotalAmount,
	}
	if req.Coupon != nil {
		checkout.Coupon = &domain.AppliedCoupon{
			Code:            req.Coupon.Code,
			DiscountAmount:  req.Coupon.DiscountAmount,
			DiscountPercent: req.Coupon.DiscountPercent,
		}
	}
	for _, item := range req.Items {
		checkout.Items = append(checkout.Items, orderservice.CheckoutItem{
			ProductID:       item.ProductID,
			ShopID:          item.ShopID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountedPrice: item.DiscountedPrice,
			Name:            item.Name,
			Images:          item.Images,
		})
	}

	orders, err := h.orderService.CreateOrders(r.Context(), principal.ID, checkout)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.OrdersToResponse(orders))
}

// maskPayment validates the raw card number and keeps only its last four
// digits; the full number is never stored or logged.
func maskPayment(p dto.PaymentInfoDTO) (domain.PaymentInfo, error) {
	info := domain.PaymentInfo{
		Method: domain.PaymentMethod(p.Method),
		Status: domain.PaymentStatusPending,
	}
	switch info.Method {
	case domain.PaymentMethodCard:
		if !validate.IsCardNumber(p.CardNumber) {
			return domain.PaymentInfo{}, errors.New("invalid card number")
		}
		info.CardLast4 = p.CardNumber[len(p.CardNumber)-4:]
		info.CardHolder = p.CardHolder
	case domain.PaymentMethodCOD, domain.PaymentMethodPaypal:
	default:
		return domain.PaymentInfo{}, errors.New("unknown payment method")
	}
	return info, nil
}

// GetOrders godoc
//
//	@Summary		Get orders list for user
//	@Description	Retrieve the authenticated user's orders, newest first.
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.OrderResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/orders [get]
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	orders, err := h.orderService.GetOrders(r.Context(), principal.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if len(orders) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.OrdersToResponse(orders))
}

// GetShopOrders godoc
//
//	@Summary		Get orders of the seller's shop
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.OrderResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		404	{object}	utils.Response	"Shop not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/shop/orders [get]
func (h *OrderHandler) GetShopOrders(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	orders, err := h.orderService.GetSellerOrders(r.Context(), principal.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if len(orders) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.OrdersToResponse(orders))
}

// UpdateStatus godoc
//
//	@Summary		Move an order along the fulfillment chain
//	@Description	Apply a status transition; entering a settled state credits the shop, leaving it debits.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string							true	"Order id"
//	@Param			status	body	dto.UpdateOrderStatusRequestDTO	true	"Target status"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Illegal transition or unknown status"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	order, err := h.orderService.Transition(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.OrderToResponse(order))
}

// Cancel godoc
//
//	@Summary	Cancel an order
//	@Tags		Orders
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string						true	"Order id"
//	@Param		reason	body	dto.CancelOrderRequestDTO	false	"Cancellation reason"
//	@Security	BearerAuth
//	@Success	200	{object}	dto.OrderResponseDTO
//	@Failure	400	{object}	utils.Response	"Order cannot be cancelled"
//	@Failure	403	{object}	utils.Response	"Not the order's owner"
//	@Failure	404	{object}	utils.Response	"Order not found"
//	@Router		/api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req dto.CancelOrderRequestDTO
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	order, err := h.orderService.Cancel(r.Context(), chi.URLParam(r, "id"), principal, req.Reason)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.OrderToResponse(order))
}

// RequestRefund godoc
//
//	@Summary	Request a refund for a delivered order
//	@Tags		Orders
//	@Produce	json
//	@Param		id	path	string	true	"Order id"
//	@Security	BearerAuth
//	@Success	200	{object}	dto.OrderResponseDTO
//	@Failure	400	{object}	utils.Response	"Order is not delivered"
//	@Failure	403	{object}	utils.Response	"Not the order's owner"
//	@Failure	404	{object}	utils.Response	"Order not found"
//	@Failure	409	{object}	utils.Response	"Refund already requested"
//	@Router		/api/orders/{id}/refund [put]
func (h *OrderHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	order, err := h.orderService.RequestRefund(r.Context(), chi.URLParam(r, "id"), principal)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.OrderToResponse(order))
}

// DecideRefund godoc
//
//	@Summary		Approve or reject a pending refund request
//	@Description	Approval refunds the order and debits the shop; rejection returns it to delivered.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string						true	"Order id"
//	@Param			decision	body	dto.DecideRefundRequestDTO	true	"Decision"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"No pending refund request"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Router			/api/orders/{id}/refund/decision [post]
func (h *OrderHandler) DecideRefund(w http.ResponseWriter, r *http.Request) {
	var req dto.DecideRefundRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	order, err := h.orderService.DecideRefund(r.Context(), chi.URLParam(r, "id"), req.Approve)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.OrderToResponse(order))
}

// Delete godoc
//
//	@Summary	Delete an order
//	@Tags		Orders
//	@Param		id	path	string	true	"Order id"
//	@Security	BearerAuth
//	@Success	204	{object}	utils.Response	"Order deleted"
//	@Failure	400	{object}	utils.Response	"Order is not deletable"
//	@Failure	403	{object}	utils.Response	"Not the order's owner"
//	@Failure	404	{object}	utils.Response	"Order not found"
//	@Router		/api/orders/{id} [delete]
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if err := h.orderService.Delete(r.Context(), chi.URLParam(r, "id"), principal); err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusNoContent, nil)
}

func (h *OrderHandler) respondError(w http.ResponseWriter, err error) {
	msg := "Internal server error"
	if h.dev {
		msg = err.Error()
	}
	switch {
	case errors.Is(err, orderservice.ErrValidation):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orderservice.ErrInvalidState),
		errors.Is(err, orderservice.ErrInsufficientFunds):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orderservice.ErrOrderNotFound),
		errors.Is(err, orderservice.ErrShopNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orderservice.ErrConflict):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orderservice.ErrUnauthorized):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, msg)
	}
}
