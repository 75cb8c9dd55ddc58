package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/vendimo/vendimo/internal/domain"
	"github.com/vendimo/vendimo/internal/dto"
	orderservice "github.com/vendimo/vendimo/internal/service/orderservice"
	"github.com/vendimo/vendimo/pkg/auth"
)

func NewMock(t *testing.T) (*OrderHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service, false)
	return handler, service
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func withPrincipal(r *http.Request, p auth.Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), auth.PrincipalKey, p))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func checkoutBody(method, cardNumber string) string {
	req := dto.CreateOrdersRequestDTO{
		Items: []dto.CheckoutItemDTO{
			{ProductID: "prod-1", ShopID: "shop-1", Quantity: 2, UnitPrice: dec("15.00"), DiscountedPrice: dec("15.00"), Name: "Mug"},
		},
		Shipping: dto.ShippingAddressDTO{Address: "1 Main St", City: "Springfield", Zip: "12345"},
		Payment:  dto.PaymentInfoDTO{Method: method, CardNumber: cardNumber, CardHolder: "JOHN DOE"},
	}
	body, _ := json.Marshal(req)
	return string(body)
}

func TestCreateOrdersHandler(t *testing.T) {
	user := auth.Principal{ID: "user-1", Role: auth.RoleUser}

	tests := []struct {
		name          string
		body          string
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "successful checkout",
			body: checkoutBody("card", "4561261212345467"),
			prepareMock: func(service *MockService) {
				service.EXPECT().
					CreateOrders(gomock.Any(), "user-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, checkout orderservice.Checkout) ([]domain.Order, error) {
						// the handler must never pass the full card number through
						assert.Equal(t, "5467", checkout.Payment.CardLast4)
						return []domain.Order{{ID: "order-1", UserID: "user-1", ShopID: "shop-1"}}, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "invalid payload",
			body:          "{",
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request payload",
		},
		{
			name:          "card number fails the luhn check",
			body:          checkoutBody("card", "4561261212345464"),
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid card number",
		},
		{
			name:          "unknown payment method",
			body:          checkoutBody("crypto", ""),
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "unknown payment method",
		},
		{
			name: "cash on delivery needs no card",
			body: checkoutBody("cod", ""),
			prepareMock: func(service *MockService) {
				service.EXPECT().
					CreateOrders(gomock.Any(), "user-1", gomock.Any()).
					Return([]domain.Order{{ID: "order-1"}}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "empty cart",
			body: checkoutBody("cod", ""),
			prepareMock: func(service *MockService) {
				service.EXPECT().
					CreateOrders(gomock.Any(), "user-1", gomock.Any()).
					Return(nil, orderservice.ErrValidation)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "internal server error",
			body: checkoutBody("cod", ""),
			prepareMock: func(service *MockService) {
				service.EXPECT().
					CreateOrders(gomock.Any(), "user-1", gomock.Any()).
					Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			r = withPrincipal(r, user)
			w := httptest.NewRecorder()

			handler.CreateOrders(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestGetOrdersHandler(t *testing.T) {
	user := auth.Principal{ID: "user-1", Role: auth.RoleUser}

	tests := []struct {
		name          string
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "successful retrieval",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					GetOrders(gomock.Any(), "user-1").
					Return([]domain.Order{{ID: "order-1", UserID: "user-1"}}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "no orders",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					GetOrders(gomock.Any(), "user-1").
					Return(nil, nil)
			},
			expectedCode:  http.StatusNoContent,
			expectedError: "",
		},
		{
			name: "internal server error",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					GetOrders(gomock.Any(), "user-1").
					Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			r = withPrincipal(r, user)
			w := httptest.NewRecorder()

			handler.GetOrders(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body []dto.OrderResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Len(t, body, 1)
			}
		})
	}
}

func TestGetShopOrdersHandler(t *testing.T) {
	seller := auth.Principal{ID: "seller-1", Role: auth.RoleSeller}

	tests := []struct {
		name          string
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "successful retrieval",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					GetSellerOrders(gomock.Any(), "seller-1").
					Return([]domain.Order{{ID: "order-1", ShopID: "shop-1"}}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "seller has no shop",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					GetSellerOrders(gomock.Any(), "seller-1").
					Return(nil, orderservice.ErrShopNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "no orders",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					GetSellerOrders(gomock.Any(), "seller-1").
					Return(nil, nil)
			},
			expectedCode:  http.StatusNoContent,
			expectedError: "No data available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodGet, "/api/shop/orders", nil)
			r = withPrincipal(r, seller)
			w := httptest.NewRecorder()

			handler.GetShopOrders(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestUpdateStatusHandler(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "legal transition",
			body: `{"status":"shipping"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Transition(gomock.Any(), "order-1", domain.OrderStatusShipping).
					Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusShipping}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "invalid payload",
			body:          "{",
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request payload",
		},
		{
			name: "illegal transition",
			body: `{"status":"processing"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Transition(gomock.Any(), "order-1", domain.OrderStatusProcessing).
					Return(nil, orderservice.ErrInvalidState)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "order not found",
			body: `{"status":"shipping"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Transition(gomock.Any(), "order-1", domain.OrderStatusShipping).
					Return(nil, orderservice.ErrOrderNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "refund exceeds the shop balance",
			body: `{"status":"refunded"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Transition(gomock.Any(), "order-1", domain.OrderStatusRefunded).
					Return(nil, orderservice.ErrInsufficientFunds)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "database deadline",
			body: `{"status":"shipping"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Transition(gomock.Any(), "order-1", domain.OrderStatusShipping).
					Return(nil, context.DeadlineExceeded)
			},
			expectedCode:  http.StatusServiceUnavailable,
			expectedError: "Service temporarily unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodPut, "/api/orders/order-1/status", bytes.NewBufferString(tt.body))
			r = withURLParam(r, "id", "order-1")
			w := httptest.NewRecorder()

			handler.UpdateStatus(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestCancelHandler(t *testing.T) {
	user := auth.Principal{ID: "user-1", Role: auth.RoleUser}

	tests := []struct {
		name         string
		body         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "cancel with a reason",
			body: `{"reason":"ordered by mistake"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Cancel(gomock.Any(), "order-1", user, "ordered by mistake").
					Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusCancelled}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "not the owner",
			body: `{}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Cancel(gomock.Any(), "order-1", user, "").
					Return(nil, orderservice.ErrUnauthorized)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "delivered orders cannot be cancelled",
			body: `{}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Cancel(gomock.Any(), "order-1", user, "").
					Return(nil, orderservice.ErrInvalidState)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodPost, "/api/orders/order-1/cancel", bytes.NewBufferString(tt.body))
			r = withPrincipal(r, user)
			r = withURLParam(r, "id", "order-1")
			w := httptest.NewRecorder()

			handler.Cancel(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestRequestRefundHandler(t *testing.T) {
	user := auth.Principal{ID: "user-1", Role: auth.RoleUser}

	tests := []struct {
		name         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "refund requested",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					RequestRefund(gomock.Any(), "order-1", user).
					Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusRefundRequest}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "already requested",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					RequestRefund(gomock.Any(), "order-1", user).
					Return(nil, orderservice.ErrConflict)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "not delivered yet",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					RequestRefund(gomock.Any(), "order-1", user).
					Return(nil, orderservice.ErrInvalidState)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodPut, "/api/orders/order-1/refund", nil)
			r = withPrincipal(r, user)
			r = withURLParam(r, "id", "order-1")
			w := httptest.NewRecorder()

			handler.RequestRefund(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestDecideRefundHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "approve",
			body: `{"approve":true}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					DecideRefund(gomock.Any(), "order-1", true).
					Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusRefunded}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "reject",
			body: `{"approve":false}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					DecideRefund(gomock.Any(), "order-1", false).
					Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusDelivered}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "no pending request",
			body: `{"approve":true}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					DecideRefund(gomock.Any(), "order-1", true).
					Return(nil, orderservice.ErrInvalidState)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodPost, "/api/orders/order-1/refund/decision", bytes.NewBufferString(tt.body))
			r = withURLParam(r, "id", "order-1")
			w := httptest.NewRecorder()

			handler.DecideRefund(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestDeleteHandler(t *testing.T) {
	user := auth.Principal{ID: "user-1", Role: auth.RoleUser}

	tests := []struct {
		name         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "deleted",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Delete(gomock.Any(), "order-1", user).
					Return(nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "not found",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Delete(gomock.Any(), "order-1", user).
					Return(orderservice.ErrOrderNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "active order is not deletable",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Delete(gomock.Any(), "order-1", user).
					Return(orderservice.ErrInvalidState)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodDelete, "/api/orders/order-1", nil)
			r = withPrincipal(r, user)
			r = withURLParam(r, "id", "order-1")
			w := httptest.NewRecorder()

			handler.Delete(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
