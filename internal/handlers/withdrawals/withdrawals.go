package withdrawals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vendimo/vendimo/internal/domain"
	"github.com/vendimo/vendimo/internal/dto"
	ledgerservice "github.com/vendimo/vendimo/internal/service/ledgerservice"
	withdrawservice "github.com/vendimo/vendimo/internal/service/withdrawservice"
	"github.com/vendimo/vendimo/pkg/auth"
	"github.com/vendimo/vendimo/pkg/utils"
)

type Service interface {
	Submit(ctx context.Context, sellerID string, amount decimal.Decimal, bank domain.BankAccount) (*domain.WithdrawalRequest, error)
	Accept(ctx context.Context, requestID string) (*domain.WithdrawalRequest, error)
	Reject(ctx context.Context, requestID, reason string) (*domain.WithdrawalRequest, error)
	List(ctx context.Context, principal auth.Principal) ([]domain.WithdrawalRequest, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
}

// Ledger serves the seller-facing balance and transaction views.
type Ledger interface {
	Balance(ctx context.Context, sellerID string) (*domain.Shop, error)
	SellerTransactions(ctx context.Context, sellerID string) ([]domain.Transaction, error)
}

type WithdrawalHandler struct {
	withdrawService Service
	ledgerService   Ledger
	dev             bool
}

func New(withdrawService Service, ledgerService Ledger, dev bool) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawService: withdrawService,
		ledgerService:   ledgerService,
		dev:             dev,
	}
}

// Submit godoc
//
//	@Summary		Submit a withdrawal request
//	@Description	Reserve the amount from the shop balance and open a Processing request.
//	@Tags			Withdrawals
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.SubmitWithdrawalRequestDTO	true	"Amount and bank account"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.WithdrawalResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid payload or insufficient balance"
//	@Failure		404	{object}	utils.Response	"Shop not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/withdrawals [post]
func (h *WithdrawalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req dto.SubmitWithdrawalRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	request, err := h.withdrawService.Submit(r.Context(), principal.ID, req.Amount, domain.BankAccount{
		HolderName:    req.Bank.HolderName,
		AccountNumber: req.Bank.AccountNumber,
		BankName:      req.Bank.BankName,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.WithdrawalToResponse(request))
}

// List godoc
//
//	@Summary		List withdrawal requests
//	@Description	Sellers see their own shop's requests, operators see every request.
//	@Tags			Withdrawals
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.WithdrawalResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		403	{object}	utils.Response	"Forbidden"
//	@Router			/api/withdrawals [get]
func (h *WithdrawalHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	requests, err := h.withdrawService.List(r.Context(), principal)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if len(requests) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WithdrawalsToResponse(requests))
}

// Accept godoc
//
//	@Summary		Accept a withdrawal request
//	@Description	Complete the payout and book the platform commission.
//	@Tags			Withdrawals
//	@Produce		json
//	@Param			id	path	string	true	"Request id"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.WithdrawalResponseDTO
//	@Failure		400	{object}	utils.Response	"Request already decided"
//	@Failure		404	{object}	utils.Response	"Request not found"
//	@Router			/api/withdrawals/{id}/accept [post]
func (h *WithdrawalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	request, err := h.withdrawService.Accept(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WithdrawalToResponse(request))
}

// Reject godoc
//
//	@Summary		Reject a withdrawal request
//	@Description	Record the rejection reason and return the reserved amount to the shop.
//	@Tags			Withdrawals
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string							true	"Request id"
//	@Param			reason	body	dto.RejectWithdrawalRequestDTO	true	"Rejection reason"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.WithdrawalResponseDTO
//	@Failure		400	{object}	utils.Response	"Request already decided"
//	@Failure		404	{object}	utils.Response	"Request not found"
//	@Router			/api/withdrawals/{id}/reject [post]
func (h *WithdrawalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req dto.RejectWithdrawalRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Reason == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Rejection reason is required")
		return
	}

	request, err := h.withdrawService.Reject(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WithdrawalToResponse(request))
}

// GetBalance godoc
//
//	@Summary	Get the seller's shop balance
//	@Tags		Shop
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	utils.Response	"Available balance"
//	@Failure	404	{object}	utils.Response	"Shop not found"
//	@Router		/api/shop/balance [get]
func (h *WithdrawalHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	shop, err := h.ledgerService.Balance(r.Context(), principal.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"shop_id":           shop.ID,
		"available_balance": shop.AvailableBalance,
	})
}

// GetTransactions godoc
//
//	@Summary	List the seller's ledger transactions
//	@Tags		Shop
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.TransactionResponseDTO
//	@Failure	204	{object}	utils.Response	"No data available"
//	@Failure	404	{object}	utils.Response	"Shop not found"
//	@Router		/api/shop/transactions [get]
func (h *WithdrawalHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	txs, err := h.ledgerService.SellerTransactions(r.Context(), principal.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if len(txs) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TransactionsToResponse(txs))
}

// GetRevenue godoc
//
//	@Summary	Get accumulated platform commission
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.PlatformRevenueResponseDTO
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/revenue [get]
func (h *WithdrawalHandler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	total, err := h.withdrawService.Revenue(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.PlatformRevenueResponseDTO{Total: total})
}

func (h *WithdrawalHandler) respondError(w http.ResponseWriter, err error) {
	msg := "Internal server error"
	if h.dev {
		msg = err.Error()
	}
	switch {
	case errors.Is(err, withdrawservice.ErrValidation),
		errors.Is(err, withdrawservice.ErrInvalidState),
		errors.Is(err, withdrawservice.ErrInsufficientFunds):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, withdrawservice.ErrRequestNotFound),
		errors.Is(err, withdrawservice.ErrShopNotFound),
		errors.Is(err, ledgerservice.ErrShopNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, withdrawservice.ErrUnauthorized):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, msg)
	}
}
