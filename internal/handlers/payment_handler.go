package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/middleware"
	"github.com/openride/rideshare-backend/internal/models"
)

// PaymentHandler handles payment and wallet endpoints
type PaymentHandler struct {
	paymentRepo *database.PaymentRepository
	walletRepo  *database.WalletRepository
	bookingRepo *database.BookingRepository
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	paymentRepo *database.PaymentRepository,
	walletRepo *database.WalletRepository,
	bookingRepo *database.BookingRepository,
) *PaymentHandler {
	return &PaymentHandler{
		paymentRepo: paymentRepo,
		walletRepo:  walletRepo,
		bookingRepo: bookingRepo,
	}
}

// Create records a payment against the caller's own booking
func (h *PaymentHandler) Create(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookingRepo.GetByID(req.BookingID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if booking.PassengerID != userCtx.UserID {
		respondDomainError(c, models.ErrNotOwner)
		return
	}
	if booking.Status.IsCancelled() {
		respondError(c, http.StatusBadRequest, "Cannot pay for a cancelled booking")
		return
	}

	payment := &models.Payment{
		BookingID:      booking.ID,
		UserID:         userCtx.UserID,
		Amount:         booking.Amount,
		Method:         req.Method,
		TransactionRef: req.TransactionRef,
	}
	if err := h.paymentRepo.Create(payment); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Payment recorded", payment)
}

// History lists the caller's payments
func (h *PaymentHandler) History(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	payments, err := h.paymentRepo.ListByUser(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", payments)
}

// GetByBooking returns the payment on one of the caller's bookings
func (h *PaymentHandler) GetByBooking(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	booking, err := h.bookingRepo.GetByID(bookingID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if booking.PassengerID != userCtx.UserID {
		respondDomainError(c, models.ErrNotOwner)
		return
	}

	payment, err := h.paymentRepo.GetByBooking(bookingID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", payment)
}

// Wallet returns the caller's wallet, created on first access
func (h *PaymentHandler) Wallet(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	wallet, err := h.walletRepo.GetOrCreate(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", wallet)
}

// TopUp credits the caller's wallet
func (h *PaymentHandler) TopUp(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	if err := h.walletRepo.Credit(userCtx.UserID, req.Amount, "Wallet top-up"); err != nil {
		respondDomainError(c, err)
		return
	}

	wallet, err := h.walletRepo.GetOrCreate(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Wallet credited", wallet)
}

// Transactions lists a page of the caller's wallet ledger
func (h *PaymentHandler) Transactions(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	transactions, total, err := h.walletRepo.ListTransactions(userCtx.UserID, page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", gin.H{
		"transactions": transactions,
		"page":         page,
		"limit":        limit,
		"total":        total,
		"hasMore":      (page-1)*limit+len(transactions) < total,
	})
}
