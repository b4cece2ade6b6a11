package api

import (
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type CreateOrderRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

type RecordPaymentRequest struct {
	CourseID   string `json:"courseId" binding:"required"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	OrderID    string `json:"orderId"`
	PaymentRef string `json:"paymentRef"`
}

type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CreateOrder asks the payment gateway for an order ID the frontend
// checkout widget can open.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	orderID, err := h.paymentService.CreateOrder(c.Request.Context(), req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusBadGateway, "Failed to create payment order")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID})
}

// Record stores a completed checkout as a Pending payment for admin review.
func (h *PaymentHandler) Record(c *gin.Context) {
	userID, err := getSubjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	courseID, err := parseHexID(req.CourseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid courseId format")
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), userID, courseID, req.Amount, req.OrderID, req.PaymentRef)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPaymentExists):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidAmount):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to record payment")
		}
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) ListAll(c *gin.Context) {
	payments, err := h.paymentService.ListAll(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) ListPending(c *gin.Context) {
	payments, err := h.paymentService.ListByStatus(c.Request.Context(), domain.PaymentPending)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	adminID, err := getSubjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get admin ID from token")
		return
	}

	payment, err := h.paymentService.Approve(c.Request.Context(), id, adminID)
	if err != nil {
		h.decisionError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	payment, err := h.paymentService.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.decisionError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) decisionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPaymentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPaymentNotPending):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrRejectReasonMissing):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to update payment")
	}
}
