package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
	"github.com/Xausdorf/cashi/internal/usecase/charge"
	"github.com/Xausdorf/cashi/internal/usecase/receipt"
)

type Handler struct {
	chargeUC  *charge.UseCase
	receiptUC *receipt.UseCase
	log       repository.PaymentLog
	logger    *slog.Logger
}

func NewHandler(
	chargeUC *charge.UseCase,
	receiptUC *receipt.UseCase,
	log repository.PaymentLog,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		chargeUC:  chargeUC,
		receiptUC: receiptUC,
		log:       log,
		logger:    logger,
	}
}

type PaymentRequest struct {
	RecipientEmail any `json:"recipientEmail"`
	Amount         any `json:"amount"`
	Currency       any `json:"currency"`
}

type PaymentResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Payment *payment.Record `json:"payment,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

func (h *Handler) HandleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	record, err := h.chargeUC.Execute(r.Context(), charge.Request{
		RecipientEmail: req.RecipientEmail,
		Amount:         req.Amount,
		Currency:       req.Currency,
	})
	if err != nil {
		var rejection *charge.Rejection
		if errors.As(err, &rejection) {
			h.logger.Info("payment rejected", "code", rejection.Code, "recipient", req.RecipientEmail)
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: rejection.Message, Code: rejection.Code})
			return
		}
		h.logger.Error("payment failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "payment could not be stored"})
		return
	}

	h.logger.Info("payment processed", "transaction_id", record.TransactionID, "amount", record.Amount, "currency", record.Currency)
	writeJSON(w, http.StatusCreated, PaymentResponse{
		Success: true,
		Message: charge.SuccessMessage,
		Payment: record,
	})
}

func (h *Handler) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	records, err := h.log.List(r.Context())
	if err != nil {
		h.logger.Error("list payments failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "payments unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) HandleGetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}

	record, err := h.log.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "payment not found"})
		return
	}
	if err != nil {
		h.logger.Error("get payment failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "payments unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}

	png, err := h.receiptUC.Execute(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "payment not found"})
		return
	}
	if err != nil {
		h.logger.Error("receipt generation failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "qr generation failed"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}

func paymentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid payment id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
