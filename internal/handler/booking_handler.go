package handler

import (
	"encoding/json"
	"net/http"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// 5. Bookings & payments
// ============================================================

func createBookingHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/bookings")
		defer span.End()

		userID := UserIDFromContext(ctx)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var in domain.BookingInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		booking, err := bookingSvc.CreateBooking(ctx, userID, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, booking)
	}
}

func getBookingHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/bookings/{bookingId}")
		defer span.End()

		booking, err := bookingSvc.GetBooking(ctx, UserIDFromContext(ctx), RoleFromContext(ctx), chi.URLParam(r, "bookingId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, booking)
	}
}

func listBookingsHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/bookings")
		defer span.End()

		page, pageSize := parsePagination(r)
		status := r.URL.Query().Get("status")

		bookings, err := bookingSvc.ListBookings(ctx, UserIDFromContext(ctx), RoleFromContext(ctx), status, page, pageSize)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(bookings, page, pageSize))
	}
}

func listReaderBookingsHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/readers/{readerId}/bookings")
		defer span.End()

		page, pageSize := parsePagination(r)
		status := r.URL.Query().Get("status")

		bookings, err := bookingSvc.ListReaderBookings(ctx, UserIDFromContext(ctx), RoleFromContext(ctx),
			chi.URLParam(r, "readerId"), status, page, pageSize)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(bookings, page, pageSize))
	}
}

func updateBookingStatusHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/bookings/{bookingId}/status")
		defer span.End()

		var upd domain.BookingStatusUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		booking, err := bookingSvc.UpdateBookingStatus(ctx, UserIDFromContext(ctx), RoleFromContext(ctx),
			chi.URLParam(r, "bookingId"), &upd)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, booking)
	}
}

// ============================================================
// Payments
// ============================================================

func recordPaymentHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/payments")
		defer span.End()

		var in domain.PaymentInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		tx, err := bookingSvc.RecordPayment(ctx, UserIDFromContext(ctx), RoleFromContext(ctx), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, tx)
	}
}

func getPaymentHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/payments/{transactionId}")
		defer span.End()

		tx, err := bookingSvc.GetPayment(ctx, UserIDFromContext(ctx), RoleFromContext(ctx), chi.URLParam(r, "transactionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, tx)
	}
}

func listPaymentsHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/payments")
		defer span.End()

		page, pageSize := parsePagination(r)
		q := r.URL.Query()

		txs, err := bookingSvc.ListPayments(ctx, UserIDFromContext(ctx), RoleFromContext(ctx),
			q.Get("client_id"), q.Get("reader_id"), q.Get("from"), q.Get("to"), page, pageSize)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(txs, page, pageSize))
	}
}

// ============================================================
// Notifications
// ============================================================

func listNotificationsHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/notifications")
		defer span.End()

		userID := UserIDFromContext(ctx)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		page, pageSize := parsePagination(r)
		unreadOnly := r.URL.Query().Get("unread") == "true"

		notifications, err := bookingSvc.ListNotifications(ctx, userID, unreadOnly, page, pageSize)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(notifications, page, pageSize))
	}
}

func markNotificationReadHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/notifications/{notificationId}/read")
		defer span.End()

		userID := UserIDFromContext(ctx)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := bookingSvc.MarkNotificationRead(ctx, userID, chi.URLParam(r, "notificationId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "notification marked as read"})
	}
}

func markAllNotificationsReadHandler(bookingSvc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/notifications/read-all")
		defer span.End()

		userID := UserIDFromContext(ctx)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := bookingSvc.MarkAllNotificationsRead(ctx, userID); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "all notifications marked as read"})
	}
}
