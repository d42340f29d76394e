package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/samiatarot/platform-api/internal/domain"
)

// ============================================================
// BookingStore implementation — bookings, payments, notifications
// ============================================================

// --- Bookings ---

func (c *Client) CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateBooking")
	defer span.End()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":           b.ID,
		"service_id":   b.ServiceID,
		"reader_id":    b.ReaderID,
		"client_id":    b.ClientID,
		"status":       b.Status,
		"scheduled_at": b.ScheduledAt.Format(time.RFC3339),
		"question":     b.Question,
		"notes":        b.Notes,
		"language":     string(b.Language),
	}

	body, err := c.doPost(ctx, "bookings", data)
	if err != nil {
		return nil, err
	}

	var rows []domain.Booking
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	if len(rows) == 0 {
		return b, nil
	}
	return &rows[0], nil
}

func (c *Client) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetBooking")
	defer span.End()

	path := fmt.Sprintf("bookings?id=eq.%s&limit=1", bookingID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "booking", ID: bookingID}
	}

	var rows []domain.Booking
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "booking", ID: bookingID}
	}
	return &rows[0], nil
}

func (c *Client) ListBookingsByClient(ctx context.Context, clientID, status string, page, pageSize int) ([]domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBookingsByClient")
	defer span.End()

	path := fmt.Sprintf("bookings?client_id=eq.%s", clientID)
	if status != "" {
		path += fmt.Sprintf("&status=eq.%s", status)
	}
	path += fmt.Sprintf("&order=scheduled_at.desc&limit=%d&offset=%d", pageSize, (page-1)*pageSize)
	return c.listBookings(ctx, path)
}

func (c *Client) ListBookingsByReader(ctx context.Context, readerID, status string, page, pageSize int) ([]domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBookingsByReader")
	defer span.End()

	path := fmt.Sprintf("bookings?reader_id=eq.%s", readerID)
	if status != "" {
		path += fmt.Sprintf("&status=eq.%s", status)
	}
	path += fmt.Sprintf("&order=scheduled_at.desc&limit=%d&offset=%d", pageSize, (page-1)*pageSize)
	return c.listBookings(ctx, path)
}

func (c *Client) listBookings(ctx context.Context, path string) ([]domain.Booking, error) {
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.Booking{}, nil
	}

	var rows []domain.Booking
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return rows, nil
}

func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID, status string) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateBookingStatus")
	defer span.End()

	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if status == domain.BookingCompleted {
		updates["completed_at"] = time.Now().UTC().Format(time.RFC3339)
	}

	path := fmt.Sprintf("bookings?id=eq.%s", bookingID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}

	return c.GetBooking(ctx, bookingID)
}

// --- Financial transactions ---

func (c *Client) CreateTransaction(ctx context.Context, tx *domain.FinancialTransaction) (*domain.FinancialTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransaction")
	defer span.End()

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":              tx.ID,
		"booking_id":      tx.BookingID,
		"client_id":       tx.ClientID,
		"reader_id":       tx.ReaderID,
		"type":            tx.Type,
		"amount":          tx.Amount,
		"currency":        tx.Currency,
		"method":          tx.Method,
		"status":          tx.Status,
		"idempotency_key": tx.IdempotencyKey,
	}

	body, err := c.doPost(ctx, "financial_transactions", data)
	if err != nil {
		return nil, err
	}

	var rows []domain.FinancialTransaction
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode financial_transactions: %w", err)
	}
	if len(rows) == 0 {
		return tx, nil
	}
	return &rows[0], nil
}

func (c *Client) GetTransaction(ctx context.Context, txID string) (*domain.FinancialTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransaction")
	defer span.End()

	path := fmt.Sprintf("financial_transactions?id=eq.%s&limit=1", txID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: txID}
	}

	var rows []domain.FinancialTransaction
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode financial_transactions: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: txID}
	}
	return &rows[0], nil
}

func (c *Client) GetTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.FinancialTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransactionByIdempotencyKey")
	defer span.End()

	path := fmt.Sprintf("financial_transactions?idempotency_key=eq.%s&limit=1", key)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil // no prior transaction with this key
	}

	var rows []domain.FinancialTransaction
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode financial_transactions: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) ListTransactions(ctx context.Context, clientID, readerID, from, to string, page, pageSize int) ([]domain.FinancialTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer span.End()

	path := "financial_transactions?"
	if clientID != "" {
		path += fmt.Sprintf("client_id=eq.%s&", clientID)
	}
	if readerID != "" {
		path += fmt.Sprintf("reader_id=eq.%s&", readerID)
	}
	if from != "" {
		path += fmt.Sprintf("created_at=gte.%s&", from)
	}
	if to != "" {
		path += fmt.Sprintf("created_at=lte.%s&", to)
	}
	path += fmt.Sprintf("order=created_at.desc&limit=%d&offset=%d", pageSize, (page-1)*pageSize)

	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.FinancialTransaction{}, nil
	}

	var rows []domain.FinancialTransaction
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode financial_transactions: %w", err)
	}
	return rows, nil
}

// --- Notifications ---

func (c *Client) CreateNotification(ctx context.Context, n *domain.Notification) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateNotification")
	defer span.End()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":       n.ID,
		"user_id":  n.UserID,
		"type":     n.Type,
		"title":    n.Title,
		"body":     n.Body,
		"language": string(n.Language),
		"is_read":  false,
	}

	_, err := c.doPost(ctx, "notifications", data)
	return err
}

func (c *Client) ListNotifications(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListNotifications")
	defer span.End()

	path := fmt.Sprintf("notifications?user_id=eq.%s", userID)
	if unreadOnly {
		path += "&is_read=eq.false"
	}
	path += fmt.Sprintf("&order=created_at.desc&limit=%d&offset=%d", pageSize, (page-1)*pageSize)

	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.Notification{}, nil
	}

	var rows []domain.Notification
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return rows, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, userID, notifID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.MarkNotificationRead")
	defer span.End()

	// user_id filter keeps one user from touching another's notifications
	path := fmt.Sprintf("notifications?id=eq.%s&user_id=eq.%s", notifID, userID)
	return c.doPatch(ctx, path, map[string]any{
		"is_read": true,
		"read_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.MarkAllNotificationsRead")
	defer span.End()

	path := fmt.Sprintf("notifications?user_id=eq.%s&is_read=eq.false", userID)
	return c.doPatch(ctx, path, map[string]any{
		"is_read": true,
		"read_at": time.Now().UTC().Format(time.RFC3339),
	})
}
