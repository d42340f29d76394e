package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/i18n"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var bookingTracer = otel.Tracer("service/booking")

// BookingService orchestrates the booking lifecycle and the money movement
// around it. Creating or transitioning a booking writes the row first; the
// follow-up side effects (in-app notification, webhook fan-out) run
// log-and-continue so a notification hiccup never loses a booking.
type BookingService struct {
	store      port.BookingStore
	services   port.ServiceLookup
	users      port.UserDirectory
	dispatcher port.EventDispatcher
	catalog    *i18n.Catalog
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(
	store port.BookingStore,
	services port.ServiceLookup,
	users port.UserDirectory,
	dispatcher port.EventDispatcher,
	catalog *i18n.Catalog,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		store:      store,
		services:   services,
		users:      users,
		dispatcher: dispatcher,
		catalog:    catalog,
		metrics:    metrics,
		logger:     logger,
	}
}

// ============================================================
// Bookings
// ============================================================

// CreateBooking books a service for the calling client. The booking starts
// pending, carries the client's language for later notifications, and is
// announced to the reader in the reader's own language.
func (s *BookingService) CreateBooking(ctx context.Context, clientID string, in *domain.BookingInput) (*domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.CreateBooking")
	defer span.End()
	span.SetAttributes(attribute.String("service.id", in.ServiceID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("booking_create", time.Since(start))
	}()

	if in.ServiceID == "" {
		return nil, &domain.ErrValidation{Field: "service_id", Message: "required"}
	}
	if in.ScheduledAt.IsZero() || !in.ScheduledAt.After(time.Now()) {
		return nil, &domain.ErrValidation{Field: "scheduled_at", Message: "must be in the future"}
	}

	svc, err := s.services.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, &domain.ErrValidation{Field: "service_id", Message: "service is not bookable"}
	}
	if in.ReaderID != "" && in.ReaderID != svc.ReaderID {
		return nil, &domain.ErrValidation{Field: "reader_id", Message: "service is offered by a different reader"}
	}

	booking := &domain.Booking{
		ServiceID:   svc.ID,
		ReaderID:    svc.ReaderID,
		ClientID:    clientID,
		Status:      domain.BookingPending,
		ScheduledAt: in.ScheduledAt.UTC(),
		Question:    in.Question,
		Notes:       in.Notes,
		Language:    domain.ParseLanguage(in.Language, s.catalog.DefaultLanguage()),
	}

	created, err := s.store.CreateBooking(ctx, booking)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrBooking(domain.BookingPending)

	s.notifyBookingCreated(ctx, created, svc)
	s.dispatcher.Dispatch(ctx, newEvent(domain.EventBookingCreated, created))

	s.logger.Info("booking created",
		zap.String("booking_id", created.ID),
		zap.String("service_id", created.ServiceID),
		zap.String("reader_id", created.ReaderID),
		zap.String("client_id", created.ClientID))
	return created, nil
}

// GetBooking returns one booking; only its participants and admins may see it.
func (s *BookingService) GetBooking(ctx context.Context, callerID, role, bookingID string) (*domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.GetBooking")
	defer span.End()

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canSeeBooking(callerID, role, booking) {
		return nil, &domain.ErrForbidden{Action: "view booking"}
	}
	return booking, nil
}

// ListBookings returns the caller's own bookings: readers see the sessions
// booked with them, everyone else their bookings as a client.
func (s *BookingService) ListBookings(ctx context.Context, callerID, role, status string, page, pageSize int) ([]domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.ListBookings")
	defer span.End()

	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}
	if role == domain.RoleReader {
		return s.store.ListBookingsByReader(ctx, callerID, status, page, pageSize)
	}
	return s.store.ListBookingsByClient(ctx, callerID, status, page, pageSize)
}

// ListReaderBookings returns one reader's bookings, for that reader or an
// admin.
func (s *BookingService) ListReaderBookings(ctx context.Context, callerID, role, readerID, status string, page, pageSize int) ([]domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.ListReaderBookings")
	defer span.End()
	span.SetAttributes(attribute.String("reader.id", readerID))

	if role != domain.RoleAdmin && callerID != readerID {
		return nil, &domain.ErrForbidden{Action: "view another reader's bookings"}
	}
	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}
	return s.store.ListBookingsByReader(ctx, readerID, status, page, pageSize)
}

// UpdateBookingStatus moves a booking through its lifecycle. Readers
// confirm, complete or cancel their own sessions; clients may only cancel
// their own; admins may do anything. Illegal transitions are rejected
// before any write.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, callerID, role, bookingID string, upd *domain.BookingStatusUpdate) (*domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.UpdateBookingStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", bookingID),
		attribute.String("booking.next_status", upd.Status),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("booking_status_update", time.Since(start))
	}()

	if !domain.ValidBookingStatus(upd.Status) {
		return nil, &domain.ErrValidation{Field: "status", Message: "must be pending, confirmed, completed or cancelled"}
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkTransitionPermission(callerID, role, booking, upd.Status); err != nil {
		return nil, err
	}
	if !booking.CanTransitionTo(upd.Status) {
		return nil, &domain.ErrValidation{
			Field:   "status",
			Message: fmt.Sprintf("cannot change a %s booking to %s", booking.Status, upd.Status),
		}
	}

	updated, err := s.store.UpdateBookingStatus(ctx, bookingID, upd.Status)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrBooking(upd.Status)

	s.notifyStatusChange(ctx, updated)
	s.dispatcher.Dispatch(ctx, newEvent(domain.EventBookingStatus, updated))
	if updated.Status == domain.BookingCompleted {
		s.dispatcher.Dispatch(ctx, newEvent(domain.EventBookingCompleted, updated))
	}

	fields := []zap.Field{
		zap.String("booking_id", bookingID),
		zap.String("status", updated.Status),
	}
	if upd.Reason != "" {
		fields = append(fields, zap.String("reason", upd.Reason))
	}
	s.logger.Info("booking status changed", fields...)
	return updated, nil
}

func canSeeBooking(callerID, role string, b *domain.Booking) bool {
	return role == domain.RoleAdmin || callerID == b.ClientID || callerID == b.ReaderID
}

func checkTransitionPermission(callerID, role string, b *domain.Booking, next string) error {
	switch {
	case role == domain.RoleAdmin:
		return nil
	case callerID == b.ReaderID:
		return nil
	case callerID == b.ClientID:
		if next == domain.BookingCancelled {
			return nil
		}
		return &domain.ErrForbidden{Action: "clients may only cancel their bookings"}
	}
	return &domain.ErrForbidden{Action: "update booking status"}
}

func validateStatusFilter(status string) error {
	if status != "" && !domain.ValidBookingStatus(status) {
		return &domain.ErrValidation{Field: "status", Message: "unknown booking status"}
	}
	return nil
}

// ============================================================
// Payments
// ============================================================

// RecordPayment writes a financial transaction. When a booking is
// referenced, the parties default from it. A repeated idempotency key
// returns the conflict instead of a second row.
func (s *BookingService) RecordPayment(ctx context.Context, callerID, role string, in *domain.PaymentInput) (*domain.FinancialTransaction, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.RecordPayment")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("payment_record", time.Since(start))
	}()

	if in.Amount <= 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}
	if in.Method == "" {
		return nil, &domain.ErrValidation{Field: "method", Message: "required"}
	}
	txType := in.Type
	if txType == "" {
		txType = domain.TransactionPayment
	}
	if txType != domain.TransactionPayment && txType != domain.TransactionRefund && txType != domain.TransactionPayout {
		return nil, &domain.ErrValidation{Field: "type", Message: "must be payment, refund or payout"}
	}

	clientID, readerID := in.ClientID, in.ReaderID
	if in.BookingID != "" {
		booking, err := s.store.GetBooking(ctx, in.BookingID)
		if err != nil {
			return nil, err
		}
		if clientID == "" {
			clientID = booking.ClientID
		}
		if readerID == "" {
			readerID = booking.ReaderID
		}
	}
	if clientID == "" {
		return nil, &domain.ErrValidation{Field: "client_id", Message: "required"}
	}
	if readerID == "" {
		return nil, &domain.ErrValidation{Field: "reader_id", Message: "required"}
	}
	switch role {
	case domain.RoleAdmin:
	case domain.RoleReader:
		if readerID != callerID {
			return nil, &domain.ErrForbidden{Action: "record a payment for another reader"}
		}
	default:
		if clientID != callerID {
			return nil, &domain.ErrForbidden{Action: "record a payment for another client"}
		}
	}

	key := in.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	} else {
		existing, err := s.store.GetTransactionByIdempotencyKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &domain.ErrDuplicate{Key: key}
		}
	}

	tx := &domain.FinancialTransaction{
		BookingID:      in.BookingID,
		ClientID:       clientID,
		ReaderID:       readerID,
		Type:           txType,
		Amount:         in.Amount,
		Currency:       currencyOrDefault(in.Currency),
		Method:         in.Method,
		Status:         domain.TransactionCompletedStatus,
		IdempotencyKey: key,
	}

	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	s.notifyPayment(ctx, created)
	s.dispatcher.Dispatch(ctx, newEvent(domain.EventPaymentRecorded, created))

	s.logger.Info("payment recorded",
		zap.String("transaction_id", created.ID),
		zap.String("type", created.Type),
		zap.Float64("amount", created.Amount),
		zap.String("currency", created.Currency))
	return created, nil
}

// GetPayment returns one transaction for its participants or an admin.
func (s *BookingService) GetPayment(ctx context.Context, callerID, role, txID string) (*domain.FinancialTransaction, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.GetPayment")
	defer span.End()

	tx, err := s.store.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && callerID != tx.ClientID && callerID != tx.ReaderID {
		return nil, &domain.ErrForbidden{Action: "view transaction"}
	}
	return tx, nil
}

// ListPayments returns transactions scoped to the caller: clients see their
// own spending, readers their own earnings, admins whatever they filter on.
func (s *BookingService) ListPayments(ctx context.Context, callerID, role, clientID, readerID, from, to string, page, pageSize int) ([]domain.FinancialTransaction, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.ListPayments")
	defer span.End()

	switch role {
	case domain.RoleAdmin:
	case domain.RoleReader:
		readerID = callerID
	default:
		clientID = callerID
	}
	return s.store.ListTransactions(ctx, clientID, readerID, from, to, page, pageSize)
}

// ============================================================
// In-app notifications
// ============================================================

func (s *BookingService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]domain.Notification, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.ListNotifications")
	defer span.End()

	return s.store.ListNotifications(ctx, userID, unreadOnly, page, pageSize)
}

func (s *BookingService) MarkNotificationRead(ctx context.Context, userID, notifID string) error {
	ctx, span := bookingTracer.Start(ctx, "BookingService.MarkNotificationRead")
	defer span.End()

	return s.store.MarkNotificationRead(ctx, userID, notifID)
}

func (s *BookingService) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	ctx, span := bookingTracer.Start(ctx, "BookingService.MarkAllNotificationsRead")
	defer span.End()

	return s.store.MarkAllNotificationsRead(ctx, userID)
}

// ============================================================
// Side effects
// ============================================================

// notifyBookingCreated tells the reader about a new request, in the
// reader's language.
func (s *BookingService) notifyBookingCreated(ctx context.Context, b *domain.Booking, svc *domain.Service) {
	reader, err := s.users.GetUserByID(ctx, b.ReaderID)
	if err != nil || reader == nil {
		s.logger.Error("failed to load reader for booking notification",
			zap.String("booking_id", b.ID), zap.String("reader_id", b.ReaderID), zap.Error(err))
		return
	}
	lang := reader.Language
	if !lang.Valid() {
		lang = s.catalog.DefaultLanguage()
	}

	clientName := b.ClientID
	if client, err := s.users.GetUserByID(ctx, b.ClientID); err == nil && client != nil {
		clientName = client.FullName
	}

	n := &domain.Notification{
		UserID:   b.ReaderID,
		Type:     domain.NotificationBookingCreated,
		Title:    s.catalog.T(lang, "notification.booking_created.title"),
		Body:     s.catalog.T(lang, "notification.booking_created.body", clientName, svc.Name.Resolve(lang, ""), b.ScheduledAt.Format("2006-01-02 15:04")),
		Language: lang,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Error("failed to write booking notification",
			zap.String("booking_id", b.ID), zap.Error(err))
	}
}

// notifyStatusChange tells the client about a transition, in the language
// the booking was made in.
func (s *BookingService) notifyStatusChange(ctx context.Context, b *domain.Booking) {
	lang := b.Language
	if !lang.Valid() {
		lang = s.catalog.DefaultLanguage()
	}

	serviceName := b.ServiceID
	if svc, err := s.services.GetService(ctx, b.ServiceID); err == nil {
		serviceName = svc.Name.Resolve(lang, serviceName)
	}

	title := s.catalog.T(lang, "notification.booking_status.title")
	body := s.catalog.T(lang, "notification.booking_status.body", serviceName, s.catalog.T(lang, "status."+b.Status))
	if b.Status == domain.BookingCompleted {
		title = s.catalog.T(lang, "notification.booking_completed.title")
		body = s.catalog.T(lang, "notification.booking_completed.body", serviceName)
	}

	n := &domain.Notification{
		UserID:   b.ClientID,
		Type:     domain.NotificationBookingStatus,
		Title:    title,
		Body:     body,
		Language: lang,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Error("failed to write status notification",
			zap.String("booking_id", b.ID), zap.Error(err))
	}
}

// notifyPayment tells the reader money moved, in the reader's language.
func (s *BookingService) notifyPayment(ctx context.Context, tx *domain.FinancialTransaction) {
	reader, err := s.users.GetUserByID(ctx, tx.ReaderID)
	if err != nil || reader == nil {
		s.logger.Error("failed to load reader for payment notification",
			zap.String("transaction_id", tx.ID), zap.Error(err))
		return
	}
	lang := reader.Language
	if !lang.Valid() {
		lang = s.catalog.DefaultLanguage()
	}

	n := &domain.Notification{
		UserID:   tx.ReaderID,
		Type:     domain.NotificationPayment,
		Title:    s.catalog.T(lang, "notification.payment.title"),
		Body:     s.catalog.T(lang, "notification.payment.body", tx.Amount, tx.Currency),
		Language: lang,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Error("failed to write payment notification",
			zap.String("transaction_id", tx.ID), zap.Error(err))
	}
}

func newEvent(name string, data any) domain.WebhookEvent {
	return domain.WebhookEvent{
		ID:         uuid.New().String(),
		Event:      name,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}
