package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/i18n"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockBookingStore struct {
	booking       *domain.Booking
	created       *domain.Booking
	statusUpdated string
	bookings      []domain.Booking
	listReaderID  string
	listClientID  string

	tx         *domain.FinancialTransaction
	existingTx *domain.FinancialTransaction
	txs        []domain.FinancialTransaction
	txClientID string
	txReaderID string

	notifications []domain.Notification
	notifyErr     error

	err error
}

func (m *mockBookingStore) CreateBooking(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := *b
	out.ID = "bkg-1"
	m.created = &out
	return &out, nil
}

func (m *mockBookingStore) GetBooking(_ context.Context, id string) (*domain.Booking, error) {
	if m.booking == nil {
		return nil, &domain.ErrNotFound{Resource: "booking", ID: id}
	}
	return m.booking, nil
}

func (m *mockBookingStore) ListBookingsByClient(_ context.Context, clientID, _ string, _, _ int) ([]domain.Booking, error) {
	m.listClientID = clientID
	return m.bookings, m.err
}

func (m *mockBookingStore) ListBookingsByReader(_ context.Context, readerID, _ string, _, _ int) ([]domain.Booking, error) {
	m.listReaderID = readerID
	return m.bookings, m.err
}

func (m *mockBookingStore) UpdateBookingStatus(_ context.Context, id, status string) (*domain.Booking, error) {
	m.statusUpdated = status
	out := *m.booking
	out.ID = id
	out.Status = status
	return &out, nil
}

func (m *mockBookingStore) CreateTransaction(_ context.Context, tx *domain.FinancialTransaction) (*domain.FinancialTransaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := *tx
	out.ID = "tx-1"
	m.tx = &out
	return &out, nil
}

func (m *mockBookingStore) GetTransaction(_ context.Context, id string) (*domain.FinancialTransaction, error) {
	if m.existingTx == nil {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	return m.existingTx, nil
}

func (m *mockBookingStore) GetTransactionByIdempotencyKey(_ context.Context, _ string) (*domain.FinancialTransaction, error) {
	return m.existingTx, nil
}

func (m *mockBookingStore) ListTransactions(_ context.Context, clientID, readerID, _, _ string, _, _ int) ([]domain.FinancialTransaction, error) {
	m.txClientID = clientID
	m.txReaderID = readerID
	return m.txs, m.err
}

func (m *mockBookingStore) CreateNotification(_ context.Context, n *domain.Notification) error {
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *mockBookingStore) ListNotifications(_ context.Context, _ string, _ bool, _, _ int) ([]domain.Notification, error) {
	return m.notifications, m.err
}

func (m *mockBookingStore) MarkNotificationRead(_ context.Context, _, _ string) error { return m.err }

func (m *mockBookingStore) MarkAllNotificationsRead(_ context.Context, _ string) error { return m.err }

type mockServiceLookup struct {
	svc *domain.Service
	err error
}

func (m *mockServiceLookup) GetService(_ context.Context, id string) (*domain.Service, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.svc == nil {
		return nil, &domain.ErrNotFound{Resource: "service", ID: id}
	}
	return m.svc, nil
}

type mockUserDirectory struct {
	users map[string]*domain.User
}

func (m *mockUserDirectory) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	return m.users[id], nil
}

type mockDispatcher struct {
	events     []domain.WebhookEvent
	delivered  []domain.WebhookEvent
	deliverErr error
}

func (m *mockDispatcher) Dispatch(_ context.Context, event domain.WebhookEvent) {
	m.events = append(m.events, event)
}

func (m *mockDispatcher) Deliver(_ context.Context, _ domain.Integration, event domain.WebhookEvent) error {
	m.delivered = append(m.delivered, event)
	return m.deliverErr
}

func newBooking(store *mockBookingStore, services *mockServiceLookup, users *mockUserDirectory, dispatcher *mockDispatcher) *service.BookingService {
	if users == nil {
		users = &mockUserDirectory{}
	}
	return service.NewBookingService(store, services, users, dispatcher,
		i18n.NewCatalog(domain.LanguageEn, false), observability.NewMetrics(), zap.NewNop())
}

func bookableService() *domain.Service {
	return &domain.Service{
		ID:       "svc-1",
		ReaderID: "reader-1",
		Name:     domain.LocalizedText{AR: "قراءة التاروت", EN: "Tarot Reading"},
		IsActive: true,
	}
}

func validBookingInput() *domain.BookingInput {
	return &domain.BookingInput{
		ServiceID:   "svc-1",
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Question:    "What does this year hold?",
		Language:    "en",
	}
}

// --- Booking tests ---

func TestCreateBooking_StartsPendingAndNotifiesReader(t *testing.T) {
	store := &mockBookingStore{}
	dispatcher := &mockDispatcher{}
	users := &mockUserDirectory{users: map[string]*domain.User{
		"reader-1": {ID: "reader-1", FullName: "Nour", Language: domain.LanguageAr},
		"client-1": {ID: "client-1", FullName: "Dana", Language: domain.LanguageEn},
	}}
	svc := newBooking(store, &mockServiceLookup{svc: bookableService()}, users, dispatcher)

	created, err := svc.CreateBooking(context.Background(), "client-1", validBookingInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Status != domain.BookingPending {
		t.Errorf("expected pending status, got %q", created.Status)
	}
	if created.ReaderID != "reader-1" {
		t.Errorf("expected reader derived from service, got %q", created.ReaderID)
	}
	if len(store.notifications) != 1 {
		t.Fatalf("expected one reader notification, got %d", len(store.notifications))
	}
	n := store.notifications[0]
	if n.UserID != "reader-1" {
		t.Errorf("notification went to %q, want reader-1", n.UserID)
	}
	if n.Language != domain.LanguageAr {
		t.Errorf("expected notification in the reader's language ar, got %q", n.Language)
	}
	if len(dispatcher.events) != 1 || dispatcher.events[0].Event != domain.EventBookingCreated {
		t.Errorf("expected one %s event, got %v", domain.EventBookingCreated, dispatcher.events)
	}
}

func TestCreateBooking_RejectsPastTime(t *testing.T) {
	svc := newBooking(&mockBookingStore{}, &mockServiceLookup{svc: bookableService()}, nil, &mockDispatcher{})

	in := validBookingInput()
	in.ScheduledAt = time.Now().Add(-time.Hour)

	_, err := svc.CreateBooking(context.Background(), "client-1", in)
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBooking_InactiveService(t *testing.T) {
	svcRow := bookableService()
	svcRow.IsActive = false
	svc := newBooking(&mockBookingStore{}, &mockServiceLookup{svc: svcRow}, nil, &mockDispatcher{})

	_, err := svc.CreateBooking(context.Background(), "client-1", validBookingInput())
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error for inactive service, got %v", err)
	}
}

func TestCreateBooking_ReaderMismatch(t *testing.T) {
	svc := newBooking(&mockBookingStore{}, &mockServiceLookup{svc: bookableService()}, nil, &mockDispatcher{})

	in := validBookingInput()
	in.ReaderID = "reader-2"

	_, err := svc.CreateBooking(context.Background(), "client-1", in)
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error for reader mismatch, got %v", err)
	}
}

func TestCreateBooking_UnknownService(t *testing.T) {
	svc := newBooking(&mockBookingStore{}, &mockServiceLookup{}, nil, &mockDispatcher{})

	_, err := svc.CreateBooking(context.Background(), "client-1", validBookingInput())
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateBooking_NotificationFailureDoesNotBlock(t *testing.T) {
	store := &mockBookingStore{notifyErr: errors.New("notifications are down")}
	svc := newBooking(store, &mockServiceLookup{svc: bookableService()}, &mockUserDirectory{
		users: map[string]*domain.User{"reader-1": {ID: "reader-1", Language: domain.LanguageEn}},
	}, &mockDispatcher{})

	created, err := svc.CreateBooking(context.Background(), "client-1", validBookingInput())
	if err != nil {
		t.Fatalf("a notification hiccup must not lose the booking, got %v", err)
	}
	if created.ID == "" {
		t.Error("expected the created booking back")
	}
}

func TestUpdateBookingStatus_TransitionMatrix(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{domain.BookingPending, domain.BookingConfirmed, true},
		{domain.BookingPending, domain.BookingCancelled, true},
		{domain.BookingPending, domain.BookingCompleted, false},
		{domain.BookingConfirmed, domain.BookingCompleted, true},
		{domain.BookingConfirmed, domain.BookingCancelled, true},
		{domain.BookingConfirmed, domain.BookingPending, false},
		{domain.BookingCompleted, domain.BookingCancelled, false},
		{domain.BookingCancelled, domain.BookingConfirmed, false},
	}
	for _, tc := range cases {
		t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
			store := &mockBookingStore{booking: &domain.Booking{
				ID: "bkg-1", ClientID: "client-1", ReaderID: "reader-1",
				Status: tc.from, Language: domain.LanguageEn,
			}}
			svc := newBooking(store, &mockServiceLookup{svc: bookableService()}, nil, &mockDispatcher{})

			_, err := svc.UpdateBookingStatus(context.Background(), "reader-1", domain.RoleReader,
				"bkg-1", &domain.BookingStatusUpdate{Status: tc.to})

			if tc.allowed && err != nil {
				t.Fatalf("expected %s -> %s to be allowed, got %v", tc.from, tc.to, err)
			}
			if !tc.allowed {
				var ve *domain.ErrValidation
				if !errors.As(err, &ve) {
					t.Fatalf("expected %s -> %s to be rejected, got %v", tc.from, tc.to, err)
				}
			}
		})
	}
}

func TestUpdateBookingStatus_ClientsMayOnlyCancel(t *testing.T) {
	store := &mockBookingStore{booking: &domain.Booking{
		ID: "bkg-1", ClientID: "client-1", ReaderID: "reader-1",
		Status: domain.BookingPending, Language: domain.LanguageEn,
	}}
	svc := newBooking(store, &mockServiceLookup{svc: bookableService()}, nil, &mockDispatcher{})

	_, err := svc.UpdateBookingStatus(context.Background(), "client-1", domain.RoleClient,
		"bkg-1", &domain.BookingStatusUpdate{Status: domain.BookingConfirmed})
	var fe *domain.ErrForbidden
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for client confirm, got %v", err)
	}

	if _, err := svc.UpdateBookingStatus(context.Background(), "client-1", domain.RoleClient,
		"bkg-1", &domain.BookingStatusUpdate{Status: domain.BookingCancelled, Reason: "changed my mind"}); err != nil {
		t.Fatalf("expected client cancel to be allowed, got %v", err)
	}
}

func TestUpdateBookingStatus_StrangerForbidden(t *testing.T) {
	store := &mockBookingStore{booking: &domain.Booking{
		ID: "bkg-1", ClientID: "client-1", ReaderID: "reader-1", Status: domain.BookingPending,
	}}
	svc := newBooking(store, &mockServiceLookup{svc: bookableService()}, nil, &mockDispatcher{})

	_, err := svc.UpdateBookingStatus(context.Background(), "client-2", domain.RoleClient,
		"bkg-1", &domain.BookingStatusUpdate{Status: domain.BookingCancelled})
	var fe *domain.ErrForbidden
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for uninvolved caller, got %v", err)
	}
}

func TestUpdateBookingStatus_UnknownStatus(t *testing.T) {
	svc := newBooking(&mockBookingStore{}, &mockServiceLookup{}, nil, &mockDispatcher{})

	_, err := svc.UpdateBookingStatus(context.Background(), "admin-1", domain.RoleAdmin,
		"bkg-1", &domain.BookingStatusUpdate{Status: "paused"})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateBookingStatus_CompletionEmitsBothEvents(t *testing.T) {
	store := &mockBookingStore{booking: &domain.Booking{
		ID: "bkg-1", ClientID: "client-1", ReaderID: "reader-1",
		Status: domain.BookingConfirmed, Language: domain.LanguageAr,
	}}
	dispatcher := &mockDispatcher{}
	svc := newBooking(store, &mockServiceLookup{svc: bookableService()}, nil, dispatcher)

	if _, err := svc.UpdateBookingStatus(context.Background(), "reader-1", domain.RoleReader,
		"bkg-1", &domain.BookingStatusUpdate{Status: domain.BookingCompleted}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(dispatcher.events) != 2 {
		t.Fatalf("expected status_changed plus completed events, got %d", len(dispatcher.events))
	}
	if dispatcher.events[0].Event != domain.EventBookingStatus || dispatcher.events[1].Event != domain.EventBookingCompleted {
		t.Errorf("unexpected event sequence: %s, %s", dispatcher.events[0].Event, dispatcher.events[1].Event)
	}

	// The client hears about the transition in the booking's language.
	if len(store.notifications) != 1 {
		t.Fatalf("expected one client notification, got %d", len(store.notifications))
	}
	if n := store.notifications[0]; n.UserID != "client-1" || n.Language != domain.LanguageAr {
		t.Errorf("expected arabic notification for client-1, got user %q lang %q", n.UserID, n.Language)
	}
}

func TestGetBooking_ParticipantsOnly(t *testing.T) {
	store := &mockBookingStore{booking: &domain.Booking{
		ID: "bkg-1", ClientID: "client-1", ReaderID: "reader-1", Status: domain.BookingPending,
	}}
	svc := newBooking(store, &mockServiceLookup{}, nil, &mockDispatcher{})

	_, err := svc.GetBooking(context.Background(), "stranger", domain.RoleClient, "bkg-1")
	var fe *domain.ErrForbidden
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	if _, err := svc.GetBooking(context.Background(), "admin-1", domain.RoleAdmin, "bkg-1"); err != nil {
		t.Fatalf("expected admin access, got %v", err)
	}
	if _, err := svc.GetBooking(context.Background(), "reader-1", domain.RoleReader, "bkg-1"); err != nil {
		t.Fatalf("expected reader access, got %v", err)
	}
}

func TestListBookings_ScopesToCallerRole(t *testing.T) {
	store := &mockBookingStore{}
	svc := newBooking(store, &mockServiceLookup{}, nil, &mockDispatcher{})

	if _, err := svc.ListBookings(context.Background(), "reader-1", domain.RoleReader, "", 1, 20); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.listReaderID != "reader-1" {
		t.Errorf("expected reader-scoped query, got reader %q", store.listReaderID)
	}

	if _, err := svc.ListBookings(context.Background(), "client-1", domain.RoleClient, "", 1, 20); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.listClientID != "client-1" {
		t.Errorf("expected client-scoped query, got client %q", store.listClientID)
	}

	_, err := svc.ListBookings(context.Background(), "client-1", domain.RoleClient, "paused", 1, 20)
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error for unknown status filter, got %v", err)
	}
}

func TestListReaderBookings_OwnerOrAdmin(t *testing.T) {
	store := &mockBookingStore{}
	svc := newBooking(store, &mockServiceLookup{}, nil, &mockDispatcher{})

	_, err := svc.ListReaderBookings(context.Background(), "reader-2", domain.RoleReader, "reader-1", "", 1, 20)
	var fe *domain.ErrForbidden
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for another reader, got %v", err)
	}

	if _, err := svc.ListReaderBookings(context.Background(), "admin-1", domain.RoleAdmin, "reader-1", "", 1, 20); err != nil {
		t.Fatalf("expected admin access, got %v", err)
	}
}

// --- Payment tests ---

func validPaymentInput() *domain.PaymentInput {
	return &domain.PaymentInput{
		ClientID: "client-1",
		ReaderID: "reader-1",
		Amount:   45,
		Method:   "card",
	}
}

func TestRecordPayment_DefaultsAndGeneratedKey(t *testing.T) {
	store := &mockBookingStore{}
	svc := newBooking(store, &mockServiceLookup{}, nil, &mockDispatcher{})

	tx, err := svc.RecordPayment(context.Background(), "client-1", domain.RoleClient, validPaymentInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tx.Type != domain.TransactionPayment {
		t.Errorf("expected default type payment, got %q", tx.Type)
	}
	if tx.Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", tx.Currency)
	}
	if tx.Status != domain.TransactionCompletedStatus {
		t.Errorf("expected completed status, got %q", tx.Status)
	}
	if tx.IdempotencyKey == "" {
		t.Error("expected a generated idempotency key")
	}
}

func TestRecordPayment_DuplicateIdempotencyKey(t *testing.T) {
	store := &mockBookingStore{existingTx: &domain.FinancialTransaction{ID: "tx-0", IdempotencyKey: "key-1"}}
	svc := newBooking(store, &mockServiceLookup{}, nil, &mockDispatcher{})

	in := validPaymentInput()
	in.IdempotencyKey = "key-1"

	_, err := svc.RecordPayment(context.Background(), "client-1", domain.RoleClient, in)
	var dup *domain.ErrDuplicate
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if store.tx != nil {
		t.Error("no second transaction row should be written")
	}
}

func TestRecordPayment_DefaultsPartiesFromBooking(t *testing.T) {
	store := &mockBookingStore{booking: &domain.Booking{
		ID: "bkg-1", ClientID: "client-1", ReaderID: "reader-1", Status: domain.BookingCompleted,
	}}
	svc := newBooking(store, &mockServiceLookup{}, nil, &mockDispatcher{})

	in := &domain.PaymentInput{BookingID: "bkg-1", Amount: 45, Method: "card"}
	tx, err := svc.RecordPayment(context.Background(), "client-1", domain.RoleClient, in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tx.ClientID != "client-1" || tx.ReaderID != "reader-1" {
		t.Errorf("expected parties from booking, got client %q reader %q", tx.ClientID, tx.ReaderID)
	}
}

func TestRecordPayment_ReaderCannotRecordForAnother(t *testing.T) {
	svc := newBooking(&mockBookingStore{}, &mockServiceLookup{}, nil, &mockDispatcher{})

	_, err := svc.RecordPayment(context.Background(), "reader-2", domain.RoleReader, validPaymentInput())
	var fe *domain.ErrForbidden
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRecordPayment_Validation(t *testing.T) {
	svc := newBooking(&mockBookingStore{}, &mockServiceLookup{}, nil, &mockDispatcher{})

	cases := []struct {
		name   string
		mutate func(*domain.PaymentInput)
	}{
		{"zero amount", func(in *domain.PaymentInput) { in.Amount = 0 }},
		{"negative amount", func(in *domain.PaymentInput) { in.Amount = -5 }},
		{"missing method", func(in *domain.PaymentInput) { in.Method = "" }},
		{"unknown type", func(in *domain.PaymentInput) { in.Type = "transfer" }},
		{"missing client", func(in *domain.PaymentInput) { in.ClientID = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validPaymentInput()
			tc.mutate(in)
			_, err := svc.RecordPayment(context.Background(), "admin-1", domain.RoleAdmin, in)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListPayments_ScopesToCaller(t *testing.T) {
	store := &mockBookingStore{}
	svc := newBooking(store, &mockServiceLookup{}, nil, &mockDispatcher{})

	// A client asking for someone else's ledger still only gets their own.
	if _, err := svc.ListPayments(context.Background(), "client-9", domain.RoleClient,
		"client-1", "reader-1", "", "", 1, 20); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.txClientID != "client-9" {
		t.Errorf("expected query scoped to caller, got client %q", store.txClientID)
	}

	if _, err := svc.ListPayments(context.Background(), "reader-3", domain.RoleReader,
		"", "", "", "", 1, 20); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.txReaderID != "reader-3" {
		t.Errorf("expected query scoped to reader, got %q", store.txReaderID)
	}
}
