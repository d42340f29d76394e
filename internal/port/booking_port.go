package port

import (
	"context"

	"github.com/samiatarot/platform-api/internal/domain"
)

// BookingStore handles bookings, payments and in-app notifications.
type BookingStore interface {
	// Bookings
	CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListBookingsByClient(ctx context.Context, clientID, status string, page, pageSize int) ([]domain.Booking, error)
	ListBookingsByReader(ctx context.Context, readerID, status string, page, pageSize int) ([]domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID, status string) (*domain.Booking, error)

	// Financial transactions
	CreateTransaction(ctx context.Context, tx *domain.FinancialTransaction) (*domain.FinancialTransaction, error)
	GetTransaction(ctx context.Context, txID string) (*domain.FinancialTransaction, error)
	GetTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.FinancialTransaction, error)
	ListTransactions(ctx context.Context, clientID, readerID, from, to string, page, pageSize int) ([]domain.FinancialTransaction, error)

	// Notifications
	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notifID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// ServiceLookup is the slice of the catalog the booking flow needs: the
// booked service's reader, price and bilingual name.
type ServiceLookup interface {
	GetService(ctx context.Context, serviceID string) (*domain.Service, error)
}

// UserDirectory resolves users for notification rendering (recipient
// language, display name).
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
