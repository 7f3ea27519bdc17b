package commands_test

import (
	"context"
	"testing"
	"time"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/offer"
	"parcelhub/internal/core/domain/model/payment"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Add(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Update(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) ListPendingByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*offer.Offer, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*offer.Offer, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, p *payment.PaymentRecord) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.PaymentRecord) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetOpenByDeliveryForUpdate(ctx context.Context, deliveryID kernel.UUID) (*payment.PaymentRecord, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentRecord), args.Error(1)
}

type MockTrackingRepository struct{ mock.Mock }

func (m *MockTrackingRepository) Add(ctx context.Context, r *tracking.TrackingRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockTrackingRepository) Update(ctx context.Context, r *tracking.TrackingRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockTrackingRepository) GetByDelivery(ctx context.Context, deliveryID kernel.UUID) (*tracking.TrackingRecord, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.TrackingRecord), args.Error(1)
}

type MockLedgerRepository struct{ mock.Mock }

func (m *MockLedgerRepository) Debit(ctx context.Context, userID kernel.UUID, amount kernel.Money) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockLedgerRepository) Credit(ctx context.Context, userID kernel.UUID, amount kernel.Money) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockLedgerRepository) Balance(ctx context.Context, userID kernel.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockIdempotencyRepository struct{ mock.Mock }

func (m *MockIdempotencyRepository) Get(ctx context.Context, key, operation string) (*ports.IdempotencyRecord, error) {
	args := m.Called(ctx, key, operation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.IdempotencyRecord), args.Error(1)
}

func (m *MockIdempotencyRepository) Save(ctx context.Context, record ports.IdempotencyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockUoW implements every narrowed unit of work interface.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}
func (m *MockUoW) OfferRepository() ports.OfferRepository {
	args := m.Called()
	return args.Get(0).(ports.OfferRepository)
}
func (m *MockUoW) PaymentRepository() ports.PaymentRepository {
	args := m.Called()
	return args.Get(0).(ports.PaymentRepository)
}
func (m *MockUoW) TrackingRepository() ports.TrackingRepository {
	args := m.Called()
	return args.Get(0).(ports.TrackingRepository)
}
func (m *MockUoW) LedgerRepository() ports.LedgerRepository {
	args := m.Called()
	return args.Get(0).(ports.LedgerRepository)
}
func (m *MockUoW) IdempotencyRepository() ports.IdempotencyRepository {
	args := m.Called()
	return args.Get(0).(ports.IdempotencyRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

type MockOfferUoWFactory struct{ mock.Mock }

func (m *MockOfferUoWFactory) Create() commands.OfferUoW {
	args := m.Called()
	return args.Get(0).(commands.OfferUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockChatProvisioner struct{ mock.Mock }

func (m *MockChatProvisioner) EnsureChat(ctx context.Context, deliveryID, userA, userB kernel.UUID) (kernel.UUID, error) {
	args := m.Called(ctx, deliveryID, userA, userB)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockRoomPublisher struct{ mock.Mock }

func (m *MockRoomPublisher) Publish(ctx context.Context, deliveryID kernel.UUID, event ports.RoomEvent) error {
	args := m.Called(ctx, deliveryID, event)
	return args.Error(0)
}

func testPlace(t *testing.T, lat, lng float64, address string) kernel.Place {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	place, err := kernel.NewPlace(point, address)
	require.NoError(t, err)
	return place
}

func pendingDelivery(t *testing.T, senderID kernel.UUID, recipientID *kernel.UUID, price string) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(
		kernel.NewUUID(),
		senderID,
		recipientID,
		kernel.MustMoney(price),
		testPlace(t, 52.52, 13.40, "Alexanderplatz 1"),
		testPlace(t, 52.50, 13.37, "Potsdamer Platz 5"),
		"documents",
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return d
}

func pendingOffer(t *testing.T, deliveryID, pickerID kernel.UUID, price string) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(kernel.NewUUID(), deliveryID, pickerID, kernel.MustMoney(price), "", time.Now().UTC())
	require.NoError(t, err)
	return o
}
