package commands_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/offer"
	"parcelhub/internal/core/domain/model/payment"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// memStore is a transactional in-memory database for scenario tests. A unit
// of work holds the store lock from Begin to Commit or Rollback, which
// serializes transactions the way the delivery row lock does.
type memStore struct {
	t     *testing.T
	lock  sync.Mutex
	state *memState
	// faults makes the named repository call fail, e.g. "tracking.Add".
	faults map[string]error
}

type memState struct {
	deliveries  map[kernel.UUID]*delivery.Delivery
	offers      map[kernel.UUID]*offer.Offer
	payments    map[kernel.UUID]*payment.PaymentRecord
	tracking    map[kernel.UUID]*tracking.TrackingRecord
	balances    map[kernel.UUID]decimal.Decimal
	idempotency map[string]ports.IdempotencyRecord
}

func newMemStore(t *testing.T) *memStore {
	return &memStore{
		t: t,
		state: &memState{
			deliveries:  map[kernel.UUID]*delivery.Delivery{},
			offers:      map[kernel.UUID]*offer.Offer{},
			payments:    map[kernel.UUID]*payment.PaymentRecord{},
			tracking:    map[kernel.UUID]*tracking.TrackingRecord{},
			balances:    map[kernel.UUID]decimal.Decimal{},
			idempotency: map[string]ports.IdempotencyRecord{},
		},
		faults: map[string]error{},
	}
}

func (s *memStore) fault(name string) error {
	return s.faults[name]
}

func (s *memStore) seedBalance(userID kernel.UUID, amount string) {
	s.state.balances[userID] = decimal.RequireFromString(amount)
}

func (s *memStore) seedDelivery(d *delivery.Delivery) {
	s.state.deliveries[d.ID()] = cloneDelivery(s.t, d)
}

func (s *memStore) seedOffer(o *offer.Offer) {
	s.state.offers[o.ID()] = cloneOffer(s.t, o)
}

func (s *memStore) balance(userID kernel.UUID) decimal.Decimal {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state.balances[userID]
}

func (s *memStore) delivery(id kernel.UUID) *delivery.Delivery {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state.deliveries[id]
}

func (s *memStore) offer(id kernel.UUID) *offer.Offer {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state.offers[id]
}

func (s *memStore) tracking(deliveryID kernel.UUID) *tracking.TrackingRecord {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state.tracking[deliveryID]
}

func (s *memStore) paymentsOf(deliveryID kernel.UUID) []*payment.PaymentRecord {
	s.lock.Lock()
	defer s.lock.Unlock()
	var records []*payment.PaymentRecord
	for _, p := range s.state.payments {
		if p.DeliveryID().IsEqual(deliveryID) {
			records = append(records, p)
		}
	}
	return records
}

func (st *memState) clone(t *testing.T) *memState {
	c := &memState{
		deliveries:  make(map[kernel.UUID]*delivery.Delivery, len(st.deliveries)),
		offers:      make(map[kernel.UUID]*offer.Offer, len(st.offers)),
		payments:    make(map[kernel.UUID]*payment.PaymentRecord, len(st.payments)),
		tracking:    make(map[kernel.UUID]*tracking.TrackingRecord, len(st.tracking)),
		balances:    make(map[kernel.UUID]decimal.Decimal, len(st.balances)),
		idempotency: make(map[string]ports.IdempotencyRecord, len(st.idempotency)),
	}
	for k, v := range st.deliveries {
		c.deliveries[k] = cloneDelivery(t, v)
	}
	for k, v := range st.offers {
		c.offers[k] = cloneOffer(t, v)
	}
	for k, v := range st.payments {
		c.payments[k] = clonePayment(t, v)
	}
	for k, v := range st.tracking {
		c.tracking[k] = cloneTracking(t, v)
	}
	for k, v := range st.balances {
		c.balances[k] = v
	}
	for k, v := range st.idempotency {
		c.idempotency[k] = v
	}
	return c
}

func cloneDelivery(t *testing.T, d *delivery.Delivery) *delivery.Delivery {
	c, err := delivery.RestoreDelivery(
		d.ID(), d.SenderID(), d.PickerID(), d.RecipientID(), d.Status(), d.Price(),
		d.RecipientConfirmed(), d.From(), d.To(), d.Description(), d.CreatedAt(), d.UpdatedAt(),
	)
	require.NoError(t, err)
	return c
}

func cloneOffer(t *testing.T, o *offer.Offer) *offer.Offer {
	c, err := offer.RestoreOffer(
		o.ID(), o.DeliveryID(), o.PickerID(), o.Price(), o.Message(), o.Status(), o.CreatedAt(), o.UpdatedAt(),
	)
	require.NoError(t, err)
	return c
}

func clonePayment(t *testing.T, p *payment.PaymentRecord) *payment.PaymentRecord {
	c, err := payment.RestorePayment(
		p.ID(), p.DeliveryID(), p.FromUserID(), p.ToUserID(), p.Amount(), p.Status(), p.Method(), p.CreatedAt(), p.CompletedAt(),
	)
	require.NoError(t, err)
	return c
}

func cloneTracking(t *testing.T, r *tracking.TrackingRecord) *tracking.TrackingRecord {
	c, err := tracking.RestoreTrackingRecord(
		r.ID(), r.DeliveryID(), r.PickerID(), r.SenderID(), r.ReceiverID(),
		r.From(), r.To(), r.PickerLocation(), r.Status(), r.UpdatedAt(),
	)
	require.NoError(t, err)
	return c
}

var errNoActiveTransaction = errors.New("no active transaction")

type memUoW struct {
	store  *memStore
	tx     *memState
	active bool
}

func (u *memUoW) Begin(_ context.Context) error {
	u.store.lock.Lock()
	u.tx = u.store.state.clone(u.store.t)
	u.active = true
	return nil
}

func (u *memUoW) Commit(_ context.Context) error {
	if !u.active {
		return errNoActiveTransaction
	}
	if err := u.store.fault("commit"); err != nil {
		return err
	}
	u.store.state = u.tx
	u.finish()
	return nil
}

func (u *memUoW) Rollback(_ context.Context) error {
	if !u.active {
		return errNoActiveTransaction
	}
	u.finish()
	return nil
}

func (u *memUoW) finish() {
	u.tx = nil
	u.active = false
	u.store.lock.Unlock()
}

func (u *memUoW) DeliveryRepository() ports.DeliveryRepository       { return memDeliveryRepo{u} }
func (u *memUoW) OfferRepository() ports.OfferRepository             { return memOfferRepo{u} }
func (u *memUoW) PaymentRepository() ports.PaymentRepository         { return memPaymentRepo{u} }
func (u *memUoW) TrackingRepository() ports.TrackingRepository       { return memTrackingRepo{u} }
func (u *memUoW) LedgerRepository() ports.LedgerRepository           { return memLedgerRepo{u} }
func (u *memUoW) IdempotencyRepository() ports.IdempotencyRepository { return memIdempotencyRepo{u} }

type memDeliveryRepo struct{ uow *memUoW }

func (r memDeliveryRepo) Add(_ context.Context, d *delivery.Delivery) error {
	r.uow.tx.deliveries[d.ID()] = cloneDelivery(r.uow.store.t, d)
	return nil
}

func (r memDeliveryRepo) Update(_ context.Context, d *delivery.Delivery) error {
	if err := r.uow.store.fault("delivery.Update"); err != nil {
		return err
	}
	if _, ok := r.uow.tx.deliveries[d.ID()]; !ok {
		return errs.NewObjectNotFoundError("delivery", d.ID())
	}
	r.uow.tx.deliveries[d.ID()] = cloneDelivery(r.uow.store.t, d)
	return nil
}

func (r memDeliveryRepo) Get(_ context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	d, ok := r.uow.tx.deliveries[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("delivery", id)
	}
	return cloneDelivery(r.uow.store.t, d), nil
}

func (r memDeliveryRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.Get(ctx, id)
}

type memOfferRepo struct{ uow *memUoW }

func (r memOfferRepo) Add(_ context.Context, o *offer.Offer) error {
	r.uow.tx.offers[o.ID()] = cloneOffer(r.uow.store.t, o)
	return nil
}

func (r memOfferRepo) Update(_ context.Context, o *offer.Offer) error {
	if _, ok := r.uow.tx.offers[o.ID()]; !ok {
		return errs.NewObjectNotFoundError("offer", o.ID())
	}
	r.uow.tx.offers[o.ID()] = cloneOffer(r.uow.store.t, o)
	return nil
}

func (r memOfferRepo) Get(_ context.Context, id kernel.UUID) (*offer.Offer, error) {
	o, ok := r.uow.tx.offers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("offer", id)
	}
	return cloneOffer(r.uow.store.t, o), nil
}

func (r memOfferRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	return r.Get(ctx, id)
}

func (r memOfferRepo) ListPendingByDelivery(_ context.Context, deliveryID kernel.UUID) ([]*offer.Offer, error) {
	return r.pending(func(o *offer.Offer) bool { return o.BelongsTo(deliveryID) }, 0), nil
}

func (r memOfferRepo) ListPendingCreatedBefore(_ context.Context, cutoff time.Time, limit int) ([]*offer.Offer, error) {
	return r.pending(func(o *offer.Offer) bool { return o.CreatedAt().Before(cutoff) }, limit), nil
}

func (r memOfferRepo) pending(match func(*offer.Offer) bool, limit int) []*offer.Offer {
	var result []*offer.Offer
	for _, o := range r.uow.tx.offers {
		if o.IsPending() && match(o) {
			result = append(result, cloneOffer(r.uow.store.t, o))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt().Before(result[j].CreatedAt()) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

type memPaymentRepo struct{ uow *memUoW }

func (r memPaymentRepo) Add(_ context.Context, p *payment.PaymentRecord) error {
	r.uow.tx.payments[p.ID()] = clonePayment(r.uow.store.t, p)
	return nil
}

func (r memPaymentRepo) Update(_ context.Context, p *payment.PaymentRecord) error {
	if err := r.uow.store.fault("payment.Update"); err != nil {
		return err
	}
	r.uow.tx.payments[p.ID()] = clonePayment(r.uow.store.t, p)
	return nil
}

func (r memPaymentRepo) GetOpenByDeliveryForUpdate(_ context.Context, deliveryID kernel.UUID) (*payment.PaymentRecord, error) {
	for _, p := range r.uow.tx.payments {
		if p.DeliveryID().IsEqual(deliveryID) && p.Status().IsOpen() {
			return clonePayment(r.uow.store.t, p), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("open payment of delivery", deliveryID)
}

type memTrackingRepo struct{ uow *memUoW }

func (r memTrackingRepo) Add(_ context.Context, rec *tracking.TrackingRecord) error {
	if err := r.uow.store.fault("tracking.Add"); err != nil {
		return err
	}
	r.uow.tx.tracking[rec.DeliveryID()] = cloneTracking(r.uow.store.t, rec)
	return nil
}

func (r memTrackingRepo) Update(_ context.Context, rec *tracking.TrackingRecord) error {
	r.uow.tx.tracking[rec.DeliveryID()] = cloneTracking(r.uow.store.t, rec)
	return nil
}

func (r memTrackingRepo) GetByDelivery(_ context.Context, deliveryID kernel.UUID) (*tracking.TrackingRecord, error) {
	rec, ok := r.uow.tx.tracking[deliveryID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("tracking of delivery", deliveryID)
	}
	return cloneTracking(r.uow.store.t, rec), nil
}

type memLedgerRepo struct{ uow *memUoW }

func (r memLedgerRepo) Debit(_ context.Context, userID kernel.UUID, amount kernel.Money) error {
	balance, ok := r.uow.tx.balances[userID]
	if !ok {
		return errs.NewObjectNotFoundError("account", userID)
	}
	if balance.LessThan(amount.Decimal()) {
		return errs.NewInsufficientFundsError(userID, amount)
	}
	r.uow.tx.balances[userID] = balance.Sub(amount.Decimal())
	return nil
}

func (r memLedgerRepo) Credit(_ context.Context, userID kernel.UUID, amount kernel.Money) error {
	if err := r.uow.store.fault("ledger.Credit"); err != nil {
		return err
	}
	r.uow.tx.balances[userID] = r.uow.tx.balances[userID].Add(amount.Decimal())
	return nil
}

func (r memLedgerRepo) Balance(_ context.Context, userID kernel.UUID) (decimal.Decimal, error) {
	balance, ok := r.uow.tx.balances[userID]
	if !ok {
		return decimal.Zero, errs.NewObjectNotFoundError("account", userID)
	}
	return balance, nil
}

type memIdempotencyRepo struct{ uow *memUoW }

func (r memIdempotencyRepo) Get(_ context.Context, key, operation string) (*ports.IdempotencyRecord, error) {
	record, ok := r.uow.tx.idempotency[operation+"/"+key]
	if !ok {
		return nil, errs.NewObjectNotFoundError("idempotency key", key)
	}
	return &record, nil
}

func (r memIdempotencyRepo) Save(_ context.Context, record ports.IdempotencyRecord) error {
	id := record.Operation + "/" + record.Key
	if _, ok := r.uow.tx.idempotency[id]; ok {
		return errs.NewConflictError("idempotency key", "already stored")
	}
	r.uow.tx.idempotency[id] = record
	return nil
}

type memUoWFactory struct{ store *memStore }

func (f memUoWFactory) Create() commands.UoW { return &memUoW{store: f.store} }

type memOfferUoWFactory struct{ store *memStore }

func (f memOfferUoWFactory) Create() commands.OfferUoW { return &memUoW{store: f.store} }

type memTrackingUoWFactory struct{ store *memStore }

func (f memTrackingUoWFactory) Create() commands.TrackingUoW { return &memUoW{store: f.store} }

// recorder captures best-effort side effects in call order.
type recorder struct {
	mu            sync.Mutex
	notifications []ports.Notification
	events        []ports.RoomEvent
	chats         [][2]kernel.UUID
}

func (r *recorder) Notify(_ context.Context, n ports.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recorder) Publish(_ context.Context, _ kernel.UUID, event ports.RoomEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) EnsureChat(_ context.Context, _ kernel.UUID, userA, userB kernel.UUID) (kernel.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats = append(r.chats, [2]kernel.UUID{userA, userB})
	return kernel.NewUUID(), nil
}

func (r *recorder) eventTypes() []tracking.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]tracking.EventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func (r *recorder) notificationsOf(userID kernel.UUID) []ports.NotificationType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []ports.NotificationType
	for _, n := range r.notifications {
		if n.UserID.IsEqual(userID) {
			types = append(types, n.Type)
		}
	}
	return types
}

func (r *recorder) effects() commands.SideEffects {
	return commands.NewSideEffects(r, r, r, nil)
}
