package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/fleet"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/core/domain/model/reference"
	"cargo/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Apply(ctx context.Context, o *order.Order, change order.Change) error {
	return m.Called(ctx, o, change).Error(0)
}

func (m *MockOrderRepository) HasActiveOrder(ctx context.Context, driverID kernel.UUID) (bool, error) {
	args := m.Called(ctx, driverID)
	return args.Bool(0), args.Error(1)
}

type MockPersonRepository struct{ mock.Mock }

func (m *MockPersonRepository) Add(ctx context.Context, p *identity.Person) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPersonRepository) Get(ctx context.Context, id kernel.UUID) (*identity.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Person), args.Error(1)
}

func (m *MockPersonRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*identity.Person, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Person), args.Error(1)
}

func (m *MockPersonRepository) ApplyApproval(ctx context.Context, p *identity.Person, flag identity.ApprovalFlag) error {
	return m.Called(ctx, p, flag).Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePushToken(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

type MockTruckRepository struct{ mock.Mock }

func (m *MockTruckRepository) Get(ctx context.Context, id kernel.UUID) (*fleet.Truck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Truck), args.Error(1)
}

func (m *MockTruckRepository) GetOrCreateByVIN(ctx context.Context, vin fleet.VIN) (*fleet.Truck, error) {
	args := m.Called(ctx, vin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Truck), args.Error(1)
}

type MockReferenceRepository struct{ mock.Mock }

func (m *MockReferenceRepository) AddContragent(ctx context.Context, c reference.Contragent) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockReferenceRepository) AddLogisticsPoint(ctx context.Context, p reference.LogisticsPoint) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockReferenceRepository) AddNomenclature(ctx context.Context, n reference.Nomenclature) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockReferenceRepository) MissingLogisticsPoints(ctx context.Context, ids []kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, ids)
	return uuids(args.Get(0)), args.Error(1)
}

func (m *MockReferenceRepository) MissingNomenclatures(ctx context.Context, ids []kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, ids)
	return uuids(args.Get(0)), args.Error(1)
}

func (m *MockReferenceRepository) MissingContragents(ctx context.Context, ids []kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, ids)
	return uuids(args.Get(0)), args.Error(1)
}

func uuids(v any) []kernel.UUID {
	if v == nil {
		return nil
	}
	return v.([]kernel.UUID)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) UserRepository() ports.UserRepository {
	return m.Called().Get(0).(ports.UserRepository)
}

func (m *MockUoW) PersonRepository() ports.PersonRepository {
	return m.Called().Get(0).(ports.PersonRepository)
}

func (m *MockUoW) TruckRepository() ports.TruckRepository {
	return m.Called().Get(0).(ports.TruckRepository)
}

func (m *MockUoW) ReferenceRepository() ports.ReferenceRepository {
	return m.Called().Get(0).(ports.ReferenceRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockLiveNotifier struct{ mock.Mock }

func (m *MockLiveNotifier) Publish(ctx context.Context, topic ports.Topic, userID kernel.UUID, event ports.LiveEvent) error {
	return m.Called(ctx, topic, userID, event).Error(0)
}

func (m *MockLiveNotifier) Broadcast(ctx context.Context, topic ports.Topic, event ports.LiveEvent) error {
	return m.Called(ctx, topic, event).Error(0)
}

type MockPushNotifier struct{ mock.Mock }

func (m *MockPushNotifier) Send(ctx context.Context, msg ports.PushMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// fixture wires a mocked unit of work with every repository.
type fixture struct {
	orders  *MockOrderRepository
	persons *MockPersonRepository
	users   *MockUserRepository
	trucks  *MockTruckRepository
	refs    *MockReferenceRepository
	uow     *MockUoW
	factory *MockUoWFactory
	live    *MockLiveNotifier
	push    *MockPushNotifier
	fanOut  *commands.FanOut
}

func newFixture() *fixture {
	f := &fixture{
		orders:  new(MockOrderRepository),
		persons: new(MockPersonRepository),
		users:   new(MockUserRepository),
		trucks:  new(MockTruckRepository),
		refs:    new(MockReferenceRepository),
		uow:     new(MockUoW),
		factory: new(MockUoWFactory),
		live:    new(MockLiveNotifier),
		push:    new(MockPushNotifier),
	}
	f.uow.On("OrderRepository").Return(f.orders).Maybe()
	f.uow.On("PersonRepository").Return(f.persons).Maybe()
	f.uow.On("UserRepository").Return(f.users).Maybe()
	f.uow.On("TruckRepository").Return(f.trucks).Maybe()
	f.uow.On("ReferenceRepository").Return(f.refs).Maybe()
	f.factory.On("Create").Return(f.uow).Maybe()
	f.fanOut = commands.NewFanOut(f.live, f.push, discardLogger(), time.Second)
	return f
}

// expectTx expects a transaction that is begun and always rolled back;
// commit reports whether Commit is expected too.
func (f *fixture) expectTx(ctx context.Context, commit bool) {
	f.uow.On("Begin", ctx).Return(nil).Once()
	if commit {
		f.uow.On("Commit", ctx).Return(nil).Once()
	}
	f.uow.On("Rollback", ctx).Return(nil).Once()
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.fanOut.Wait()
	f.orders.AssertExpectations(t)
	f.persons.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.trucks.AssertExpectations(t)
	f.refs.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.live.AssertExpectations(t)
	f.push.AssertExpectations(t)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func managerActor() access.Actor {
	return access.Actor{UserID: kernel.NewUUID(), PersonID: kernel.NewUUID(), Role: access.RoleManager}
}

func driverActor() access.Actor {
	return access.Actor{UserID: kernel.NewUUID(), PersonID: kernel.NewUUID(), Role: access.RoleDriver}
}

func driverPerson(t *testing.T, actor access.Actor, approved bool) *identity.Person {
	t.Helper()
	p, err := identity.RestorePerson(identity.PersonState{
		ID:       actor.PersonID,
		UserID:   actor.UserID,
		Role:     actor.Role,
		Approved: approved,
	})
	require.NoError(t, err)
	return p
}

func userWithToken(t *testing.T, id kernel.UUID, role access.Role) *identity.User {
	t.Helper()
	u, err := identity.RestoreUser(id, "+79001234567", role, "device-token", identity.DeviceAndroid, time.Now(), time.Now())
	require.NoError(t, err)
	return u
}

func createdOrder(t *testing.T) *order.Order {
	t.Helper()
	price := decimal.NewFromInt(2500)
	pricing, err := order.NewPricing(order.CostCash, &price, nil)
	require.NoError(t, err)
	item, err := order.NewLineItem(kernel.NewUUID(), 900, 1000)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		pricing, []order.LineItem{item}, time.Now())
	require.NoError(t, err)
	return o
}

func takenOrder(t *testing.T, driverID kernel.UUID) *order.Order {
	t.Helper()
	o := createdOrder(t)
	_, err := o.Take(driverID, time.Now())
	require.NoError(t, err)
	return o
}

func eventStatus(status string) any {
	return mock.MatchedBy(func(e ports.LiveEvent) bool { return e.Status == status })
}

func changeFrom(status order.Status) any {
	return mock.MatchedBy(func(c order.Change) bool { return c.ExpectedStatus == status })
}
