package orderrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cargo/internal/adapters/out/postgres/orderrepo"
	"cargo/internal/adapters/out/postgres/pgerr"
	"cargo/internal/adapters/out/postgres/pgtest"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite runs the repository against a real
// PostgreSQL so that the guarded updates and the partial unique index are
// exercised.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
	now        time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Reset(suite.db))

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
	suite.now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_Get_RoundTrip() {
	ctx := context.Background()
	cash := decimal.RequireFromString("1500.50")
	nonCash := decimal.RequireFromString("2000")
	pricing, err := order.NewPricing(order.CostCombined, &cash, &nonCash)
	suite.Require().NoError(err)
	first := suite.lineItem(100, 110)
	second := suite.lineItem(20.5, 21)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		pricing, []order.LineItem{first, second}, suite.now)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, o))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", o.ID(), o)

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.ID(), got.ID())
	suite.Equal(o.DepartureID(), got.DepartureID())
	suite.Equal(o.DestinationID(), got.DestinationID())
	suite.Equal(o.ManagerID(), got.ManagerID())
	suite.Equal(order.Created, got.Status())
	suite.Equal(0, got.Version())
	suite.Nil(got.DriverID())
	suite.Nil(got.TruckID())
	suite.Equal(order.CostCombined, got.Pricing().CostType())
	suite.True(cash.Equal(*got.Pricing().CashPrice()))
	suite.True(nonCash.Equal(*got.Pricing().NonCashPrice()))
	suite.ElementsMatch([]order.LineItem{first, second}, got.Items())
	suite.True(o.CreatedAt().Equal(got.CreatedAt()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_Duplicate_Conflict() {
	ctx := context.Background()
	o := suite.createOrder()

	err := suite.repository.Add(ctx, o)

	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestApply_Take_Success() {
	ctx := context.Background()
	o := suite.createOrder()
	driverID := kernel.NewUUID()

	change, err := o.Take(driverID, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, o, change))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmation, got.Status())
	suite.Equal(1, got.Version())
	suite.Require().NotNil(got.DriverID())
	suite.Equal(driverID, *got.DriverID())

	busy, err := suite.repository.HasActiveOrder(ctx, driverID)
	suite.Require().NoError(err)
	suite.True(busy)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestApply_StaleCopy_Unavailable() {
	ctx := context.Background()
	o := suite.createOrder()
	stale, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	change, err := o.Take(kernel.NewUUID(), suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, o, change))

	staleChange, err := stale.Take(kernel.NewUUID(), suite.now)
	suite.Require().NoError(err)
	err = suite.repository.Apply(ctx, stale, staleChange)

	suite.Require().ErrorIs(err, order.ErrOrderUnavailable)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestApply_ConcurrentTakes_ExactlyOneWins() {
	ctx := context.Background()
	o := suite.createOrder()

	const drivers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		won     int
		lost    int
		winners []kernel.UUID
	)
	for range drivers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			driverID := kernel.NewUUID()
			copyOf, err := suite.repository.Get(ctx, o.ID())
			if err != nil {
				return
			}
			change, err := copyOf.Take(driverID, suite.now)
			if err != nil {
				return
			}
			err = suite.repository.Apply(ctx, copyOf, change)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
				winners = append(winners, driverID)
			case errors.Is(err, order.ErrOrderUnavailable):
				lost++
			}
		}()
	}
	wg.Wait()

	suite.Equal(1, won)
	suite.Equal(drivers-1, lost)

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(got.DriverID())
	suite.Equal(winners[0], *got.DriverID())
	suite.Equal(1, got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestApply_DriverWithActiveOrder_Unavailable() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	first := suite.createOrder()
	second := suite.createOrder()

	change, err := first.Take(driverID, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, first, change))

	change, err = second.Take(driverID, suite.now)
	suite.Require().NoError(err)
	err = suite.repository.Apply(ctx, second, change)

	suite.Require().ErrorIs(err, order.ErrOrderUnavailable)
	got, err := suite.repository.Get(ctx, second.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Created, got.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestActiveDriverIndex_RejectsSecondActiveOrder() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	first := suite.createOrder()
	second := suite.createOrder()

	change, err := first.Take(driverID, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, first, change))

	err = suite.db.Exec("UPDATE orders SET driver_id = ?, status = ? WHERE id = ?",
		driverID.Bytes(), order.Confirmation.String(), second.ID().Bytes()).Error

	suite.Require().Error(err)
	suite.True(pgerr.IsUniqueViolation(err))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestApply_RejectThenTake_ByAnotherDriver() {
	ctx := context.Background()
	o := suite.createOrder()
	firstDriver, secondDriver := kernel.NewUUID(), kernel.NewUUID()

	change, err := o.Take(firstDriver, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, o, change))

	change, err = o.Confirm(kernel.NewUUID(), suite.now.Add(time.Hour), suite.now.Add(24*time.Hour), suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, o, change))

	change, err = o.RejectDriver(suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, o, change))

	reset, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Created, reset.Status())
	suite.Nil(reset.DriverID())
	suite.Nil(reset.TruckID())
	suite.Nil(reset.PlannedLoadingAt())
	suite.Nil(reset.PlannedArrivalAt())

	busy, err := suite.repository.HasActiveOrder(ctx, firstDriver)
	suite.Require().NoError(err)
	suite.False(busy)

	change, err = reset.Take(secondDriver, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, reset, change))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(secondDriver, *got.DriverID())
	suite.Equal(4, got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestApply_FullLifecycle() {
	ctx := context.Background()
	o := suite.createOrder()
	driverID := kernel.NewUUID()
	truckID := kernel.NewUUID()

	steps := []func() (order.Change, error){
		func() (order.Change, error) { return o.Take(driverID, suite.now) },
		func() (order.Change, error) {
			return o.Confirm(truckID, suite.now.Add(time.Hour), suite.now.Add(24*time.Hour), suite.now)
		},
		func() (order.Change, error) { return o.Depart(driverID, suite.now.Add(2*time.Hour)) },
		func() (order.Change, error) { return o.Complete(driverID, suite.now.Add(20*time.Hour)) },
	}
	for _, step := range steps {
		change, err := step()
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.Apply(ctx, o, change))
	}

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Completed, got.Status())
	suite.Equal(4, got.Version())
	suite.Equal(truckID, *got.TruckID())
	suite.Require().NotNil(got.DepartedAt())
	suite.Require().NotNil(got.DeliveredAt())
	suite.True(suite.now.Add(20 * time.Hour).Equal(*got.DeliveredAt()))

	busy, err := suite.repository.HasActiveOrder(ctx, driverID)
	suite.Require().NoError(err)
	suite.False(busy)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestApply_UpdateGeo_KeepsVersion() {
	ctx := context.Background()
	o := suite.createOrder()
	driverID := kernel.NewUUID()

	change, err := o.Take(driverID, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, o, change))

	point, err := kernel.NewGeoPoint(55.7558, 37.6173)
	suite.Require().NoError(err)
	change, err = o.UpdateGeo(driverID, point, suite.now.Add(time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, o, change))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(1, got.Version())
	suite.Equal(order.Confirmation, got.Status())
	suite.Require().NotNil(got.Geo())
	suite.InDelta(55.7558, got.Geo().Latitude(), 1e-9)
	suite.InDelta(37.6173, got.Geo().Longitude(), 1e-9)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestApply_UpdateGeo_AfterReassignment_Unavailable() {
	ctx := context.Background()
	o := suite.createOrder()
	driverID := kernel.NewUUID()

	change, err := o.Take(driverID, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, o, change))
	stale, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	change, err = o.RejectDriver(suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Apply(ctx, o, change))

	point, err := kernel.NewGeoPoint(1, 1)
	suite.Require().NoError(err)
	change, err = stale.UpdateGeo(driverID, point, suite.now)
	suite.Require().NoError(err)
	err = suite.repository.Apply(ctx, stale, change)

	suite.Require().ErrorIs(err, order.ErrOrderUnavailable)
}

func (suite *OrderRepositoryIntegrationTestSuite) createOrder() *order.Order {
	cash := decimal.NewFromInt(1000)
	pricing, err := order.NewPricing(order.CostCash, &cash, nil)
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		pricing, []order.LineItem{suite.lineItem(500, 520)}, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), o))
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) lineItem(net, gross float64) order.LineItem {
	item, err := order.NewLineItem(kernel.NewUUID(), net, gross)
	suite.Require().NoError(err)
	return item
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
