package queries_test

import (
	"context"
	"testing"
	"time"

	"cargo/internal/adapters/out/postgres/identityrepo"
	"cargo/internal/adapters/out/postgres/orderrepo"
	"cargo/internal/adapters/out/postgres/pgtest"
	"cargo/internal/adapters/out/postgres/referencerepo"
	"cargo/internal/adapters/out/postgres/truckrepo"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/fleet"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/core/domain/model/reference"
	"cargo/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

// OrderQueriesTestSuite seeds reference data, people and orders through the
// repositories and reads them back through the query handlers.
type OrderQueriesTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	now       time.Time

	departure    reference.LogisticsPoint
	destination  reference.LogisticsPoint
	nomenclature reference.Nomenclature
	manager      access.Actor
	driver       access.Actor
	otherDriver  access.Actor
}

func (suite *OrderQueriesTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *OrderQueriesTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderQueriesTestSuite) SetupTest() {
	ctx := context.Background()
	suite.Require().NoError(pgtest.Reset(suite.db))
	suite.now = time.Date(2026, 6, 1, 7, 0, 0, 0, time.UTC)

	refs := referencerepo.NewGormReferenceRepository(suite.db)
	suite.departure = logisticsPoint("Depot North", "Kazan")
	suite.destination = logisticsPoint("Site 14", "Samara")
	suite.nomenclature = reference.Nomenclature{ID: kernel.NewUUID(), Name: "Cement M500", Measure: "kg"}
	suite.Require().NoError(refs.AddLogisticsPoint(ctx, suite.departure))
	suite.Require().NoError(refs.AddLogisticsPoint(ctx, suite.destination))
	suite.Require().NoError(refs.AddNomenclature(ctx, suite.nomenclature))

	suite.manager = suite.addPerson("+79000000001", access.RoleManager, "Maria Manager")
	suite.driver = suite.addPerson("+79000000002", access.RoleDriver, "Dmitry Driver")
	suite.otherDriver = suite.addPerson("+79000000003", access.RoleDriver, "Oleg Other")
}

func (suite *OrderQueriesTestSuite) TestGetOrder_ExpandsRelations() {
	ctx := context.Background()
	o := suite.addOrder(suite.now)
	suite.take(o, suite.driver)
	suite.confirm(o, "1HGCM82633A004352")

	query, err := queries.NewGetOrderQuery(suite.manager, o.ID())
	suite.Require().NoError(err)
	view, err := queries.NewGetOrderQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(o.ID().Bytes(), view.ID)
	suite.Equal(order.Loading, view.Status)
	suite.Equal("Kazan", view.Departure.Address.City)
	suite.Len(view.Departure.Contacts, 1)
	suite.Equal("Samara", view.Destination.Address.City)
	suite.Equal("Maria Manager", view.Manager.FullName)
	suite.Equal("manager", view.Manager.User.Role)
	suite.Require().NotNil(view.Driver)
	suite.Equal("driver", view.Driver.User.Role)
	suite.Require().NotNil(view.Truck)
	suite.Equal("1HGCM82633A004352", view.Truck.VIN)
	suite.Require().Len(view.Items, 1)
	suite.Equal("kg", view.Items[0].Nomenclature.Measure)
	suite.InDelta(1200.5, view.Items[0].NetWeight, 1e-9)
	suite.InDelta(1250, view.Items[0].GrossWeight, 1e-9)
	suite.Require().NotNil(view.CashPrice)
	suite.True(decimal.NewFromInt(90000).Equal(*view.CashPrice))
}

func (suite *OrderQueriesTestSuite) TestGetOrder_DriverVisibility() {
	ctx := context.Background()
	handler := queries.NewGetOrderQueryHandler(suite.db)
	open := suite.addOrder(suite.now)
	taken := suite.addOrder(suite.now)
	suite.take(taken, suite.driver)

	for _, tc := range []struct {
		name    string
		actor   access.Actor
		orderID kernel.UUID
		visible bool
	}{
		{name: "created order to any driver", actor: suite.otherDriver, orderID: open.ID(), visible: true},
		{name: "own order", actor: suite.driver, orderID: taken.ID(), visible: true},
		{name: "someone else's order", actor: suite.otherDriver, orderID: taken.ID(), visible: false},
		{name: "manager sees all", actor: suite.manager, orderID: taken.ID(), visible: true},
	} {
		suite.Run(tc.name, func() {
			query, err := queries.NewGetOrderQuery(tc.actor, tc.orderID)
			suite.Require().NoError(err)
			_, err = handler.Handle(ctx, query)
			if tc.visible {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
			}
		})
	}
}

func (suite *OrderQueriesTestSuite) TestListAvailableOrders_OnlyCreated() {
	ctx := context.Background()
	first := suite.addOrder(suite.now)
	second := suite.addOrder(suite.now.Add(time.Minute))
	taken := suite.addOrder(suite.now.Add(2 * time.Minute))
	suite.take(taken, suite.driver)

	query, err := queries.NewListAvailableOrdersQuery(suite.otherDriver)
	suite.Require().NoError(err)
	views, err := queries.NewListAvailableOrdersQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(views, 2)
	suite.Equal(first.ID().Bytes(), views[0].ID)
	suite.Equal(second.ID().Bytes(), views[1].ID)
}

func (suite *OrderQueriesTestSuite) TestListAvailableOrders_ManagerForbidden() {
	query, err := queries.NewListAvailableOrdersQuery(suite.manager)
	suite.Require().NoError(err)

	_, err = queries.NewListAvailableOrdersQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrForbidden)
}

func (suite *OrderQueriesTestSuite) TestListManagerOrders_StatusFilterAndPaging() {
	ctx := context.Background()
	handler := queries.NewListManagerOrdersQueryHandler(suite.db)
	older := suite.addOrder(suite.now)
	newer := suite.addOrder(suite.now.Add(time.Hour))
	taken := suite.addOrder(suite.now.Add(2 * time.Hour))
	suite.take(taken, suite.driver)

	all, err := queries.NewListManagerOrdersQuery(suite.manager, "", 0, 0)
	suite.Require().NoError(err)
	views, err := handler.Handle(ctx, all)
	suite.Require().NoError(err)
	suite.Require().Len(views, 3)
	suite.Equal(taken.ID().Bytes(), views[0].ID)

	created, err := queries.NewListManagerOrdersQuery(suite.manager, "CREATED", 1, 1)
	suite.Require().NoError(err)
	views, err = handler.Handle(ctx, created)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.Equal(older.ID().Bytes(), views[0].ID)
	suite.NotEqual(newer.ID().Bytes(), views[0].ID)
}

func (suite *OrderQueriesTestSuite) TestGetDriverCurrentOrder() {
	ctx := context.Background()
	handler := queries.NewGetDriverCurrentOrderQueryHandler(suite.db)

	query, err := queries.NewGetDriverCurrentOrderQuery(suite.driver)
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	o := suite.addOrder(suite.now)
	suite.take(o, suite.driver)

	view, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(o.ID().Bytes(), view.ID)
	suite.Equal(order.Confirmation, view.Status)
}

func (suite *OrderQueriesTestSuite) TestGetActor() {
	ctx := context.Background()
	handler := queries.NewGetActorQueryHandler(suite.db)

	query, err := queries.NewGetActorQuery(suite.driver.UserID)
	suite.Require().NoError(err)
	actor, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(suite.driver, actor)

	unknown, err := queries.NewGetActorQuery(kernel.NewUUID())
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, unknown)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderQueriesTestSuite) addPerson(phone string, role access.Role, name string) access.Actor {
	ctx := context.Background()
	user, err := identity.NewUser(kernel.NewUUID(), phone, role, suite.now)
	suite.Require().NoError(err)
	person, err := identity.NewPerson(kernel.NewUUID(), user, name, nil, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(identityrepo.NewGormUserRepository(suite.db, noopTracker{}).Add(ctx, user))
	suite.Require().NoError(identityrepo.NewGormPersonRepository(suite.db, noopTracker{}).Add(ctx, person))
	return access.Actor{UserID: user.ID(), PersonID: person.ID(), Role: role}
}

func (suite *OrderQueriesTestSuite) addOrder(createdAt time.Time) *order.Order {
	price := decimal.NewFromInt(90000)
	pricing, err := order.NewPricing(order.CostCash, &price, nil)
	suite.Require().NoError(err)
	item, err := order.NewLineItem(suite.nomenclature.ID, 1200.5, 1250)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), suite.departure.ID, suite.destination.ID, suite.manager.PersonID,
		pricing, []order.LineItem{item}, createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders().Add(context.Background(), o))
	return o
}

func (suite *OrderQueriesTestSuite) take(o *order.Order, driver access.Actor) {
	change, err := o.Take(driver.PersonID, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders().Apply(context.Background(), o, change))
}

func (suite *OrderQueriesTestSuite) confirm(o *order.Order, rawVIN string) {
	ctx := context.Background()
	vin, err := fleet.ParseVIN(rawVIN)
	suite.Require().NoError(err)
	truck, err := truckrepo.NewGormTruckRepository(suite.db, noopTracker{}).GetOrCreateByVIN(ctx, vin)
	suite.Require().NoError(err)
	change, err := o.Confirm(truck.ID(), suite.now.Add(time.Hour), suite.now.Add(30*time.Hour), suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders().Apply(ctx, o, change))
}

func (suite *OrderQueriesTestSuite) orders() *orderrepo.GormOrderRepository {
	return orderrepo.NewGormOrderRepository(suite.db, noopTracker{})
}

func logisticsPoint(name, city string) reference.LogisticsPoint {
	return reference.LogisticsPoint{
		ID:   kernel.NewUUID(),
		Name: name,
		Address: reference.Address{
			ID:      kernel.NewUUID(),
			Country: "Russia",
			City:    city,
			Street:  "Promyshlennaya",
			House:   "1",
		},
		Contacts: []reference.Contact{{ID: kernel.NewUUID(), Name: "Gate", Phone: "+78000000000"}},
	}
}

func TestOrderQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(OrderQueriesTestSuite))
}
