package truckrepo_test

import (
	"context"
	"sync"
	"testing"

	"cargo/internal/adapters/out/postgres/pgtest"
	"cargo/internal/adapters/out/postgres/truckrepo"
	"cargo/internal/core/domain/model/fleet"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

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

type TruckRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *truckrepo.GormTruckRepository
}

func (suite *TruckRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *TruckRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Reset(suite.db))

	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = truckrepo.NewGormTruckRepository(suite.db, tracker)
}

func (suite *TruckRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *TruckRepositoryIntegrationTestSuite) TestGetOrCreateByVIN_ReusesTruck() {
	ctx := context.Background()
	vin := suite.vin("1HGCM82633A004352")

	created, err := suite.repository.GetOrCreateByVIN(ctx, vin)
	suite.Require().NoError(err)
	again, err := suite.repository.GetOrCreateByVIN(ctx, vin)
	suite.Require().NoError(err)

	suite.Equal(created.ID(), again.ID())
	suite.Equal(vin, again.VIN())

	got, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Equal(vin, got.VIN())
}

func (suite *TruckRepositoryIntegrationTestSuite) TestGetOrCreateByVIN_Concurrent_OneTruck() {
	ctx := context.Background()
	vin := suite.vin("5YJSA1E26HF000337")

	const callers = 6
	ids := make(chan kernel.UUID, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			truck, err := suite.repository.GetOrCreateByVIN(ctx, vin)
			if err == nil {
				ids <- truck.ID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[kernel.UUID]struct{}{}
	for id := range ids {
		seen[id] = struct{}{}
	}
	suite.Len(seen, 1)

	var count int64
	suite.Require().NoError(suite.db.Model(&truckrepo.TruckDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *TruckRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *TruckRepositoryIntegrationTestSuite) vin(s string) fleet.VIN {
	vin, err := fleet.ParseVIN(s)
	suite.Require().NoError(err)
	return vin
}

func TestTruckRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(TruckRepositoryIntegrationTestSuite))
}
