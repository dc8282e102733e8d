package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cargo/internal/adapters/out/postgres/identityrepo"
	"cargo/internal/adapters/out/postgres/orderrepo"
	"cargo/internal/adapters/out/postgres/referencerepo"
	"cargo/internal/adapters/out/postgres/truckrepo"
	"cargo/internal/core/domain/model/order"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolConfig sizes the database/sql pool under GORM.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN builds a lib/pq keyword/value connection string.
func DSN(host, port, user, password, dbName, sslMode string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbName, sslMode)
}

// Open connects through lib/pq and hands the pool to GORM.
func Open(ctx context.Context, dsn string, pool PoolConfig) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema. The partial unique index on
// orders.driver_id cannot be expressed in struct tags and is created here.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&identityrepo.UserDTO{},
		&identityrepo.PersonDTO{},
		&identityrepo.PassportDTO{},
		&identityrepo.DrivingLicenseDTO{},
		&truckrepo.TruckDTO{},
		&referencerepo.ContragentDTO{},
		&referencerepo.AddressDTO{},
		&referencerepo.LogisticsPointDTO{},
		&referencerepo.ContactDTO{},
		&referencerepo.NomenclatureDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	quoted := make([]string, 0, len(order.ActiveStatuses()))
	for _, s := range order.ActiveStatuses() {
		quoted = append(quoted, "'"+s.String()+"'")
	}
	stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON orders (driver_id) WHERE status IN (%s)",
		orderrepo.ActiveDriverIndex, strings.Join(quoted, ", "))
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create %s: %w", orderrepo.ActiveDriverIndex, err)
	}
	return nil
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
