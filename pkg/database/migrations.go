package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by the repositories and the migrations.
const (
	CollectionCoupons      = "coupons"
	CollectionRedemptions  = "coupon_redemptions"
	CollectionPayments     = "payments"
	CollectionCourses      = "courses"
	CollectionUsers        = "users"
	collectionMigrations   = "migrations"
	migrationStepTimeout   = 30 * time.Second
	migrationLookupTimeout = 5 * time.Second
)

type Migration struct {
	Version     int
	Description string
	Up          func(ctx context.Context, db *mongo.Database) error
	Down        func(ctx context.Context, db *mongo.Database) error
}

// MigrationLogger is the subset of the application logger used here.
type MigrationLogger interface {
	Infof(format string, args ...interface{})
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	log        MigrationLogger
}

func NewMigrator(db *mongo.Database, log MigrationLogger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
		log:        log,
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.log.Infof("Running migration %d: %s", migration.Version, migration.Description)

		stepCtx, cancel := context.WithTimeout(ctx, migrationStepTimeout)
		err := migration.Up(stepCtx, m.db)
		cancel()
		if err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}

		m.log.Infof("Migration %d completed successfully", migration.Version)
	}

	return nil
}

func (m *Migrator) Down(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version > currentVersion || migration.Version <= targetVersion {
			continue
		}

		m.log.Infof("Reverting migration %d: %s", migration.Version, migration.Description)

		stepCtx, cancel := context.WithTimeout(ctx, migrationStepTimeout)
		err := migration.Down(stepCtx, m.db)
		cancel()
		if err != nil {
			return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
		}

		previousVersion := targetVersion
		if i > 0 {
			previousVersion = m.migrations[i-1].Version
		}

		if err := m.updateVersion(ctx, previousVersion); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, migrationLookupTimeout)
	defer cancel()

	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection(collectionMigrations).FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	ctx, cancel := context.WithTimeout(ctx, migrationLookupTimeout)
	defer cancel()

	_, err := m.db.Collection(collectionMigrations).ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)

	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create coupons indexes",
			Up:          createCouponsIndexes,
			Down:        dropIndexes(CollectionCoupons),
		},
		{
			Version:     2,
			Description: "Create coupon redemptions indexes",
			Up:          createRedemptionsIndexes,
			Down:        dropIndexes(CollectionRedemptions),
		},
		{
			Version:     3,
			Description: "Create payments indexes",
			Up:          createPaymentsIndexes,
			Down:        dropIndexes(CollectionPayments),
		},
		{
			Version:     4,
			Description: "Create courses and users indexes",
			Up:          createCatalogIndexes,
			Down: func(ctx context.Context, db *mongo.Database) error {
				if err := dropIndexes(CollectionCourses)(ctx, db); err != nil {
					return err
				}
				return dropIndexes(CollectionUsers)(ctx, db)
			},
		},
	}
}

func dropIndexes(collection string) func(ctx context.Context, db *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		_, err := db.Collection(collection).Indexes().DropAll(ctx)
		return err
	}
}

func createCouponsIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "expiry_date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "applicable_courses", Value: 1}},
		},
	}

	_, err := db.Collection(CollectionCoupons).Indexes().CreateMany(ctx, indexes)
	return err
}

func createRedemptionsIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "coupon_id", Value: 1}, {Key: "user_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "payment_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := db.Collection(CollectionRedemptions).Indexes().CreateMany(ctx, indexes)
	return err
}

func createPaymentsIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "gateway_order_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "gateway_payment_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "receipt", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "needs_reconciliation", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	_, err := db.Collection(CollectionPayments).Indexes().CreateMany(ctx, indexes)
	return err
}

func createCatalogIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionCourses).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "is_published", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollectionUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
