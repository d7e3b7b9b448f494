package bootstrap

import (
	"context"
	"fmt"
	"testing"

	"github.com/devshop-kr/devshop-backend/internal/catalog"
	"github.com/devshop-kr/devshop-backend/internal/users"
	"github.com/devshop-kr/devshop-backend/pkg/config"
	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newRunner(t *testing.T, cfg config.BootstrapConfig, flags config.FeatureFlagsConfig) (*Runner, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{}, &models.ProductImage{},
	))

	runner, err := NewRunner(RunnerParams{
		Users:   users.NewRepository(db),
		Catalog: catalog.NewRepository(db),
		Config:  cfg,
		Flags:   flags,
		PasswordConfig: config.PasswordConfig{
			ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1,
			ArgonSaltLen: 16, ArgonKeyLen: 32,
		},
		Logger: logger.New(logger.Options{ServiceName: "bootstrap-test"}),
	})
	require.NoError(t, err)
	return runner, db
}

func TestRunCreatesAdminWhenNoneExists(t *testing.T) {
	runner, db := newRunner(t, config.BootstrapConfig{
		AdminEmail:    "root@devshop.test",
		AdminName:     "Root",
		AdminPassword: "Boot&Strap99",
	}, config.FeatureFlagsConfig{})

	require.NoError(t, runner.Run(context.Background()))

	var admin models.User
	require.NoError(t, db.First(&admin, "email = ?", "root@devshop.test").Error)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.IsActive)
}

func TestRunSkipsAdminWhenOneExists(t *testing.T) {
	runner, db := newRunner(t, config.BootstrapConfig{
		AdminEmail: "second@devshop.test",
	}, config.FeatureFlagsConfig{})

	require.NoError(t, db.Create(&models.User{
		Email: "first@devshop.test", PasswordHash: "x", DisplayName: "First",
		IsAdmin: true, IsActive: true,
	}).Error)

	require.NoError(t, runner.Run(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRunPromotesExistingAccountInsteadOfDuplicating(t *testing.T) {
	runner, db := newRunner(t, config.BootstrapConfig{
		AdminEmail: "promoted@devshop.test",
	}, config.FeatureFlagsConfig{})

	require.NoError(t, db.Create(&models.User{
		Email: "promoted@devshop.test", PasswordHash: "x", DisplayName: "Promotee",
		IsActive: true,
	}).Error)

	require.NoError(t, runner.Run(context.Background()))

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "promoted@devshop.test").Error)
	assert.True(t, user.IsAdmin)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRunSeedsCatalogBehindFlag(t *testing.T) {
	runner, db := newRunner(t, config.BootstrapConfig{},
		config.FeatureFlagsConfig{SeedCatalog: true})

	require.NoError(t, runner.Run(context.Background()))

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.Greater(t, products, int64(0))

	var categories int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	assert.Greater(t, categories, int64(0))
}

func TestRunSeedSkippedWhenCatalogNotEmpty(t *testing.T) {
	runner, db := newRunner(t, config.BootstrapConfig{},
		config.FeatureFlagsConfig{SeedCatalog: true})

	require.NoError(t, db.Create(&models.Product{
		Slug: "pre-existing", Name: "Already Here", PriceCents: 100, IsActive: true,
	}).Error)

	require.NoError(t, runner.Run(context.Background()))

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 1, products)
}
