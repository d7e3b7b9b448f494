// Package bootstrap provisions the minimum data a fresh deployment needs:
// one active admin account and, behind a feature flag, catalog seed data.
// Every step is best effort. Failures are logged and accumulated but never
// abort startup.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devshop-kr/devshop-backend/pkg/config"
	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	"github.com/devshop-kr/devshop-backend/pkg/logger"
	"github.com/devshop-kr/devshop-backend/pkg/security"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const lockTTL = 10 * time.Minute

type adminStore interface {
	CountActiveAdmins(ctx context.Context) (int64, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	PromoteToAdmin(ctx context.Context, id uuid.UUID) error
}

type catalogStore interface {
	CountProducts(ctx context.Context) (int64, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
}

type startupLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	BootstrapLockKey(task string) string
}

// Runner executes the startup provisioning steps.
type Runner struct {
	users       adminStore
	catalog     catalogStore
	locker      startupLocker
	cfg         config.BootstrapConfig
	flags       config.FeatureFlagsConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// RunnerParams bundles the dependencies required to build a bootstrap runner.
type RunnerParams struct {
	Users          adminStore
	Catalog        catalogStore
	Locker         startupLocker
	Config         config.BootstrapConfig
	Flags          config.FeatureFlagsConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

// NewRunner constructs a bootstrap runner. Locker may be nil when no shared
// coordination is available, such as single-instance dev setups.
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users store is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Runner{
		users:       params.Users,
		catalog:     params.Catalog,
		locker:      params.Locker,
		cfg:         params.Config,
		flags:       params.Flags,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

// Run performs all provisioning steps and returns the accumulated failures.
func (r *Runner) Run(ctx context.Context) error {
	var errs error
	if err := r.ensureAdmin(ctx); err != nil {
		r.logg.Error(ctx, "bootstrap.admin_failed", err)
		errs = multierr.Append(errs, fmt.Errorf("ensure admin: %w", err))
	}
	if err := r.seedCatalog(ctx); err != nil {
		r.logg.Error(ctx, "bootstrap.seed_failed", err)
		errs = multierr.Append(errs, fmt.Errorf("seed catalog: %w", err))
	}
	return errs
}

func (r *Runner) ensureAdmin(ctx context.Context) error {
	count, err := r.users.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(r.cfg.AdminEmail))
	if email == "" {
		r.logg.Warn(r.logg.WithField(ctx, "reason", "no bootstrap admin email configured"),
			"bootstrap.admin_skipped")
		return nil
	}

	if !r.acquireLock(ctx, "ensure_admin") {
		return nil
	}

	existing, err := r.users.FindByEmail(ctx, email)
	if err == nil {
		return r.users.PromoteToAdmin(ctx, existing.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password := r.cfg.AdminPassword
	if password == "" {
		password, err = security.GenerateTempPassword(16)
		if err != nil {
			return err
		}
		// Printed once so the operator can log in and rotate it.
		r.logg.Warn(r.logg.WithField(ctx, "temp_password", password), "bootstrap.admin_temp_password")
	}

	hash, err := security.HashPassword(password, r.passwordCfg)
	if err != nil {
		return err
	}

	_, err = r.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  r.cfg.AdminName,
		Role:         enums.UserRoleAdmin,
		IsAdmin:      true,
		IsActive:     true,
	})
	if err != nil {
		return err
	}
	r.logg.Info(r.logg.WithField(ctx, "email", email), "bootstrap.admin_created")
	return nil
}

func (r *Runner) seedCatalog(ctx context.Context) error {
	if !r.flags.SeedCatalog {
		return nil
	}

	count, err := r.catalog.CountProducts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if !r.acquireLock(ctx, "seed_catalog") {
		return nil
	}

	var errs error
	for _, seed := range seedData() {
		category, err := r.catalog.CreateCategory(ctx, &models.Category{
			Name: seed.name,
			Slug: seed.slug,
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("category %s: %w", seed.slug, err))
			continue
		}
		for _, p := range seed.products {
			product := &models.Product{
				CategoryID:  &category.ID,
				Slug:        p.slug,
				Name:        p.name,
				Description: p.description,
				PriceCents:  p.priceCents,
				IsActive:    true,
			}
			if _, err := r.catalog.Create(ctx, product); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("product %s: %w", p.slug, err))
			}
		}
	}
	if errs == nil {
		r.logg.Info(ctx, "bootstrap.catalog_seeded")
	}
	return errs
}

// acquireLock coordinates one-time work across instances. A missing locker
// means single-instance mode and the work just runs.
func (r *Runner) acquireLock(ctx context.Context, task string) bool {
	if r.locker == nil {
		return true
	}
	acquired, err := r.locker.SetNX(ctx, r.locker.BootstrapLockKey(task), time.Now().UTC().Unix(), lockTTL)
	if err != nil {
		r.logg.Error(ctx, "bootstrap.lock_failed", err)
		return true
	}
	return acquired
}

type seedCategory struct {
	name     string
	slug     string
	products []seedProduct
}

type seedProduct struct {
	slug        string
	name        string
	description string
	priceCents  int
}

func seedData() []seedCategory {
	return []seedCategory{
		{
			name: "Keyboards", slug: "keyboards",
			products: []seedProduct{
				{slug: "tactile-65", name: "Tactile 65%", description: "Hot-swappable 65% board with tactile switches.", priceCents: 12900},
				{slug: "silent-tkl", name: "Silent TKL", description: "Tenkeyless board tuned for open offices.", priceCents: 9900},
			},
		},
		{
			name: "Accessories", slug: "accessories",
			products: []seedProduct{
				{slug: "desk-mat-xl", name: "Desk Mat XL", description: "900x400mm stitched-edge desk mat.", priceCents: 2500},
				{slug: "coiled-cable", name: "Coiled Cable", description: "USB-C coiled aviator cable.", priceCents: 3900},
			},
		},
	}
}
