package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newOrdersService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.CartItem{},
		&models.Order{}, &models.OrderLine{},
	))

	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)
	return svc, db
}

func seedBuyer(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	tag := uuid.NewString()[:8]
	user := &models.User{
		Email:        fmt.Sprintf("%s@devshop.test", tag),
		PasswordHash: "x",
		DisplayName:  "Buyer " + tag,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func seedOrderProduct(t *testing.T, db *gorm.DB, slug string, priceCents int) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:       slug,
		Name:       "Product " + slug,
		PriceCents: priceCents,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func fillCart(t *testing.T, db *gorm.DB, userID, productID uuid.UUID, quantity int) {
	t.Helper()
	require.NoError(t, db.Create(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}).Error)
}

func TestPlaceOrderSnapshotsCartAndClearsIt(t *testing.T) {
	svc, db := newOrdersService(t)
	ctx := context.Background()

	userID := seedBuyer(t, db)
	keyboard := seedOrderProduct(t, db, "keyboard", 8900)
	mouse := seedOrderProduct(t, db, "mouse", 4900)
	fillCart(t, db, userID, keyboard.ID, 2)
	fillCart(t, db, userID, mouse.ID, 1)

	order, err := svc.PlaceOrder(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPreparing, order.Status)
	assert.Equal(t, 2*8900+4900, order.TotalCents)
	require.Len(t, order.Lines, 2)
	byProduct := map[uuid.UUID]LineSummary{}
	for _, line := range order.Lines {
		byProduct[line.ProductID] = line
	}
	assert.Equal(t, "Product keyboard", byProduct[keyboard.ID].ProductName)
	assert.Equal(t, 8900, byProduct[keyboard.ID].UnitPriceCents)
	assert.Equal(t, 17800, byProduct[keyboard.ID].LineTotalCents)
	assert.Equal(t, 4900, byProduct[mouse.ID].LineTotalCents)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestPlaceOrderKeepsLinesAddedDuringCheckout(t *testing.T) {
	svc, db := newOrdersService(t)
	ctx := context.Background()

	userID := seedBuyer(t, db)
	ordered := seedOrderProduct(t, db, "ordered", 2500)
	straggler := seedOrderProduct(t, db, "straggler", 700)
	fillCart(t, db, userID, ordered.ID, 1)

	// Slip an extra cart line in after checkout has read the cart but
	// before it clears it, the way a concurrent add would land.
	injected := false
	err := db.Callback().Delete().Before("gorm:delete").
		Register("orders_test:concurrent_add", func(tx *gorm.DB) {
			if injected || tx.Statement.Table != "cart_items" {
				return
			}
			injected = true
			tx.AddError(tx.Session(&gorm.Session{NewDB: true}).Create(&models.CartItem{
				UserID:    userID,
				ProductID: straggler.ID,
				Quantity:  2,
			}).Error)
		})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Callback().Delete().Remove("orders_test:concurrent_add") })

	order, err := svc.PlaceOrder(ctx, userID)
	require.NoError(t, err)
	require.True(t, injected, "delete callback never fired")
	require.Len(t, order.Lines, 1)
	assert.Equal(t, ordered.ID, order.Lines[0].ProductID)

	var survivors []models.CartItem
	require.NoError(t, db.Where("user_id = ?", userID).Find(&survivors).Error)
	require.Len(t, survivors, 1, "line added during checkout must stay in the cart")
	assert.Equal(t, straggler.ID, survivors[0].ProductID)
	assert.Equal(t, 2, survivors[0].Quantity)
}

func TestPlaceOrderEmptyCartRejectedWithoutOrderRow(t *testing.T) {
	svc, db := newOrdersService(t)
	userID := seedBuyer(t, db)

	_, err := svc.PlaceOrder(context.Background(), userID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderSnapshotSurvivesLaterPriceEdit(t *testing.T) {
	svc, db := newOrdersService(t)
	ctx := context.Background()

	userID := seedBuyer(t, db)
	product := seedOrderProduct(t, db, "volatile", 1000)
	fillCart(t, db, userID, product.ID, 3)

	order, err := svc.PlaceOrder(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{"price_cents": 9999, "name": "Renamed"}).Error)

	reloaded, err := svc.Get(ctx, userID, false, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3000, reloaded.TotalCents)
	require.Len(t, reloaded.Lines, 1)
	assert.Equal(t, 1000, reloaded.Lines[0].UnitPriceCents)
	assert.Equal(t, "Product volatile", reloaded.Lines[0].ProductName)
}

func TestGetHidesForeignOrdersFromNonAdmins(t *testing.T) {
	svc, db := newOrdersService(t)
	ctx := context.Background()

	owner := seedBuyer(t, db)
	stranger := seedBuyer(t, db)
	product := seedOrderProduct(t, db, "private", 500)
	fillCart(t, db, owner, product.ID, 1)

	order, err := svc.PlaceOrder(ctx, owner)
	require.NoError(t, err)

	_, err = svc.Get(ctx, stranger, false, order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	asAdmin, err := svc.Get(ctx, stranger, true, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, asAdmin.ID)
}

func TestSetStatusAcceptsAnyKnownValue(t *testing.T) {
	svc, db := newOrdersService(t)
	ctx := context.Background()

	userID := seedBuyer(t, db)
	product := seedOrderProduct(t, db, "shipped", 100)
	fillCart(t, db, userID, product.ID, 1)

	order, err := svc.PlaceOrder(ctx, userID)
	require.NoError(t, err)

	// Jumps and rollbacks are both allowed.
	updated, err := svc.SetStatus(ctx, order.ID, "DELIVERED")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, updated.Status)

	reverted, err := svc.SetStatus(ctx, order.ID, "SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, reverted.Status)
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	svc, db := newOrdersService(t)
	userID := seedBuyer(t, db)
	product := seedOrderProduct(t, db, "statusy", 100)
	fillCart(t, db, userID, product.ID, 1)

	order, err := svc.PlaceOrder(context.Background(), userID)
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), order.ID, "TELEPORTED")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetStatusUnknownOrderNotFound(t *testing.T) {
	svc, _ := newOrdersService(t)

	_, err := svc.SetStatus(context.Background(), uuid.New(), "SHIPPED")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListForUserReturnsOwnOrdersOnly(t *testing.T) {
	svc, db := newOrdersService(t)
	ctx := context.Background()

	alice := seedBuyer(t, db)
	bob := seedBuyer(t, db)
	product := seedOrderProduct(t, db, "shared", 700)
	fillCart(t, db, alice, product.ID, 1)
	fillCart(t, db, bob, product.ID, 2)

	_, err := svc.PlaceOrder(ctx, alice)
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, bob)
	require.NoError(t, err)

	mine, err := svc.ListForUser(ctx, alice, 0, 0)
	require.NoError(t, err)
	require.Len(t, mine.Orders, 1)
	assert.Equal(t, alice, mine.Orders[0].UserID)

	all, err := svc.ListAll(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all.Orders, 2)
	assert.EqualValues(t, 2, all.Total)
}
