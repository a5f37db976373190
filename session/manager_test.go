package session_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/prasetyawidi/meja-app/cart"
	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/session"
	"github.com/prasetyawidi/meja-app/utils"
)

func init() {
	utils.InitLogger()
}

var dbSeq atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:session_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CustomerSession{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func newManager(db *gorm.DB, kv cart.KVStore) *session.Manager {
	return session.NewManager(
		repository.NewSessionRepository(db),
		repository.NewOrderRepository(db),
		kv, 1,
	)
}

func intPtr(v int64) *int64 { return &v }

func insertOrder(t *testing.T, db *gorm.DB, token string, total int64) *models.Order {
	t.Helper()
	order := &models.Order{
		TokoID:       1,
		TableNumber:  "5",
		CustomerName: "Budi",
		Status:       models.OrderStatusPending,
		Subtotal:     total,
		TotalAmount:  intPtr(total),
		SessionToken: &token,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestBootstrapCreatesSessionWhenNoneActive(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	kv := cart.NewMemoryKV()

	m := newManager(db, kv)
	s := m.Bootstrap(ctx, "5")
	require.NotNil(t, s)
	assert.Equal(t, models.SessionStatusActive, s.Status)
	assert.Equal(t, "5", s.TableNumber)

	// Token tersimpan di KV untuk kunjungan berikutnya
	token, ok, err := kv.Get(ctx, "session_token_1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, s.SessionToken, token)
}

func TestBootstrapJoinsExistingActiveSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	// Device pertama membuat sesi
	first := newManager(db, cart.NewMemoryKV())
	created := first.Bootstrap(ctx, "5")
	require.NotNil(t, created)

	// Device kedua di meja yang sama join, bukan bikin baru
	second := newManager(db, cart.NewMemoryKV())
	joined := second.Bootstrap(ctx, "5")
	require.NotNil(t, joined)
	assert.Equal(t, created.SessionToken, joined.SessionToken)

	var count int64
	db.Model(&models.CustomerSession{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBootstrapReloadsFromStoredToken(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	kv := cart.NewMemoryKV()

	m := newManager(db, kv)
	s := m.Bootstrap(ctx, "5")
	require.NotNil(t, s)
	insertOrder(t, db, s.SessionToken, 52300)
	insertOrder(t, db, s.SessionToken, 10000)

	// Manager baru di atas KV yang sama = buka ulang halaman
	reopened := newManager(db, kv)
	again := reopened.Bootstrap(ctx, "5")
	require.NotNil(t, again)
	assert.Equal(t, s.SessionToken, again.SessionToken)
	assert.Equal(t, int64(62300), reopened.SessionTotal())
	assert.Len(t, reopened.SessionOrders(), 2)
}

func TestBootstrapStaleTokenFallsThroughToJoin(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	kv := cart.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "session_token_1", "sess_tidak_ada"))

	m := newManager(db, kv)
	s := m.Bootstrap(ctx, "5")
	require.NotNil(t, s)
	assert.NotEqual(t, "sess_tidak_ada", s.SessionToken)

	// Token basi dibersihkan lalu ditimpa token baru
	token, ok, _ := kv.Get(ctx, "session_token_1")
	assert.True(t, ok)
	assert.Equal(t, s.SessionToken, token)
}

func TestSessionTotalUsesLegacyTotalColumn(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	kv := cart.NewMemoryKV()

	m := newManager(db, kv)
	s := m.Bootstrap(ctx, "5")
	require.NotNil(t, s)

	// Baris historis: total_amount kosong, hanya kolom lama total
	legacy := &models.Order{
		TokoID:       1,
		TableNumber:  "5",
		CustomerName: "Budi",
		Status:       models.OrderStatusPending,
		Total:        intPtr(15000),
		SessionToken: &s.SessionToken,
	}
	require.NoError(t, db.Create(legacy).Error)
	insertOrder(t, db, s.SessionToken, 10000)

	require.NoError(t, m.Refresh(ctx))
	assert.Equal(t, int64(25000), m.SessionTotal())
}

func TestEnsureSessionCreatesLazily(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	kv := cart.NewMemoryKV()

	m := newManager(db, kv)
	s, err := m.EnsureSession(ctx, "7", &session.CustomerData{Name: "Siti", Phone: "+628123456789"})
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, s.CustomerName)
	assert.Equal(t, "Siti", *s.CustomerName)

	// Panggilan kedua mengembalikan sesi yang sama
	again, err := m.EnsureSession(ctx, "7", nil)
	require.NoError(t, err)
	assert.Equal(t, s.SessionToken, again.SessionToken)
}

func TestUpdateCustomerDataAutofill(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	kv := cart.NewMemoryKV()

	m := newManager(db, kv)
	require.NotNil(t, m.Bootstrap(ctx, "5"))
	require.NoError(t, m.UpdateCustomerData(ctx, session.CustomerData{
		Name: "Budi", Phone: "+628111222333",
	}))

	data := m.CustomerData()
	require.NotNil(t, data)
	assert.Equal(t, "Budi", data.Name)

	// Manager lain di sesi yang sama ikut melihat data pelanggan
	other := newManager(db, kv)
	require.NotNil(t, other.Bootstrap(ctx, "5"))
	otherData := other.CustomerData()
	require.NotNil(t, otherData)
	assert.Equal(t, "+628111222333", otherData.Phone)
}

func TestCloseBillProducesSummaryAndReleasesTable(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	kv := cart.NewMemoryKV()

	m := newManager(db, kv)
	s := m.Bootstrap(ctx, "5")
	require.NotNil(t, s)
	insertOrder(t, db, s.SessionToken, 52300)
	insertOrder(t, db, s.SessionToken, 10000)
	require.NoError(t, m.Refresh(ctx))

	summary, err := m.CloseBill(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(62300), summary.TotalAmount)
	assert.Len(t, summary.Orders, 2)
	assert.Equal(t, s.SessionToken, summary.SessionToken)

	// Sesi closed di persistence, binding lokal dilepas
	var stored models.CustomerSession
	require.NoError(t, db.Where("session_token = ?", s.SessionToken).First(&stored).Error)
	assert.Equal(t, models.SessionStatusClosed, stored.Status)
	assert.NotNil(t, stored.ClosedAt)
	assert.Nil(t, m.Session())
	assert.Equal(t, int64(0), m.SessionTotal())

	_, ok, _ := kv.Get(ctx, "session_token_1")
	assert.False(t, ok)
	closedToken, ok, _ := kv.Get(ctx, "closed_session_token_1")
	assert.True(t, ok)
	assert.Equal(t, s.SessionToken, closedToken)

	// Bootstrap berikutnya di meja yang sama = sesi baru
	next := m.Bootstrap(ctx, "5")
	require.NotNil(t, next)
	assert.NotEqual(t, s.SessionToken, next.SessionToken)
}

func TestCloseBillWithZeroOrders(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	kv := cart.NewMemoryKV()

	m := newManager(db, kv)
	s := m.Bootstrap(ctx, "5")
	require.NotNil(t, s)

	summary, err := m.CloseBill(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalAmount)
	assert.Empty(t, summary.Orders)

	// Meja langsung bisa dipakai sesi baru
	next := m.Bootstrap(ctx, "5")
	require.NotNil(t, next)
	assert.NotEqual(t, s.SessionToken, next.SessionToken)
}

func TestCloseBillWithoutSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	m := newManager(db, cart.NewMemoryKV())
	_, err := m.CloseBill(ctx)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}
