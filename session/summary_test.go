package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/session"
)

func TestBuildSummaryAfterCloseBill(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	sessions := repository.NewSessionRepository(db)
	orders := repository.NewOrderRepository(db)

	s, err := sessions.CreateSession(ctx, 1, "5", nil, nil)
	require.NoError(t, err)

	first := insertOrder(t, db, s.SessionToken, 52300)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID:    first.ID,
		MenuID:     1,
		MenuName:   "Nasi Goreng Spesial",
		Quantity:   2,
		UnitPrice:  27000,
		HargaAsli:  30000,
		TotalPrice: intPtr(54000),
	}).Error)
	insertOrder(t, db, s.SessionToken, 10000)

	require.NoError(t, sessions.CloseSession(ctx, s.SessionToken))

	// Rekonsiliasi tetap jalan untuk sesi yang sudah closed
	summary, err := session.NewReconciler(sessions, orders).BuildSummary(ctx, s.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, s.ID, summary.SessionID)
	assert.Equal(t, "5", summary.TableNumber)
	assert.Equal(t, int64(62300), summary.TotalAmount)
	require.Len(t, summary.Orders, 2)
	assert.Len(t, summary.Orders[0].Items, 1)
	assert.Equal(t, int64(52300), summary.Orders[0].Total)
}

func TestBuildSummaryUnknownToken(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	r := session.NewReconciler(
		repository.NewSessionRepository(db),
		repository.NewOrderRepository(db),
	)
	_, err := r.BuildSummary(ctx, "sess_tidak_ada")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

// Stub untuk jalur yang sulit dipancing lewat sqlite: relasi nested
// kosong dan total tersimpan yang tidak konsisten.
type stubSessionRepo struct {
	session *models.CustomerSession
}

func (s *stubSessionRepo) CreateSession(context.Context, uint, string, *string, *string) (*models.CustomerSession, error) {
	return nil, nil
}
func (s *stubSessionRepo) FindActiveSession(context.Context, uint, string) (*models.CustomerSession, error) {
	return nil, nil
}
func (s *stubSessionRepo) GetSessionByToken(context.Context, string) (*models.CustomerSession, error) {
	return s.session, nil
}
func (s *stubSessionRepo) GetSessionAnyStatus(context.Context, string) (*models.CustomerSession, error) {
	return s.session, nil
}
func (s *stubSessionRepo) UpdateSessionCustomerData(context.Context, string, string, string) error {
	return nil
}
func (s *stubSessionRepo) TouchActivity(context.Context, string) error { return nil }
func (s *stubSessionRepo) CloseSession(context.Context, string) error  { return nil }

type stubOrderRepo struct {
	orders    []models.Order
	items     map[uint][]models.OrderItem
	itemCalls int
}

func (r *stubOrderRepo) CreateOrder(context.Context, *models.Order, []models.OrderItem) error {
	return nil
}
func (r *stubOrderRepo) GetOrderByID(context.Context, uint) (*models.Order, error) {
	return nil, nil
}
func (r *stubOrderRepo) GetOrdersBySessionToken(context.Context, string) ([]models.Order, error) {
	return r.orders, nil
}
func (r *stubOrderRepo) GetOrderItems(_ context.Context, orderID uint) ([]models.OrderItem, error) {
	r.itemCalls++
	return r.items[orderID], nil
}
func (r *stubOrderRepo) UpdateOrderStatus(context.Context, uint, string, *uint) (*models.Order, error) {
	return nil, nil
}
func (r *stubOrderRepo) CountPendingOrders(context.Context, uint) (int64, error) {
	return 0, nil
}

func TestBuildSummarySecondaryItemFetch(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	token := "sess_stub"

	sessions := &stubSessionRepo{session: &models.CustomerSession{
		ID: 9, SessionToken: token, TableNumber: "3",
		Status: models.SessionStatusClosed, ClosedAt: &now,
	}}
	orders := &stubOrderRepo{
		orders: []models.Order{{
			ID: 42, TokoID: 1, Subtotal: 50000,
			AdminFee: 1000, TotalAmount: intPtr(51000),
		}},
		items: map[uint][]models.OrderItem{
			42: {{OrderID: 42, MenuName: "Es Teh", Quantity: 2, UnitPrice: 25000, TotalPrice: intPtr(50000)}},
		},
	}

	summary, err := session.NewReconciler(sessions, orders).BuildSummary(ctx, token)
	require.NoError(t, err)
	require.Len(t, summary.Orders, 1)

	// Items kosong di hasil query utama -> fetch sekunder jalan
	assert.Equal(t, 1, orders.itemCalls)
	assert.Len(t, summary.Orders[0].Items, 1)
	assert.False(t, summary.Orders[0].TotalMismatch)
	assert.Equal(t, now, summary.ClosedAt)
}

func TestBuildSummaryFlagsTotalMismatch(t *testing.T) {
	ctx := context.Background()
	token := "sess_stub"

	sessions := &stubSessionRepo{session: &models.CustomerSession{
		ID: 9, SessionToken: token, TableNumber: "3",
		Status: models.SessionStatusClosed,
	}}
	orders := &stubOrderRepo{
		orders: []models.Order{{
			// subtotal - diskon + fee = 51000, tersimpan 60000
			ID: 42, TokoID: 1, Subtotal: 50000,
			AdminFee: 1000, TotalAmount: intPtr(60000),
		}},
		items: map[uint][]models.OrderItem{},
	}

	summary, err := session.NewReconciler(sessions, orders).BuildSummary(ctx, token)
	require.NoError(t, err)
	require.Len(t, summary.Orders, 1)
	assert.True(t, summary.Orders[0].TotalMismatch)
	// Angka tersimpan yang dipakai, bukan hasil hitung ulang
	assert.Equal(t, int64(60000), summary.Orders[0].Total)
	assert.Equal(t, int64(60000), summary.TotalAmount)
}
