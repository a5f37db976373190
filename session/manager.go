// Package session mengelola sesi pemesanan bersama satu meja: join atau
// buat sesi saat bootstrap, melacak pesanan di dalamnya, dan menutup
// bill menjadi rangkuman.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prasetyawidi/meja-app/cart"
	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/utils"
)

// CustomerData dipakai untuk auto-fill form di pesanan berikutnya
// dalam sesi yang sama.
type CustomerData struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Manager memegang binding sesi untuk satu device pada satu toko.
// Token disimpan di KV ber-namespace toko supaya ganti toko tidak
// membocorkan sesi toko sebelumnya.
type Manager struct {
	mu            sync.Mutex
	bootstrapping bool

	sessions repository.SessionRepository
	orders   repository.OrderRepository
	kv       cart.KVStore
	tokoID   uint

	session       *models.CustomerSession
	sessionOrders []models.Order
	sessionTotal  int64
	customerData  *CustomerData
}

func NewManager(sessions repository.SessionRepository, orders repository.OrderRepository, kv cart.KVStore, tokoID uint) *Manager {
	return &Manager{
		sessions: sessions,
		orders:   orders,
		kv:       kv,
		tokoID:   tokoID,
	}
}

func (m *Manager) tokenKey() string {
	return fmt.Sprintf("session_token_%d", m.tokoID)
}

func (m *Manager) closedTokenKey() string {
	return fmt.Sprintf("closed_session_token_%d", m.tokoID)
}

func (m *Manager) summaryKey() string {
	return fmt.Sprintf("close_bill_summary_%d", m.tokoID)
}

// Bootstrap menjalankan join-or-create untuk meja ini. Dipanggil ulang
// saat bootstrap masih jalan, panggilan kedua langsung kembali dengan
// state saat itu; guard ini mencegah dua sesi dibuat untuk satu meja.
// Kegagalan persistence TIDAK dipropagasi: manager turun ke kondisi
// tanpa sesi dan checkout membuat sesi secara lazy.
func (m *Manager) Bootstrap(ctx context.Context, tableNumber string) *models.CustomerSession {
	m.mu.Lock()
	if m.bootstrapping {
		current := m.session
		m.mu.Unlock()
		return current
	}
	m.bootstrapping = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.bootstrapping = false
		m.mu.Unlock()
	}()

	// 1) Token tersimpan dari kunjungan sebelumnya
	if token, ok, err := m.kv.Get(ctx, m.tokenKey()); err == nil && ok {
		if err := m.LoadSessionData(ctx, token); err == nil {
			m.mu.Lock()
			current := m.session
			m.mu.Unlock()
			if current != nil {
				return current
			}
		}
	}

	// 2) Join sesi aktif milik meja ini (dibuat device lain)
	existing, err := m.sessions.FindActiveSession(ctx, m.tokoID, tableNumber)
	if err != nil {
		utils.ErrorLogger.Printf("session bootstrap: lookup gagal, lanjut tanpa sesi: %v", err)
		return nil
	}
	if existing != nil {
		if err := m.bind(ctx, existing); err != nil {
			utils.ErrorLogger.Printf("session bootstrap: bind gagal: %v", err)
			return nil
		}
		return existing
	}

	// 3) Buat sesi baru tanpa data pelanggan (diisi saat pesanan pertama)
	created, err := m.sessions.CreateSession(ctx, m.tokoID, tableNumber, nil, nil)
	if err != nil {
		utils.ErrorLogger.Printf("session bootstrap: create gagal, lanjut tanpa sesi: %v", err)
		return nil
	}
	if err := m.bind(ctx, created); err != nil {
		utils.ErrorLogger.Printf("session bootstrap: bind gagal: %v", err)
		return nil
	}
	return created
}

func (m *Manager) bind(ctx context.Context, s *models.CustomerSession) error {
	if err := m.kv.Set(ctx, m.tokenKey(), s.SessionToken); err != nil {
		return err
	}
	if err := m.sessions.TouchActivity(ctx, s.SessionToken); err != nil {
		utils.ErrorLogger.Printf("session: touch activity gagal: %v", err)
	}
	return m.LoadSessionData(ctx, s.SessionToken)
}

// LoadSessionData memuat ulang sesi + pesanannya dari persistence.
// Daftar pesanan selalu diturunkan ulang dari query token, tidak pernah
// dari push notification saja. Token yang sudah tidak aktif dibersihkan.
func (m *Manager) LoadSessionData(ctx context.Context, token string) error {
	s, err := m.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		return err
	}
	if s == nil {
		_ = m.kv.Delete(ctx, m.tokenKey())
		m.mu.Lock()
		m.session = nil
		m.sessionOrders = nil
		m.sessionTotal = 0
		m.mu.Unlock()
		return nil
	}

	orders, err := m.orders.GetOrdersBySessionToken(ctx, token)
	if err != nil {
		return err
	}

	var total int64
	for i := range orders {
		total += orders[i].ResolvedTotal()
	}

	m.mu.Lock()
	m.session = s
	m.sessionOrders = orders
	m.sessionTotal = total
	if s.CustomerName != nil || s.CustomerPhone != nil {
		data := CustomerData{}
		if s.CustomerName != nil {
			data.Name = *s.CustomerName
		}
		if s.CustomerPhone != nil {
			data.Phone = *s.CustomerPhone
		}
		m.customerData = &data
	}
	m.mu.Unlock()
	return nil
}

// EnsureSession mengembalikan sesi yang sedang terikat, atau membuatnya
// inline saat checkout kalau bootstrap tadi gagal/terlewat.
func (m *Manager) EnsureSession(ctx context.Context, tableNumber string, info *CustomerData) (*models.CustomerSession, error) {
	m.mu.Lock()
	current := m.session
	m.mu.Unlock()
	if current != nil {
		return current, nil
	}

	// Manager baru (satu per request) belum memuat apa-apa; token
	// tersimpan di KV tetap mengikat device ini ke sesinya.
	if err := m.Refresh(ctx); err == nil {
		m.mu.Lock()
		current = m.session
		m.mu.Unlock()
		if current != nil {
			return current, nil
		}
	}

	var name, phone *string
	if info != nil {
		if info.Name != "" {
			name = &info.Name
		}
		if info.Phone != "" {
			phone = &info.Phone
		}
	}

	created, err := m.sessions.CreateSession(ctx, m.tokoID, tableNumber, name, phone)
	if err != nil {
		return nil, err
	}
	if err := m.bind(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// Refresh menurunkan ulang daftar pesanan dan total dari persistence;
// dipanggil setelah sebuah pesanan melekat ke sesi.
func (m *Manager) Refresh(ctx context.Context) error {
	token, ok, err := m.kv.Get(ctx, m.tokenKey())
	if err != nil || !ok {
		return err
	}
	return m.LoadSessionData(ctx, token)
}

// UpdateCustomerData menyimpan nama/HP pelanggan di sesi untuk
// auto-fill pesanan berikutnya.
func (m *Manager) UpdateCustomerData(ctx context.Context, data CustomerData) error {
	token, ok, err := m.kv.Get(ctx, m.tokenKey())
	if err != nil || !ok {
		return err
	}
	if err := m.sessions.UpdateSessionCustomerData(ctx, token, data.Name, data.Phone); err != nil {
		return err
	}
	m.mu.Lock()
	m.customerData = &data
	m.mu.Unlock()
	return m.LoadSessionData(ctx, token)
}

// Session mengembalikan sesi yang sedang terikat (bisa nil).
func (m *Manager) Session() *models.CustomerSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// SessionOrders mengembalikan salinan daftar pesanan dalam sesi.
func (m *Manager) SessionOrders() []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Order, len(m.sessionOrders))
	copy(out, m.sessionOrders)
	return out
}

// SessionTotal = Σ total tiap pesanan dalam sesi, dengan fallback
// field total per pesanan lewat ResolvedTotal().
func (m *Manager) SessionTotal() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionTotal
}

// CustomerData mengembalikan data pelanggan untuk auto-fill (bisa nil).
func (m *Manager) CustomerData() *CustomerData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.customerData
}

// ClearClosedSessionKeys membuang key sementara sisa close bill
// (token closed + cache rangkuman) setelah rangkuman otoritatif
// berhasil diambil dari persistence.
func ClearClosedSessionKeys(ctx context.Context, kv cart.KVStore, tokoID uint) {
	_ = kv.Delete(ctx, fmt.Sprintf("closed_session_token_%d", tokoID))
	_ = kv.Delete(ctx, fmt.Sprintf("close_bill_summary_%d", tokoID))
}

// CloseBill menutup sesi: snapshot rangkuman, tandai closed di
// persistence, stash token yang baru ditutup untuk halaman rangkuman,
// lalu lepas binding lokal. Bootstrap berikutnya di meja yang sama
// membuat sesi baru.
func (m *Manager) CloseBill(ctx context.Context) (*BillSummary, error) {
	token, ok, err := m.kv.Get(ctx, m.tokenKey())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrSessionNotFound
	}

	m.mu.Lock()
	summary := &BillSummary{
		TableNumber: "",
		Orders:      nil,
		TotalAmount: m.sessionTotal,
		ClosedAt:    time.Now(),
	}
	if m.session != nil {
		summary.SessionID = m.session.ID
		summary.SessionToken = m.session.SessionToken
		summary.TableNumber = m.session.TableNumber
		if m.session.CustomerName != nil {
			summary.CustomerName = *m.session.CustomerName
		}
		if m.session.CustomerPhone != nil {
			summary.CustomerPhone = *m.session.CustomerPhone
		}
	} else {
		summary.SessionToken = token
	}
	for _, order := range m.sessionOrders {
		summary.Orders = append(summary.Orders, OrderSummary{
			Order: order,
			Items: order.Items,
			Total: order.ResolvedTotal(),
		})
	}
	m.mu.Unlock()

	if err := m.sessions.CloseSession(ctx, token); err != nil {
		return nil, err
	}

	// Cache sementara untuk menjembatani aksi close ke halaman
	// rangkuman; dibersihkan begitu fetch otoritatif sukses.
	if raw, err := json.Marshal(summary); err == nil {
		_ = m.kv.Set(ctx, m.summaryKey(), string(raw))
	}
	_ = m.kv.Set(ctx, m.closedTokenKey(), summary.SessionToken)
	_ = m.kv.Delete(ctx, m.tokenKey())

	m.mu.Lock()
	m.session = nil
	m.sessionOrders = nil
	m.sessionTotal = 0
	m.customerData = nil
	m.mu.Unlock()

	return summary, nil
}
