package session

import (
	"context"
	"fmt"
	"time"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/utils"
)

// OrderSummary adalah satu pesanan di dalam rangkuman bill, dengan
// total yang sudah di-resolve dan breakdown biayanya.
type OrderSummary struct {
	Order         models.Order       `json:"order"`
	Items         []models.OrderItem `json:"items"`
	Subtotal      int64              `json:"subtotal"`
	GlobalDiskon  int64              `json:"global_discount"`
	AdminFee      int64              `json:"admin_fee"`
	Total         int64              `json:"total"`
	TotalMismatch bool               `json:"total_mismatch,omitempty"`
}

// BillSummary adalah rangkuman close-bill untuk satu session.
type BillSummary struct {
	SessionID     uint           `json:"session_id"`
	SessionToken  string         `json:"session_token"`
	TableNumber   string         `json:"table_number"`
	CustomerName  string         `json:"customer_name,omitempty"`
	CustomerPhone string         `json:"customer_phone,omitempty"`
	Orders        []OrderSummary `json:"orders"`
	TotalAmount   int64          `json:"total_amount"`
	ClosedAt      time.Time      `json:"closed_at"`
}

// Reconciler membangun rangkuman bill otoritatif dari persistence,
// dipakai halaman rangkuman setelah close bill.
type Reconciler struct {
	sessions repository.SessionRepository
	orders   repository.OrderRepository
}

func NewReconciler(sessions repository.SessionRepository, orders repository.OrderRepository) *Reconciler {
	return &Reconciler{sessions: sessions, orders: orders}
}

// BuildSummary merekonsiliasi rangkuman dari token session, status apa
// pun: session yang baru saja ditutup justru target utamanya. Tiap
// pesanan dicek identitas totalnya (subtotal - diskon global +
// admin fee harus sama dengan total tersimpan); selisih ditandai dan
// dicatat, angka tersimpan yang dipakai.
func (r *Reconciler) BuildSummary(ctx context.Context, token string) (*BillSummary, error) {
	s, err := r.sessions.GetSessionAnyStatus(ctx, token)
	if err != nil {
		return nil, err
	}

	orders, err := r.orders.GetOrdersBySessionToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("rekonsiliasi bill: ambil pesanan: %w", err)
	}

	summary := &BillSummary{
		SessionID:    s.ID,
		SessionToken: s.SessionToken,
		TableNumber:  s.TableNumber,
		ClosedAt:     time.Now(),
	}
	if s.CustomerName != nil {
		summary.CustomerName = *s.CustomerName
	}
	if s.CustomerPhone != nil {
		summary.CustomerPhone = *s.CustomerPhone
	}
	if s.ClosedAt != nil {
		summary.ClosedAt = *s.ClosedAt
	}

	var grand int64
	for i := range orders {
		order := orders[i]

		items := order.Items
		// Fetch sekunder: relasi nested bisa kosong pada driver lama,
		// barisnya tetap ada di tabel detail.
		if len(items) == 0 {
			fetched, err := r.orders.GetOrderItems(ctx, order.ID)
			if err != nil {
				return nil, fmt.Errorf("rekonsiliasi bill: ambil item pesanan %d: %w", order.ID, err)
			}
			items = fetched
		}

		var subtotal int64
		for j := range items {
			subtotal += items[j].ResolvedLineTotal()
		}
		if order.Subtotal > 0 {
			subtotal = order.Subtotal
		}

		total := order.ResolvedTotal()
		adminFee := order.ResolvedAdminFee()

		entry := OrderSummary{
			Order:        order,
			Items:        items,
			Subtotal:     subtotal,
			GlobalDiskon: order.GlobalDiscountAmount,
			AdminFee:     adminFee,
			Total:        total,
		}

		if expected := subtotal - order.GlobalDiscountAmount + adminFee; expected != total {
			entry.TotalMismatch = true
			utils.ErrorLogger.Printf("rekonsiliasi bill: pesanan %d total tidak konsisten: tersimpan %d, hitung %d", order.ID, total, expected)
		}

		grand += total
		summary.Orders = append(summary.Orders, entry)
	}
	summary.TotalAmount = grand

	return summary, nil
}
