package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prasetyawidi/meja-app/cart"
	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/pricing"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/session"
	"github.com/prasetyawidi/meja-app/utils"
)

var (
	ErrEmptyCart             = errors.New("checkout: cart kosong")
	ErrMissingCustomerInfo   = errors.New("checkout: nama, no HP, dan nomor meja wajib diisi")
	ErrOrderSubmissionFailed = errors.New("checkout: pengiriman pesanan gagal")
)

// submitTimeout membatasi seluruh workflow checkout; lebih baik gagal
// jelas daripada pelanggan menunggu tanpa kepastian.
const submitTimeout = 15 * time.Second

// CheckoutInput adalah data form saat submit pesanan.
type CheckoutInput struct {
	TableNumber   string `json:"table_number"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	OrderNotes    string `json:"order_notes"`
}

// CheckoutService menjalankan workflow submit pesanan: validasi,
// dedup pelanggan, ikat ke session, hitung total lewat pricing
// pipeline, simpan atomik, lalu side-effect best-effort (kitchen
// queue, notifikasi).
type CheckoutService struct {
	menus     repository.MenuRepository
	adminFees repository.AdminFeeResolver
	customers repository.CustomerDirectory
	orders    repository.OrderRepository
	kitchen   repository.KitchenModeFlag
	queue     repository.KitchenQueueRepository
	notifier  NotificationSink
}

func NewCheckoutService(
	menus repository.MenuRepository,
	adminFees repository.AdminFeeResolver,
	customers repository.CustomerDirectory,
	orders repository.OrderRepository,
	kitchen repository.KitchenModeFlag,
	queue repository.KitchenQueueRepository,
	notifier NotificationSink,
) *CheckoutService {
	if notifier == nil {
		notifier = NopSink{}
	}
	return &CheckoutService{
		menus:     menus,
		adminFees: adminFees,
		customers: customers,
		orders:    orders,
		kitchen:   kitchen,
		queue:     queue,
		notifier:  notifier,
	}
}

// Submit mengirim isi cart sebagai satu pesanan. Store dan manager
// terikat ke device pemanggil, bukan ke service. Cart HANYA dikosongkan
// setelah pesanan tersimpan; kalau persistence gagal, cart utuh dan
// pelanggan bisa coba lagi.
func (s *CheckoutService) Submit(ctx context.Context, tokoID uint, store *cart.Store, sessions *session.Manager, input CheckoutInput) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	if input.TableNumber == "" || input.CustomerName == "" || input.CustomerPhone == "" {
		return nil, ErrMissingCustomerInfo
	}

	lines, err := store.Lines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderSubmissionFailed, err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	phone := utils.NormalizePhone(input.CustomerPhone)

	// Dedup pelanggan best-effort: kegagalan direktori tidak boleh
	// menggagalkan pesanan.
	var pelangganID *uint
	if phone != "" {
		id, err := s.customers.FindOrCreate(ctx, tokoID, input.CustomerName, phone)
		if err != nil {
			utils.ErrorLogger.Printf("checkout: find-or-create pelanggan gagal: %v", err)
		} else {
			pelangganID = &id
		}
	}

	sess, err := sessions.EnsureSession(ctx, input.TableNumber, &session.CustomerData{
		Name:  input.CustomerName,
		Phone: phone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: session: %v", ErrOrderSubmissionFailed, err)
	}

	toko, err := s.menus.GetToko(ctx, tokoID)
	if err != nil {
		return nil, fmt.Errorf("%w: ambil toko: %v", ErrOrderSubmissionFailed, err)
	}

	totals, err := store.Totals(ctx, toko.GlobalDiscount())
	if err != nil {
		return nil, fmt.Errorf("%w: hitung total: %v", ErrOrderSubmissionFailed, err)
	}

	adminFee := s.adminFees.GetAdminFee(ctx, tokoID)
	total, err := pricing.ComputeOrderTotal(totals.SubtotalAfterGlobal, adminFee)
	if err != nil {
		return nil, fmt.Errorf("%w: hitung total: %v", ErrOrderSubmissionFailed, err)
	}

	now := time.Now()
	order := &models.Order{
		TokoID:                   tokoID,
		TableNumber:              input.TableNumber,
		CustomerName:             input.CustomerName,
		CustomerPhone:            phone,
		PelangganID:              pelangganID,
		OrderNotes:               input.OrderNotes,
		Status:                   models.OrderStatusPending,
		Subtotal:                 totals.SubtotalFinal,
		GlobalDiscountAmount:     totals.GlobalDiscountAmount,
		GlobalDiscountPercentage: toko.GlobalDiscount().Percentage,
		AdminFee:                 adminFee,
		TotalAmount:              &total,
		SessionID:                &sess.ID,
		SessionToken:             &sess.SessionToken,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if !toko.GlobalDiscount().Enabled {
		order.GlobalDiscountPercentage = 0
	}

	items := make([]models.OrderItem, len(lines))
	for i, line := range lines {
		lineTotal := line.FinalPrice * int64(line.Quantity)
		items[i] = models.OrderItem{
			MenuID:             line.MenuID,
			VariasiID:          line.VariasiID,
			MenuName:           line.MenuName,
			VariasiName:        line.VariasiName,
			Quantity:           line.Quantity,
			UnitPrice:          line.FinalPrice,
			HargaAsli:          line.OriginalPrice,
			DiscountPercentage: line.DiscountPercentage,
			TotalDiscount:      line.DiscountAmount * int64(line.Quantity),
			TotalPrice:         &lineTotal,
			Notes:              line.Notes,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
	}

	if err := s.orders.CreateOrder(ctx, order, items); err != nil {
		return nil, fmt.Errorf("%w: simpan pesanan: %v", ErrOrderSubmissionFailed, err)
	}

	// Dari sini pesanan sudah sah; sisanya best-effort.
	if err := store.Clear(ctx); err != nil {
		utils.ErrorLogger.Printf("checkout: bersihkan cart gagal: %v", err)
	}
	if err := sessions.UpdateCustomerData(ctx, session.CustomerData{
		Name: input.CustomerName, Phone: phone,
	}); err != nil {
		utils.ErrorLogger.Printf("checkout: update data pelanggan session gagal: %v", err)
	}
	if err := sessions.Refresh(ctx); err != nil {
		utils.ErrorLogger.Printf("checkout: refresh session gagal: %v", err)
	}

	if s.kitchen != nil && s.queue != nil && s.kitchen.IsEnabled(ctx, tokoID) {
		if err := s.queue.CreateForOrder(ctx, order, order.Items); err != nil {
			utils.ErrorLogger.Printf("checkout: mirror kitchen queue pesanan %d gagal: %v", order.ID, err)
		}
	}

	s.notifier.Publish(ctx, OrderEvent{
		Type:        EventOrderCreated,
		TokoID:      tokoID,
		OrderID:     order.ID,
		TableNumber: order.TableNumber,
		Status:      order.Status,
		Total:       total,
		OccurredAt:  now,
	})

	return order, nil
}
