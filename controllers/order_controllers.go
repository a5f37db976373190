package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/cart"
	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/services"
	"github.com/prasetyawidi/meja-app/session"
	"github.com/prasetyawidi/meja-app/utils"
)

type OrderController struct {
	KV       cart.KVStore
	Checkout *services.CheckoutService
	Orders   repository.OrderRepository
	Sessions repository.SessionRepository
	Notifier services.NotificationSink
}

func NewOrderController(
	kv cart.KVStore,
	checkout *services.CheckoutService,
	orders repository.OrderRepository,
	sessions repository.SessionRepository,
	notifier services.NotificationSink,
) *OrderController {
	if notifier == nil {
		notifier = services.NopSink{}
	}
	return &OrderController{
		KV:       kv,
		Checkout: checkout,
		Orders:   orders,
		Sessions: sessions,
		Notifier: notifier,
	}
}

// SubmitOrder mengirim isi cart device ini sebagai satu pesanan.
func (oc *OrderController) SubmitOrder(c *gin.Context) {
	tokoID, ok := parseTokoID(c)
	if !ok {
		return
	}
	kv, ok := deviceKV(c, oc.KV)
	if !ok {
		return
	}

	var input services.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	store := cart.NewStore(kv, tokoID)
	manager := session.NewManager(oc.Sessions, oc.Orders, kv, tokoID)

	order, err := oc.Checkout.Submit(c.Request.Context(), tokoID, store, manager, input)
	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrMissingCustomerInfo):
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	case err != nil:
		utils.ErrorLogger.Printf("submit pesanan toko %d gagal: %v", tokoID, err)
		utils.RespondError(c, http.StatusInternalServerError, services.ErrOrderSubmissionFailed)
		return
	}

	utils.InfoLogger.Printf("Pesanan %d masuk (toko %d, meja %s, total %s)",
		order.ID, tokoID, order.TableNumber, utils.FormatCurrencyIDR(order.ResolvedTotal()))

	utils.RespondJSON(c, http.StatusCreated, "Pesanan diterima", gin.H{
		"order":         order,
		"session_token": order.SessionToken,
	})
}

// GetOrder mengembalikan satu pesanan beserta barisnya.
func (oc *OrderController) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order_id tidak valid"))
		return
	}

	order, err := oc.Orders.GetOrderByID(c.Request.Context(), uint(orderID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Detail pesanan", order)
}

// UpdateOrderStatus dipakai kasir (ber-auth): pending -> paid dengan
// link transaksi, atau pembatalan. Baris pesanan tidak pernah berubah
// lewat jalur ini.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order_id tidak valid"))
		return
	}

	var req struct {
		Status      string `json:"status" binding:"required"`
		TransaksiID *uint  `json:"transaksi_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch req.Status {
	case models.OrderStatusPending, models.OrderStatusPaid,
		models.OrderStatusCancelled, models.OrderStatusCompleted:
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("status tidak dikenal"))
		return
	}

	order, err := oc.Orders.UpdateOrderStatus(c.Request.Context(), uint(orderID), req.Status, req.TransaksiID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.Notifier.Publish(c.Request.Context(), services.OrderEvent{
		Type:        services.EventOrderStatusChanged,
		TokoID:      order.TokoID,
		OrderID:     order.ID,
		TableNumber: order.TableNumber,
		Status:      order.Status,
		Total:       order.ResolvedTotal(),
		OccurredAt:  order.UpdatedAt,
	})

	utils.RespondJSON(c, http.StatusOK, "Status pesanan diperbarui", order)
}

// GetPendingCount mengembalikan jumlah pesanan pending satu toko,
// dipakai badge notifikasi kasir.
func (oc *OrderController) GetPendingCount(c *gin.Context) {
	tokoID, ok := parseTokoID(c)
	if !ok {
		return
	}

	count, err := oc.Orders.CountPendingOrders(c.Request.Context(), tokoID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Jumlah pesanan pending", gin.H{"count": count})
}
