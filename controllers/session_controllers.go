package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prasetyawidi/meja-app/cart"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/services"
	"github.com/prasetyawidi/meja-app/session"
	"github.com/prasetyawidi/meja-app/utils"
)

type SessionController struct {
	KV       cart.KVStore
	Sessions repository.SessionRepository
	Orders   repository.OrderRepository
	Notifier services.NotificationSink
}

func NewSessionController(kv cart.KVStore, sessions repository.SessionRepository, orders repository.OrderRepository, notifier services.NotificationSink) *SessionController {
	if notifier == nil {
		notifier = services.NopSink{}
	}
	return &SessionController{KV: kv, Sessions: sessions, Orders: orders, Notifier: notifier}
}

// manager membangun session manager untuk device + toko pemanggil.
func (sc *SessionController) manager(c *gin.Context) (*session.Manager, uint, bool) {
	tokoID, ok := parseTokoID(c)
	if !ok {
		return nil, 0, false
	}
	kv, ok := deviceKV(c, sc.KV)
	if !ok {
		return nil, 0, false
	}
	return session.NewManager(sc.Sessions, sc.Orders, kv, tokoID), tokoID, true
}

// Bootstrap menjalankan join-or-create session untuk meja yang discan.
func (sc *SessionController) Bootstrap(c *gin.Context) {
	m, _, ok := sc.manager(c)
	if !ok {
		return
	}

	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sess := m.Bootstrap(c.Request.Context(), req.TableNumber)
	if sess == nil {
		// Degradasi: tanpa session pun pemesanan tetap jalan, session
		// dibuat lazy saat checkout.
		utils.RespondJSON(c, http.StatusOK, "Lanjut tanpa session", gin.H{"session": nil})
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session siap", gin.H{
		"session":       sess,
		"orders":        m.SessionOrders(),
		"session_total": m.SessionTotal(),
		"customer_data": m.CustomerData(),
	})
}

// GetSession mengembalikan state session device ini: pesanan di
// dalamnya, total berjalan, dan data pelanggan untuk auto-fill.
func (sc *SessionController) GetSession(c *gin.Context) {
	m, _, ok := sc.manager(c)
	if !ok {
		return
	}

	if err := m.Refresh(c.Request.Context()); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sess := m.Session()
	if sess == nil {
		utils.RespondError(c, http.StatusNotFound, ErrNoActiveSession)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "State session", gin.H{
		"session":       sess,
		"orders":        m.SessionOrders(),
		"session_total": m.SessionTotal(),
		"customer_data": m.CustomerData(),
	})
}

// UpdateCustomerData menyimpan nama/HP pelanggan di session.
func (sc *SessionController) UpdateCustomerData(c *gin.Context) {
	m, _, ok := sc.manager(c)
	if !ok {
		return
	}

	var req session.CustomerData
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	req.Phone = utils.NormalizePhone(req.Phone)

	if err := m.UpdateCustomerData(c.Request.Context(), req); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Data pelanggan disimpan", req)
}

// CloseBill menutup session meja ini dan mengembalikan rangkuman.
func (sc *SessionController) CloseBill(c *gin.Context) {
	m, tokoID, ok := sc.manager(c)
	if !ok {
		return
	}

	if err := m.Refresh(c.Request.Context()); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	summary, err := m.CloseBill(c.Request.Context())
	if errors.Is(err, repository.ErrSessionNotFound) {
		utils.RespondError(c, http.StatusNotFound, ErrNoActiveSession)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sc.Notifier.Publish(c.Request.Context(), services.OrderEvent{
		Type:        services.EventSessionClosed,
		TokoID:      tokoID,
		TableNumber: summary.TableNumber,
		Total:       summary.TotalAmount,
		OccurredAt:  summary.ClosedAt,
	})

	utils.RespondJSON(c, http.StatusOK, "Bill ditutup", summary)
}

// GetBillSummary merekonsiliasi rangkuman otoritatif dari persistence
// untuk token yang baru ditutup. Setelah sukses, key sementara milik
// device (token closed + cache rangkuman) dibersihkan.
func (sc *SessionController) GetBillSummary(c *gin.Context) {
	tokoID, ok := parseTokoID(c)
	if !ok {
		return
	}

	token := c.Param("token")
	r := session.NewReconciler(sc.Sessions, sc.Orders)
	summary, err := r.BuildSummary(c.Request.Context(), token)
	if errors.Is(err, repository.ErrSessionNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Pembersihan key sementara best-effort; tanpa device ID dilewati.
	if deviceID := c.GetHeader("X-Device-ID"); deviceID != "" {
		kv := cart.NewPrefixKV(sc.KV, "device_"+deviceID+":")
		session.ClearClosedSessionKeys(c.Request.Context(), kv, tokoID)
	}

	utils.RespondJSON(c, http.StatusOK, "Rangkuman bill", summary)
}
