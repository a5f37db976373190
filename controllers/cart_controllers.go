package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/cart"
	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/utils"
)

type CartController struct {
	KV    cart.KVStore
	Menus repository.MenuRepository
}

func NewCartController(kv cart.KVStore, menus repository.MenuRepository) *CartController {
	return &CartController{KV: kv, Menus: menus}
}

// cartStore membangun Store cart untuk device + toko pemanggil.
func (cc *CartController) cartStore(c *gin.Context) (*cart.Store, uint, bool) {
	tokoID, ok := parseTokoID(c)
	if !ok {
		return nil, 0, false
	}
	kv, ok := deviceKV(c, cc.KV)
	if !ok {
		return nil, 0, false
	}
	return cart.NewStore(kv, tokoID), tokoID, true
}

// GetCart mengembalikan isi cart plus total setelah pipeline diskon.
func (cc *CartController) GetCart(c *gin.Context) {
	store, tokoID, ok := cc.cartStore(c)
	if !ok {
		return
	}

	lines, err := store.Lines(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	gd := models.GlobalDiscount{}
	if toko, err := cc.Menus.GetToko(c.Request.Context(), tokoID); err == nil {
		gd = toko.GlobalDiscount()
	}

	totals, err := store.Totals(c.Request.Context(), gd)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Isi cart", gin.H{
		"lines":  lines,
		"totals": totals,
	})
}

// AddItem menambahkan satu menu (plus variasi opsional) ke cart.
// Harga di-snapshot dari data menu saat ini, bukan dari input client.
func (cc *CartController) AddItem(c *gin.Context) {
	store, tokoID, ok := cc.cartStore(c)
	if !ok {
		return
	}

	var req struct {
		MenuID    uint  `json:"menu_id" binding:"required"`
		VariasiID *uint `json:"variasi_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menus, err := cc.Menus.GetMenuWithVariasi(c.Request.Context(), tokoID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var menu *models.Menu
	var variasi *models.MenuVariasi
	for i := range menus {
		if menus[i].ID != req.MenuID {
			continue
		}
		menu = &menus[i]
		if req.VariasiID != nil {
			for j := range menus[i].Variasi {
				if menus[i].Variasi[j].ID == *req.VariasiID {
					variasi = &menus[i].Variasi[j]
					break
				}
			}
			if variasi == nil {
				utils.RespondError(c, http.StatusNotFound, errors.New("variasi tidak ditemukan"))
				return
			}
		}
		break
	}
	if menu == nil {
		utils.RespondError(c, http.StatusNotFound, gorm.ErrRecordNotFound)
		return
	}

	line, err := store.AddItem(c.Request.Context(), *menu, variasi)
	if errors.Is(err, cart.ErrMenuNotAvailable) {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Item ditambahkan", line)
}

// UpdateQuantity mengubah qty satu baris; qty 0 menghapus baris.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	store, _, ok := cc.cartStore(c)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err := store.UpdateQuantity(c.Request.Context(), c.Param("line_id"), req.Quantity)
	if errors.Is(err, cart.ErrLineNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Qty diperbarui", gin.H{"line_id": c.Param("line_id"), "quantity": req.Quantity})
}

// RemoveItem menghapus satu baris cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	store, _, ok := cc.cartStore(c)
	if !ok {
		return
	}

	err := store.RemoveItem(c.Request.Context(), c.Param("line_id"))
	if errors.Is(err, cart.ErrLineNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item dihapus", gin.H{"line_id": c.Param("line_id")})
}

// ClearCart mengosongkan cart device ini.
func (cc *CartController) ClearCart(c *gin.Context) {
	store, _, ok := cc.cartStore(c)
	if !ok {
		return
	}

	if err := store.Clear(c.Request.Context()); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart dikosongkan", nil)
}
