package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prasetyawidi/meja-app/cart"
	"github.com/prasetyawidi/meja-app/utils"
)

// parseTokoID membaca path param toko_id; 0 dan nilai non-angka ditolak.
func parseTokoID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("toko_id"), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidTokoID)
		return 0, false
	}
	return uint(id), true
}

// deviceKV membungkus KV bersama dengan namespace per device. Device ID
// dikirim client lewat header; tanpa itu cart dan token session dua
// pengunjung akan saling menimpa.
func deviceKV(c *gin.Context, kv cart.KVStore) (cart.KVStore, bool) {
	deviceID := c.GetHeader("X-Device-ID")
	if deviceID == "" {
		utils.RespondError(c, http.StatusBadRequest, ErrMissingDeviceID)
		return nil, false
	}
	return cart.NewPrefixKV(kv, fmt.Sprintf("device_%s:", deviceID)), true
}
