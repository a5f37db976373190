package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/utils"
)

type CustomerController struct {
	Directory repository.CustomerDirectory
}

func NewCustomerController(directory repository.CustomerDirectory) *CustomerController {
	return &CustomerController{Directory: directory}
}

// SearchByPhone mencari pelanggan berdasarkan nomor HP untuk auto-fill
// nama di form pemesanan. Nomor dinormalisasi dulu; baris lama dengan
// format 08xx tetap ketemu.
// Endpoint: GET /toko/:toko_id/pelanggan/search?phone=<nomor>
func (cc *CustomerController) SearchByPhone(c *gin.Context) {
	tokoID, ok := parseTokoID(c)
	if !ok {
		return
	}

	phone := c.Query("phone")
	if phone == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("query parameter 'phone' wajib diisi"))
		return
	}

	pelanggan, err := cc.Directory.SearchByPhone(c.Request.Context(), tokoID, phone)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if pelanggan == nil {
		utils.RespondJSON(c, http.StatusOK, "Pelanggan tidak ditemukan", nil)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Pelanggan ditemukan", pelanggan)
}
