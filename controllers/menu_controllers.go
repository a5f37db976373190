package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/utils"
)

type MenuController struct {
	Repo repository.MenuRepository
}

func NewMenuController(repo repository.MenuRepository) *MenuController {
	return &MenuController{Repo: repo}
}

// GetRestaurantData mengembalikan satu payload untuk halaman pelanggan:
// toko, kategori, dan menu beserta variasinya. Toko yang tidak ditemukan
// jatuh ke data demo supaya halaman tetap bisa dicoba tanpa seeding.
func (mc *MenuController) GetRestaurantData(c *gin.Context) {
	tokoID, ok := parseTokoID(c)
	if !ok {
		return
	}

	toko, err := mc.Repo.GetToko(c.Request.Context(), tokoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondJSON(c, http.StatusOK, "Data restoran (demo)", demoRestaurantData(tokoID))
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kategori, err := mc.Repo.GetKategori(c.Request.Context(), tokoID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	menus, err := mc.Repo.GetMenuWithVariasi(c.Request.Context(), tokoID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Data restoran", gin.H{
		"toko":     toko,
		"kategori": kategori,
		"menu":     menus,
	})
}

// GetMenus mengembalikan daftar menu saja (refresh parsial di client).
func (mc *MenuController) GetMenus(c *gin.Context) {
	tokoID, ok := parseTokoID(c)
	if !ok {
		return
	}

	menus, err := mc.Repo.GetMenuWithVariasi(c.Request.Context(), tokoID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Daftar menu", menus)
}

// demoRestaurantData meniru isi toko betulan untuk mode demo.
func demoRestaurantData(tokoID uint) gin.H {
	kategori := models.Kategori{ID: 1, TokoID: tokoID, Nama: "Makanan"}
	return gin.H{
		"toko": models.Toko{
			ID:   tokoID,
			Nama: "Warung Demo",
		},
		"kategori": []models.Kategori{kategori},
		"menu": []models.Menu{
			{
				ID:                 1,
				TokoID:             tokoID,
				KategoriID:         1,
				Kategori:           kategori,
				Nama:               "Nasi Goreng Spesial",
				Harga:              25000,
				IsAvailable:        true,
				DiscountPercentage: 10,
				Variasi: []models.MenuVariasi{
					{ID: 1, MenuID: 1, Nama: "Porsi Jumbo", HargaTambahan: 5000},
				},
			},
			{
				ID:          2,
				TokoID:      tokoID,
				KategoriID:  1,
				Kategori:    kategori,
				Nama:        "Es Teh Manis",
				Harga:       5000,
				IsAvailable: true,
			},
		},
		"demo": true,
	}
}
