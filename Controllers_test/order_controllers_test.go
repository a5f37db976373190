package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitOrderFlow(t *testing.T) {
	db := setupTestDB(t)
	seedToko(t, db)
	r := setupRouterForTest(db)

	// Isi cart: 2x Nasi Goreng porsi jumbo
	for i := 0; i < 2; i++ {
		w := doJSON(r, "POST", "/toko/1/cart/items", "dev-1", map[string]interface{}{
			"menu_id":    1,
			"variasi_id": 7,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(r, "POST", "/toko/1/orders", "dev-1", map[string]interface{}{
		"table_number":   "12",
		"customer_name":  "Budi",
		"customer_phone": "0822535033",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	order := data["order"].(map[string]interface{})

	// 54000 subtotal - 2700 diskon global + 1000 admin fee
	assert.Equal(t, float64(54000), order["subtotal"])
	assert.Equal(t, float64(2700), order["global_discount_amount"])
	assert.Equal(t, float64(1000), order["admin_fee"])
	assert.Equal(t, float64(52300), order["total_amount"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "+62822535033", order["customer_phone"])
	assert.NotEmpty(t, data["session_token"])

	// Cart harus kosong setelah submit sukses
	w = doJSON(r, "GET", "/toko/1/cart", "dev-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cartData := parseBody(t, w)["data"].(map[string]interface{})
	assert.Empty(t, cartData["lines"])

	// Pesanan bisa diambil lagi lewat endpoint detail
	orderID := int(order["id"].(float64))
	w = doJSON(r, "GET", fmt.Sprintf("/orders/%d", orderID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := parseBody(t, w)["data"].(map[string]interface{})
	items := detail["items"].([]interface{})
	require.Len(t, items, 1)
}

func TestSubmitOrderEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	seedToko(t, db)
	r := setupRouterForTest(db)

	w := doJSON(r, "POST", "/toko/1/orders", "dev-1", map[string]interface{}{
		"table_number":   "12",
		"customer_name":  "Budi",
		"customer_phone": "0822535033",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitOrderMissingCustomerInfo(t *testing.T) {
	db := setupTestDB(t)
	seedToko(t, db)
	r := setupRouterForTest(db)

	w := doJSON(r, "POST", "/toko/1/cart/items", "dev-1", map[string]interface{}{"menu_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/toko/1/orders", "dev-1", map[string]interface{}{
		"table_number": "12",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nama dan meja terisi tapi no HP kosong: tetap ditolak
	w = doJSON(r, "POST", "/toko/1/orders", "dev-1", map[string]interface{}{
		"table_number":  "12",
		"customer_name": "Budi",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatusAsKasir(t *testing.T) {
	db := setupTestDB(t)
	seedToko(t, db)
	r := setupRouterForTest(db)
	token := registerKasir(t, r)

	w := doJSON(r, "POST", "/toko/1/cart/items", "dev-1", map[string]interface{}{"menu_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(r, "POST", "/toko/1/orders", "dev-1", map[string]interface{}{
		"table_number":   "3",
		"customer_name":  "Ani",
		"customer_phone": "0811222333",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	order := parseBody(t, w)["data"].(map[string]interface{})["order"].(map[string]interface{})
	orderID := int(order["id"].(float64))

	// Badge kasir: satu pesanan pending
	w = doAuthJSON(r, "GET", "/admin/toko/1/orders/pending-count", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	count := parseBody(t, w)["data"].(map[string]interface{})["count"]
	assert.Equal(t, float64(1), count)

	w = doAuthJSON(r, "PATCH", fmt.Sprintf("/admin/orders/%d/status", orderID), token, map[string]interface{}{
		"status": "paid",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := parseBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "paid", updated["status"])
	assert.NotEmpty(t, updated["paid_at"])

	w = doAuthJSON(r, "GET", "/admin/toko/1/orders/pending-count", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	count = parseBody(t, w)["data"].(map[string]interface{})["count"]
	assert.Equal(t, float64(0), count)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	seedToko(t, db)
	r := setupRouterForTest(db)
	token := registerKasir(t, r)

	w := doAuthJSON(r, "PATCH", "/admin/orders/1/status", token, map[string]interface{}{
		"status": "terbang",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatusNeedsAuth(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	w := doJSON(r, "PATCH", "/admin/orders/1/status", "", map[string]interface{}{
		"status": "paid",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
