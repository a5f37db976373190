package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRestaurantData(t *testing.T) {
	db := setupTestDB(t)
	seedToko(t, db)
	r := setupRouterForTest(db)

	w := doJSON(r, "GET", "/toko/1/restaurant", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := parseBody(t, w)
	assert.Equal(t, "Data restoran", resp["message"])

	data := resp["data"].(map[string]interface{})
	toko := data["toko"].(map[string]interface{})
	assert.Equal(t, "Warung Tester", toko["nama"])

	menu := data["menu"].([]interface{})
	require.Len(t, menu, 1)
	first := menu[0].(map[string]interface{})
	assert.Equal(t, "Nasi Goreng Spesial", first["nama"])

	variasi := first["variasi"].([]interface{})
	require.Len(t, variasi, 1)
}

func TestGetRestaurantDataDemoFallback(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	// Toko tidak ada -> payload demo, bukan 404
	w := doJSON(r, "GET", "/toko/42/restaurant", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := parseBody(t, w)
	assert.Equal(t, "Data restoran (demo)", resp["message"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, true, data["demo"])
	toko := data["toko"].(map[string]interface{})
	assert.Equal(t, "Warung Demo", toko["nama"])
}

func TestGetRestaurantDataInvalidTokoID(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	for _, path := range []string{"/toko/0/restaurant", "/toko/abc/restaurant"} {
		w := doJSON(r, "GET", path, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestGetMenus(t *testing.T) {
	db := setupTestDB(t)
	seedToko(t, db)
	r := setupRouterForTest(db)

	w := doJSON(r, "GET", "/toko/1/menu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := parseBody(t, w)
	menus := resp["data"].([]interface{})
	require.Len(t, menus, 1)
}
