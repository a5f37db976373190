package repository_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/utils"
)

func init() {
	utils.InitLogger()
}

var dbSeq atomic.Int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func migrateAdminFee(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.AutoMigrate(&models.Toko{}, &models.Setting{}))
}

func TestGetAdminFeeSpecialPerToko(t *testing.T) {
	db := openTestDB(t)
	migrateAdminFee(t, db)
	require.NoError(t, db.Create(&models.Toko{
		ID: 1, Nama: "Warung Tester",
		SpecialAdminFeeEnabled: true, AdminFee: 1500,
	}).Error)

	r := repository.NewAdminFeeResolver(db)
	assert.Equal(t, int64(1500), r.GetAdminFee(context.Background(), 1))
}

func TestGetAdminFeeGlobalSetting(t *testing.T) {
	db := openTestDB(t)
	migrateAdminFee(t, db)
	require.NoError(t, db.Create(&models.Toko{ID: 1, Nama: "Warung Tester"}).Error)
	require.NoError(t, db.Create(&models.Setting{SettingKey: "admin_fee", Value: "2000"}).Error)

	r := repository.NewAdminFeeResolver(db)
	assert.Equal(t, int64(2000), r.GetAdminFee(context.Background(), 1))
}

func TestGetAdminFeeFallsBackWhenLookupFails(t *testing.T) {
	// DB tanpa migrasi: query toko langsung error. Resolusi fee tidak
	// boleh mempropagasi error, hanya jatuh ke fallback 1000.
	db := openTestDB(t)

	r := repository.NewAdminFeeResolver(db)
	assert.Equal(t, repository.DefaultAdminFee, r.GetAdminFee(context.Background(), 1))
}

func TestGetAdminFeeFallsBackWhenSettingMissingOrInvalid(t *testing.T) {
	db := openTestDB(t)
	migrateAdminFee(t, db)
	require.NoError(t, db.Create(&models.Toko{ID: 1, Nama: "Warung Tester"}).Error)

	r := repository.NewAdminFeeResolver(db)

	// Tidak ada setting global sama sekali
	assert.Equal(t, repository.DefaultAdminFee, r.GetAdminFee(context.Background(), 1))

	// Nilai setting bukan angka
	require.NoError(t, db.Create(&models.Setting{SettingKey: "admin_fee", Value: "dua ribu"}).Error)
	assert.Equal(t, repository.DefaultAdminFee, r.GetAdminFee(context.Background(), 1))
}
