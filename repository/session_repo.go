package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/utils"
)

var ErrSessionNotFound = errors.New("repository: session tidak ditemukan")

type GormSessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{DB: db}
}

// CreateSession membuat session aktif untuk (toko, meja) dengan pola
// lookup-before-create di dalam transaksi: kalau sudah ada yang aktif,
// session itu yang dikembalikan, bukan bikin duplikat.
func (r *GormSessionRepository) CreateSession(ctx context.Context, tokoID uint, tableNumber string, customerName, customerPhone *string) (*models.CustomerSession, error) {
	var session models.CustomerSession

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CustomerSession
		err := tx.Where("toko_id = ? AND table_number = ? AND status = ?",
			tokoID, tableNumber, models.SessionStatusActive).
			Order("created_at desc").
			First(&existing).Error
		if err == nil {
			session = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		session = models.CustomerSession{
			SessionToken:   utils.GenerateSessionToken(),
			TokoID:         tokoID,
			TableNumber:    tableNumber,
			CustomerName:   customerName,
			CustomerPhone:  customerPhone,
			Status:         models.SessionStatusActive,
			CreatedAt:      now,
			LastActivityAt: now,
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormSessionRepository) FindActiveSession(ctx context.Context, tokoID uint, tableNumber string) (*models.CustomerSession, error) {
	var session models.CustomerSession
	err := r.DB.WithContext(ctx).
		Where("toko_id = ? AND table_number = ? AND status = ?",
			tokoID, tableNumber, models.SessionStatusActive).
		Order("created_at desc").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionByToken hanya mengembalikan session yang masih aktif;
// token session yang sudah closed dianggap tidak ada.
func (r *GormSessionRepository) GetSessionByToken(ctx context.Context, token string) (*models.CustomerSession, error) {
	var session models.CustomerSession
	err := r.DB.WithContext(ctx).
		Where("session_token = ? AND status = ?", token, models.SessionStatusActive).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionAnyStatus dipakai rekonsiliasi close-bill, yang justru
// membaca session yang baru saja ditutup.
func (r *GormSessionRepository) GetSessionAnyStatus(ctx context.Context, token string) (*models.CustomerSession, error) {
	var session models.CustomerSession
	err := r.DB.WithContext(ctx).
		Where("session_token = ?", token).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormSessionRepository) UpdateSessionCustomerData(ctx context.Context, token, name, phone string) error {
	return r.DB.WithContext(ctx).
		Model(&models.CustomerSession{}).
		Where("session_token = ?", token).
		Updates(map[string]interface{}{
			"customer_name":    name,
			"customer_phone":   phone,
			"last_activity_at": time.Now(),
		}).Error
}

func (r *GormSessionRepository) TouchActivity(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).
		Model(&models.CustomerSession{}).
		Where("session_token = ?", token).
		Update("last_activity_at", time.Now()).Error
}

func (r *GormSessionRepository) CloseSession(ctx context.Context, token string) error {
	now := time.Now()
	result := r.DB.WithContext(ctx).
		Model(&models.CustomerSession{}).
		Where("session_token = ? AND status = ?", token, models.SessionStatusActive).
		Updates(map[string]interface{}{
			"status":    models.SessionStatusClosed,
			"closed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
