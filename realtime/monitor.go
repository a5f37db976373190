package realtime

import (
	"time"

	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/utils"
)

// ChangeMonitor mem-poll tabel db_changes (diisi trigger database) dan
// menyiarkan tiap baris baru ke hub. Polling dipilih alih-alih listen
// notifikasi native supaya jalan sama di MySQL dan sqlite.
type ChangeMonitor struct {
	DB       *gorm.DB
	Hub      *Hub
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB, hub *Hub) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		Hub:      hub,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.CheckChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

// CheckChanges memproses batch perubahan yang belum diproses, urut
// waktu. Satu transaksi per batch supaya dua instance monitor tidak
// memproses baris yang sama dua kali.
func (cm *ChangeMonitor) CheckChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("realtime monitor: ambil perubahan gagal: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "pesanan_online":
			cm.processOrderChange(change)
		case "kitchen_queue":
			cm.processKitchenChange(change)
		case "customer_sessions":
			cm.processSessionChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("realtime monitor: tandai processed gagal: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("realtime monitor: commit gagal: %v", err)
		tx.Rollback()
	}
}

func (cm *ChangeMonitor) processOrderChange(change models.DBChange) {
	// Pesanan tidak pernah dihapus di alur normal; baris DELETE diabaikan.
	if change.ActionType == ActionDelete {
		return
	}

	var order models.Order
	if err := cm.DB.Preload("Items").First(&order, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("realtime monitor: ambil pesanan %d gagal: %v", change.RecordID, err)
		return
	}
	cm.Hub.Broadcast(order.TokoID, ChangeEvent{
		EventType: change.ActionType,
		Table:     change.TableName,
		New:       order,
	})
}

func (cm *ChangeMonitor) processKitchenChange(change models.DBChange) {
	if change.ActionType == ActionDelete {
		return
	}

	var queue models.KitchenQueue
	if err := cm.DB.Preload("Items").First(&queue, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("realtime monitor: ambil kitchen queue %d gagal: %v", change.RecordID, err)
		return
	}
	cm.Hub.Broadcast(queue.TokoID, ChangeEvent{
		EventType: change.ActionType,
		Table:     change.TableName,
		New:       queue,
	})
}

func (cm *ChangeMonitor) processSessionChange(change models.DBChange) {
	if change.ActionType == ActionDelete {
		return
	}

	var sess models.CustomerSession
	if err := cm.DB.First(&sess, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("realtime monitor: ambil session %d gagal: %v", change.RecordID, err)
		return
	}
	cm.Hub.Broadcast(sess.TokoID, ChangeEvent{
		EventType: change.ActionType,
		Table:     change.TableName,
		New:       sess,
	})
}
