package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/prasetyawidi/meja-app/utils"
)

// OrderEvent dikirim ke topik notifikasi setiap kali pesanan masuk atau
// berubah status; dikonsumsi service notifikasi kasir/dapur terpisah.
type OrderEvent struct {
	Type        string    `json:"type"`
	TokoID      uint      `json:"toko_id"`
	OrderID     uint      `json:"order_id"`
	TableNumber string    `json:"table_number"`
	Status      string    `json:"status"`
	Total       int64     `json:"total"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventSessionClosed      = "session_closed"
)

// NotificationSink menerima event pesanan. Semua publish best-effort:
// kegagalan dicatat, tidak pernah menggagalkan alur pemanggil.
type NotificationSink interface {
	Publish(ctx context.Context, event OrderEvent)
}

// KafkaSink menulis event ke satu topik, key per toko supaya event satu
// toko tetap berurutan di satu partisi.
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (s *KafkaSink) Publish(ctx context.Context, event OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		utils.ErrorLogger.Printf("notifikasi: marshal event gagal: %v", err)
		return
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("toko-%d", event.TokoID)),
		Value: payload,
	})
	if err != nil {
		utils.ErrorLogger.Printf("notifikasi: publish %s pesanan %d gagal: %v", event.Type, event.OrderID, err)
	}
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// NopSink dipakai saat broker tidak dikonfigurasi dan di test.
type NopSink struct{}

func (NopSink) Publish(context.Context, OrderEvent) {}
