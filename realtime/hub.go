// Package realtime menyiarkan perubahan data (pesanan, kitchen queue,
// session) ke client websocket per toko.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/prasetyawidi/meja-app/utils"
)

// Tipe aksi mengikuti isi kolom action_type di db_changes.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// ChangeEvent adalah satu event inkremental yang dikirim ke subscriber
// setelah initial_data.
type ChangeEvent struct {
	EventType string      `json:"eventType"`
	Table     string      `json:"table"`
	New       interface{} `json:"new,omitempty"`
	Old       interface{} `json:"old,omitempty"`
}

// InitialData adalah pesan pertama di setiap koneksi: snapshot penuh
// sebelum stream inkremental dimulai.
type InitialData struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewInitialData(data interface{}) InitialData {
	return InitialData{Type: "initial_data", Data: data}
}

// Hub menampung seluruh koneksi subscriber, di-key tokoID supaya event
// satu toko tidak bocor ke toko lain.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]uint
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]uint)}
}

// Register menambahkan koneksi untuk satu toko.
func (h *Hub) Register(conn *websocket.Conn, tokoID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = tokoID
}

// Unregister melepaskan dan menutup koneksi.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// ClientCount mengembalikan jumlah subscriber aktif (dipakai test).
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Send mengirim satu payload ke satu koneksi (initial_data).
func (h *Hub) Send(conn *websocket.Conn, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Broadcast mengirim event ke semua subscriber toko tersebut. Koneksi
// yang gagal ditulis dilepaskan; client akan reconnect dan mendapat
// initial_data baru.
func (h *Hub) Broadcast(tokoID uint, event ChangeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		utils.ErrorLogger.Printf("realtime: marshal event gagal: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, id := range h.clients {
		if id != tokoID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("realtime: tulis ke client gagal, lepaskan: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
