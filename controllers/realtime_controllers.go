package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/realtime"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dibatasi di middleware CORS
	},
}

type RealtimeController struct {
	Hub    *realtime.Hub
	Orders repository.OrderRepository
}

func NewRealtimeController(hub *realtime.Hub, orders repository.OrderRepository) *RealtimeController {
	return &RealtimeController{Hub: hub, Orders: orders}
}

// Subscribe -> endpoint WebSocket per toko. Pesan pertama selalu
// initial_data (snapshot pesanan session bila session_token dikirim),
// setelah itu stream event inkremental dari change monitor.
// Endpoint: GET /toko/:toko_id/realtime?session_token=<token>
func (rc *RealtimeController) Subscribe(c *gin.Context) {
	tokoID, ok := parseTokoID(c)
	if !ok {
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	var orders []models.Order
	if token := c.Query("session_token"); token != "" {
		orders, err = rc.Orders.GetOrdersBySessionToken(c.Request.Context(), token)
		if err != nil {
			utils.ErrorLogger.Printf("realtime: snapshot awal session gagal: %v", err)
			orders = nil
		}
	}

	if err := rc.Hub.Send(ws, realtime.NewInitialData(gin.H{"orders": orders})); err != nil {
		ws.Close()
		return
	}

	rc.Hub.Register(ws, tokoID)

	// Baca terus untuk mendeteksi disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	rc.Hub.Unregister(ws)
}
