package middlewares

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders dipakai untuk API JSON + endpoint websocket. Tidak
// ada halaman HTML yang disajikan dari sini, jadi CSP menutup semua
// sumber; halaman pemesan hanya butuh fetch dan ws ke origin ini.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'none'; connect-src 'self' ws: wss:; frame-ancestors 'none'")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		c.Next()
	}
}
