package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateSessionToken membuat token session yang tidak bisa ditebak.
// Format: sess_<uuid tanpa strip><unix hex> agar mudah dikenali di log.
func GenerateSessionToken() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("sess_%s%s", id, strings.ToLower(fmt.Sprintf("%x", time.Now().Unix())))
}

// GenerateCartLineID membuat ID unik untuk baris cart dari menu + variasi.
func GenerateCartLineID(menuID uint, variasiID *uint) string {
	if variasiID != nil {
		return fmt.Sprintf("%d-%d", menuID, *variasiID)
	}
	return fmt.Sprintf("%d", menuID)
}
