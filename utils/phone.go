package utils

import "strings"

// NormalizePhone menyamakan format nomor HP ke +62.
// 0822535033   -> +62822535033
// 62822535033  -> +62822535033
// +62822535033 -> +62822535033 (tidak berubah)
// Idempoten: NormalizePhone(NormalizePhone(x)) == NormalizePhone(x).
func NormalizePhone(phone string) string {
	if phone == "" {
		return phone
	}

	// Buang semua karakter selain digit dan +
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	switch {
	case strings.HasPrefix(cleaned, "0"):
		return "+62" + cleaned[1:]
	case strings.HasPrefix(cleaned, "+62"):
		return cleaned
	case strings.HasPrefix(cleaned, "62"):
		return "+" + cleaned
	case !strings.HasPrefix(cleaned, "+"):
		// Nomor lokal 10-11 digit dianggap nomor Indonesia
		if len(cleaned) >= 10 && len(cleaned) <= 11 {
			return "+62" + cleaned
		}
		return "+" + cleaned
	}

	return cleaned
}

// LegacyPhone mengembalikan format lama 08xx dari nomor +62 untuk
// lookup backward-compatible terhadap baris pelanggan lama.
func LegacyPhone(normalized string) string {
	if strings.HasPrefix(normalized, "+62") {
		return "0" + normalized[3:]
	}
	return normalized
}
