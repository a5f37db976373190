// Package pricing berisi perhitungan harga murni untuk cart dan pesanan.
// Semua nominal dalam satuan rupiah penuh (integer), tanpa floating point,
// supaya total selalu rekonsil persis.
package pricing

import (
	"errors"

	"github.com/prasetyawidi/meja-app/models"
)

// ErrInvalidInput dikembalikan untuk qty negatif, harga negatif, atau
// persentase diskon di luar 0-100. Input buruk ditolak, bukan di-clamp.
var ErrInvalidInput = errors.New("pricing: input tidak valid")

// LinePrice adalah hasil perhitungan harga satu baris.
type LinePrice struct {
	OriginalPrice  int64 `json:"original_price"`
	DiscountAmount int64 `json:"discount_amount"`
	FinalPrice     int64 `json:"final_price"`
}

// CartLine adalah input agregasi: harga snapshot per unit + qty.
type CartLine struct {
	Quantity      int
	OriginalPrice int64
	FinalPrice    int64
}

// CartTotals adalah agregat seluruh baris cart SEBELUM diskon global.
type CartTotals struct {
	ItemCount         int   `json:"item_count"`
	SubtotalFinal     int64 `json:"subtotal_final"`
	SubtotalOriginal  int64 `json:"subtotal_original"`
	TotalItemDiscount int64 `json:"total_item_discount"`
}

// GlobalDiscountResult adalah hasil penerapan diskon global pada subtotal.
type GlobalDiscountResult struct {
	GlobalDiscountAmount int64 `json:"global_discount_amount"`
	SubtotalAfterGlobal  int64 `json:"subtotal_after_global"`
}

// roundPercent menghitung round-half-up dari amount x pct / 100
// dengan aritmatika integer. Hanya valid untuk amount >= 0.
func roundPercent(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}

// ComputeLinePrice menghitung harga satu baris: harga asli = base + variasi,
// diskon item dibulatkan half-up, harga final = asli - diskon.
// Untuk pct dalam [0,100] dijamin 0 <= FinalPrice <= OriginalPrice.
func ComputeLinePrice(basePrice, variasiDelta, discountPercentage int64) (LinePrice, error) {
	if basePrice < 0 || variasiDelta < 0 {
		return LinePrice{}, ErrInvalidInput
	}
	if discountPercentage < 0 || discountPercentage > 100 {
		return LinePrice{}, ErrInvalidInput
	}

	original := basePrice + variasiDelta
	discount := roundPercent(original, discountPercentage)

	return LinePrice{
		OriginalPrice:  original,
		DiscountAmount: discount,
		FinalPrice:     original - discount,
	}, nil
}

// ComputeCartTotals menjumlahkan seluruh baris cart.
// Invariant: SubtotalOriginal - SubtotalFinal == TotalItemDiscount.
func ComputeCartTotals(lines []CartLine) (CartTotals, error) {
	var totals CartTotals
	for _, line := range lines {
		if line.Quantity < 0 || line.OriginalPrice < 0 || line.FinalPrice < 0 {
			return CartTotals{}, ErrInvalidInput
		}
		qty := int64(line.Quantity)
		totals.ItemCount += line.Quantity
		totals.SubtotalFinal += line.FinalPrice * qty
		totals.SubtotalOriginal += line.OriginalPrice * qty
	}
	totals.TotalItemDiscount = totals.SubtotalOriginal - totals.SubtotalFinal
	return totals, nil
}

// ApplyGlobalDiscount menerapkan diskon global SEKALI pada subtotal yang
// sudah kena diskon item. Urutan ini (diskon item dulu, baru global) tidak
// boleh dibalik; membaliknya mengubah total.
func ApplyGlobalDiscount(subtotalFinal int64, gd models.GlobalDiscount) (GlobalDiscountResult, error) {
	if subtotalFinal < 0 {
		return GlobalDiscountResult{}, ErrInvalidInput
	}
	if !gd.Enabled || gd.Percentage <= 0 {
		return GlobalDiscountResult{
			GlobalDiscountAmount: 0,
			SubtotalAfterGlobal:  subtotalFinal,
		}, nil
	}
	if gd.Percentage > 100 {
		return GlobalDiscountResult{}, ErrInvalidInput
	}

	amount := roundPercent(subtotalFinal, gd.Percentage)
	return GlobalDiscountResult{
		GlobalDiscountAmount: amount,
		SubtotalAfterGlobal:  subtotalFinal - amount,
	}, nil
}

// ComputeOrderTotal menambahkan admin fee (flat, tidak kena diskon).
func ComputeOrderTotal(subtotalAfterGlobal, adminFee int64) (int64, error) {
	if subtotalAfterGlobal < 0 || adminFee < 0 {
		return 0, ErrInvalidInput
	}
	return subtotalAfterGlobal + adminFee, nil
}
