// Package cart menampung pilihan pelanggan yang belum di-checkout untuk
// satu device, di-namespace per toko dan dipersistenkan lewat KVStore.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/pricing"
	"github.com/prasetyawidi/meja-app/utils"
)

var (
	ErrMenuNotAvailable = errors.New("cart: menu tidak tersedia")
	ErrLineNotFound     = errors.New("cart: baris tidak ditemukan")
)

// Line adalah satu baris cart. Field harga adalah snapshot saat
// ditambahkan dan TIDAK dihitung ulang walau menu berubah di tengah
// sesi; qty bertambah tanpa menyentuh snapshot.
type Line struct {
	LineID             string  `json:"line_id"`
	MenuID             uint    `json:"menu_id"`
	VariasiID          *uint   `json:"variasi_id,omitempty"`
	MenuName           string  `json:"menu_name"`
	VariasiName        *string `json:"variasi_name,omitempty"`
	Quantity           int     `json:"quantity"`
	BasePrice          int64   `json:"base_price"`
	VariasiDelta       int64   `json:"variasi_delta"`
	DiscountPercentage int64   `json:"discount_percentage"`
	OriginalPrice      int64   `json:"original_price"`
	DiscountAmount     int64   `json:"discount_amount"`
	FinalPrice         int64   `json:"final_price"`
	Notes              string  `json:"notes"`
}

// Totals adalah agregat cart setelah pipeline diskon lengkap.
type Totals struct {
	pricing.CartTotals
	GlobalDiscountAmount int64 `json:"global_discount_amount"`
	SubtotalAfterGlobal  int64 `json:"subtotal_after_global"`
}

// Store memegang cart satu device untuk satu toko. Semua mutasi
// dilindungi satu mutex dan selalu diturunkan dari state terakhir yang
// tersimpan, jadi dua addItem beruntun tidak saling menimpa.
type Store struct {
	mu     sync.Mutex
	kv     KVStore
	tokoID uint
	lines  []Line
	loaded bool
}

func NewStore(kv KVStore, tokoID uint) *Store {
	return &Store{kv: kv, tokoID: tokoID}
}

func (s *Store) storageKey() string {
	return fmt.Sprintf("restaurant_cart_%d", s.tokoID)
}

// load membaca cart dari KV sekali; cart korup dibuang, bukan bikin crash.
func (s *Store) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	raw, ok, err := s.kv.Get(ctx, s.storageKey())
	if err != nil {
		return err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.lines); err != nil {
			utils.ErrorLogger.Printf("cart: data tersimpan korup, reset: %v", err)
			s.lines = nil
		}
	}
	s.loaded = true
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.lines)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.storageKey(), string(raw))
}

// AddItem menambahkan menu (plus variasi opsional) ke cart. Kalau baris
// dengan kunci komposit (menu, variasi) sudah ada, qty naik 1 dan
// snapshot harga dipertahankan. Kalau belum, baris baru dibuat dengan
// snapshot harga lewat pricing engine.
func (s *Store) AddItem(ctx context.Context, menu models.Menu, variasi *models.MenuVariasi) (Line, error) {
	if !menu.IsAvailable {
		return Line{}, ErrMenuNotAvailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return Line{}, err
	}

	var variasiID *uint
	var variasiName *string
	var variasiDelta int64
	if variasi != nil {
		variasiID = &variasi.ID
		variasiName = &variasi.Nama
		variasiDelta = variasi.HargaTambahan
	}

	lineID := utils.GenerateCartLineID(menu.ID, variasiID)
	for i := range s.lines {
		if s.lines[i].LineID == lineID {
			s.lines[i].Quantity++
			if err := s.persist(ctx); err != nil {
				return Line{}, err
			}
			return s.lines[i], nil
		}
	}

	lp, err := pricing.ComputeLinePrice(menu.Harga, variasiDelta, menu.DiscountPercentage)
	if err != nil {
		return Line{}, err
	}

	line := Line{
		LineID:             lineID,
		MenuID:             menu.ID,
		VariasiID:          variasiID,
		MenuName:           menu.Nama,
		VariasiName:        variasiName,
		Quantity:           1,
		BasePrice:          menu.Harga,
		VariasiDelta:       variasiDelta,
		DiscountPercentage: menu.DiscountPercentage,
		OriginalPrice:      lp.OriginalPrice,
		DiscountAmount:     lp.DiscountAmount,
		FinalPrice:         lp.FinalPrice,
	}
	s.lines = append(s.lines, line)
	if err := s.persist(ctx); err != nil {
		return Line{}, err
	}
	return line, nil
}

// UpdateQuantity mengubah qty satu baris; qty <= 0 sama dengan RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, qty int) error {
	if qty <= 0 {
		return s.RemoveItem(ctx, lineID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return err
	}

	for i := range s.lines {
		if s.lines[i].LineID == lineID {
			s.lines[i].Quantity = qty
			return s.persist(ctx)
		}
	}
	return ErrLineNotFound
}

func (s *Store) RemoveItem(ctx context.Context, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return err
	}

	next := s.lines[:0]
	found := false
	for _, line := range s.lines {
		if line.LineID == lineID {
			found = true
			continue
		}
		next = append(next, line)
	}
	if !found {
		return ErrLineNotFound
	}
	s.lines = next
	return s.persist(ctx)
}

// Clear mengosongkan cart, dipanggil setelah checkout sukses.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.loaded = true
	return s.kv.Delete(ctx, s.storageKey())
}

// Lines mengembalikan salinan baris cart saat ini.
func (s *Store) Lines(ctx context.Context) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

// Totals mendelegasikan ke pricing engine dengan diskon global toko aktif.
func (s *Store) Totals(ctx context.Context, gd models.GlobalDiscount) (Totals, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return Totals{}, err
	}

	priced := make([]pricing.CartLine, len(lines))
	for i, line := range lines {
		priced[i] = pricing.CartLine{
			Quantity:      line.Quantity,
			OriginalPrice: line.OriginalPrice,
			FinalPrice:    line.FinalPrice,
		}
	}

	cartTotals, err := pricing.ComputeCartTotals(priced)
	if err != nil {
		return Totals{}, err
	}
	gdRes, err := pricing.ApplyGlobalDiscount(cartTotals.SubtotalFinal, gd)
	if err != nil {
		return Totals{}, err
	}

	return Totals{
		CartTotals:           cartTotals,
		GlobalDiscountAmount: gdRes.GlobalDiscountAmount,
		SubtotalAfterGlobal:  gdRes.SubtotalAfterGlobal,
	}, nil
}
