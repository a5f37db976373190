package cart

import "context"

// PrefixKV membungkus KVStore lain dengan prefix key, dipakai untuk
// memberi tiap device namespace sendiri di penyimpanan bersama (Redis).
// Key yang dilihat core tetap ber-namespace toko; prefix device
// ditambahkan transparan di lapisan ini.
type PrefixKV struct {
	inner  KVStore
	prefix string
}

func NewPrefixKV(inner KVStore, prefix string) *PrefixKV {
	return &PrefixKV{inner: inner, prefix: prefix}
}

func (p *PrefixKV) Get(ctx context.Context, key string) (string, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *PrefixKV) Set(ctx context.Context, key, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *PrefixKV) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}
