package controllers

// CustomError untuk pesan error yang aman ditampilkan ke client.
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrInvalidTokoID   = &CustomError{"toko_id tidak valid"}
	ErrMissingDeviceID = &CustomError{"header X-Device-ID wajib diisi"}
	ErrNoActiveSession = &CustomError{"tidak ada session aktif"}
	ErrNoPermission    = &CustomError{"anda tidak punya akses"}
)
