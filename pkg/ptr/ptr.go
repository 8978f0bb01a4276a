package ptr

// Ptr возвращает указатель на переданное значение
// Удобно для заполнения опциональных полей: ptr.Ptr(int64(42))
func Ptr[T any](v T) *T {
	return &v
}
