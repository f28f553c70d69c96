package helpers

func Float64Pointer(f float64) *float64 {
	return &f
}

func IntPointer(i int) *int {
	return &i
}

func Int64Pointer(i int64) *int64 {
	return &i
}

func StringPointer(s string) *string {
	return &s
}

// Deref returns the pointed-to value, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
