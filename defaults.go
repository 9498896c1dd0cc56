package revtext

const (
	defaultMaxInput = 16 << 20
	defaultMaxAlloc = 64 << 20
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// limit maps the Options convention (0 => def, <0 => unlimited) to a bound
// where 0 means unlimited.
func limit(v, def int) int {
	if v < 0 {
		return 0
	}
	return coalesce(v, def)
}
