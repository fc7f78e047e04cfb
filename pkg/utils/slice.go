package utils

// FilterSlice maps every element through f, keeping the results f accepts.
func FilterSlice[S any, T any](items []S, f func(S) (T, bool)) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if v, ok := f(item); ok {
			out = append(out, v)
		}
	}
	return out
}

// Or returns the first non-zero value.
func Or[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// SafeValue dereferences p, falling back to the zero value.
func SafeValue[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
