package slicest

// Conversion

func ToMap[T any, K comparable, V any, S ~[]T](s S, fn func(T) (K, V)) map[K]V {
	result := make(map[K]V, len(s))
	for _, t := range s {
		k, v := fn(t)
		result[k] = v
	}
	return result
}

// Map

// Map converts slice S of T into a slice of U.
func Map[T, U any, S ~[]T](s S, fn func(T) U) []U {
	result, _ := MapX(s, func(t T) (U, error) {
		return fn(t), nil
	})
	return result
}

// MapX converts slice S of T into a slice of U with error propagation.
// - X: Stops on failure and returns error.
func MapX[T, U any, S ~[]T](s S, fn func(T) (U, error)) ([]U, error) {
	if len(s) == 0 {
		return nil, nil
	}
	result := make([]U, 0, len(s))
	for _, t := range s {
		u, err := fn(t)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, nil
}

// Filter returns the elements of s for which fn reports true.
func Filter[T any, S ~[]T](s S, fn func(T) bool) S {
	var result S
	for _, t := range s {
		if fn(t) {
			result = append(result, t)
		}
	}
	return result
}
