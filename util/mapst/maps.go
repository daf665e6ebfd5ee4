package mapst

// Each

func Each[K comparable, V any, M ~map[K]V](m M, fn func(K, V)) {
	for k, v := range m {
		fn(k, v)
	}
}

// Keys returns the keys of m in unspecified order.
func Keys[K comparable, V any, M ~map[K]V](m M) []K {
	result := make([]K, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	return result
}
