// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with generic helpers
used when shaping query results.
*/
package slice

// Map maps a slice of type T to a slice of type U.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Unique returns input without repeated values, keeping first occurrences in order.
func Unique[T comparable](input []T) []T {
	if input == nil {
		return nil
	}

	seen := make(map[T]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		if _, found := seen[v]; found {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
