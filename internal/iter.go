package internal

import (
	"iter"
	"slices"
)

// Permutations yields every ordering of values, in lexicographic index order.
// The yielded slice is reused between iterations; clone it to keep it.
func Permutations[T any](values []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		n := len(values)
		index := make([]int, n)
		for i := range index {
			index[i] = i
		}
		perm := make([]T, n)

		for {
			for i, j := range index {
				perm[i] = values[j]
			}
			if !yield(perm) {
				return
			}

			// Next permutation of the index vector.
			i := n - 2
			for i >= 0 && index[i] >= index[i+1] {
				i--
			}
			if i < 0 {
				return
			}
			j := n - 1
			for index[j] <= index[i] {
				j--
			}
			index[i], index[j] = index[j], index[i]
			slices.Reverse(index[i+1:])
		}
	}
}

// Factorial returns n!, the number of orderings Permutations yields for n values.
func Factorial(n int) (count int) {
	count = 1
	for i := 2; i <= n; i++ {
		count *= i
	}
	return
}
