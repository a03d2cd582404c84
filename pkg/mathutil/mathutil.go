// Package mathutil holds integer helpers shared by the puzzle solvers.
package mathutil

// Integer constrains the integer types the helpers operate on.
type Integer interface {
	~int | ~int64
}

// Abs returns the absolute value of v.
func Abs[T Integer](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// GCD returns the greatest common divisor of a and b.
func GCD[T Integer](a, b T) T {
	a, b = Abs(a), Abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b.
func LCM[T Integer](a, b T) T {
	if a == 0 || b == 0 {
		return 0
	}
	return Abs(a/GCD(a, b)*b)
}

// Permutations returns every ordering of items. The input slice is left
// unmodified. Heap's algorithm.
func Permutations[T any](items []T) [][]T {
	n := len(items)
	if n == 0 {
		return nil
	}

	buf := make([]T, n)
	copy(buf, items)

	var out [][]T
	var generate func(k int)
	generate = func(k int) {
		if k == 1 {
			perm := make([]T, n)
			copy(perm, buf)
			out = append(out, perm)
			return
		}
		for i := 0; i < k; i++ {
			generate(k - 1)
			if k%2 == 0 {
				buf[i], buf[k-1] = buf[k-1], buf[i]
			} else {
				buf[0], buf[k-1] = buf[k-1], buf[0]
			}
		}
	}
	generate(n)
	return out
}
