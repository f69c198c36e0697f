//go:build !race

package ewaste

func passwordHashCost() int {
	return 14
}
