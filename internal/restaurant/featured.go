package restaurant

import "math/rand"

// Featured picks up to n restaurants in random order. The input is not
// modified. Selection varies per call; pass a seeded
// rng to make it repeatable.
func Featured(list []Restaurant, n int, rng *rand.Rand) []Restaurant {
	if n <= 0 || len(list) == 0 {
		return []Restaurant{}
	}

	shuffled := make([]Restaurant, len(list))
	copy(shuffled, list)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
