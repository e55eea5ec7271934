package game

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

func seededRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// featureRoll returns a deterministic [0,1) manifestation roll for one
// feature on one batch in one week. Same seed, same week, same answer.
func featureRoll(seed int64, batchID, featureID string, week int) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s:%s:%d:feature", seed, batchID, featureID, week)))
	return float64(h.Sum64()>>11) / float64(uint64(1)<<53)
}
