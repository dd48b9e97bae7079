package memstore

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Makepad-fr/clientdash/internal/model"
)

// DefaultSeedCount is the number of clients generated when no seed file is given.
const DefaultSeedCount = 20

var seedNames = []string{
	"Jean Dupont", "Marie Martin", "Pierre Bernard", "Sophie Dubois",
	"Luc Moreau", "Emma Laurent", "Thomas Simon", "Julie Michel",
	"Antoine Roux", "Camille Fournier", "Nicolas Girard", "Léa Bonnet",
	"Alexandre Leroy", "Chloé Martinez", "Maxime Garcia", "Manon Rodriguez",
}

// Generate returns n synthetic clients with ids client-1..client-n, French
// mobile numbers, a random status and a creation date in the last 90 days.
// A nil rng uses a time-seeded source.
func Generate(n int, rng *rand.Rand, now time.Time) []model.Record {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), 0x5eed))
	}
	out := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Record{
			ID:          fmt.Sprintf("client-%d", i+1),
			PhoneNumber: RandomPhone(rng),
			Name:        seedNames[i%len(seedNames)],
			Status:      RandomStatus(rng),
			CreatedAt:   now.Add(-time.Duration(rng.Int64N(int64(90 * 24 * time.Hour)))),
			UpdatedAt:   now,
		})
	}
	return out
}

// RandomPhone returns a "+33" number with nine digits.
func RandomPhone(rng *rand.Rand) string {
	return fmt.Sprintf("+33%d", rng.IntN(900000000)+100000000)
}

// RandomStatus picks pending or confirmed with equal odds.
func RandomStatus(rng *rand.Rand) model.Status {
	if rng.IntN(2) == 0 {
		return model.StatusPending
	}
	return model.StatusConfirmed
}

// RandomName picks one of the seed names.
func RandomName(rng *rand.Rand) string {
	return seedNames[rng.IntN(len(seedNames))]
}
