package transactions

import "math/rand/v2"

// Demo identity pool; a production deployment injects a real lookup.
var defaultNamePool = []string{
	"Muhammad Syahmi Afif 050512070895",
	"Muhammad Nur Hakim 050316107837",
	"Muhammad Kurt Danial 050809109543",
	"Zahin Al-Bakry 001210017841",
	"Aishah Nabila 030420109844",
}

// PooledNameLookup returns a NameLookup that picks a display name
// uniformly at random from a small fixed pool.
func PooledNameLookup() NameLookup {
	return func(string) string {
		return defaultNamePool[rand.IntN(len(defaultNamePool))]
	}
}
