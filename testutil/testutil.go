package testutil

import (
	"encoding/hex"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Indices returns 12 word indices drawn uniformly from [0, 2047].
// Repeats are allowed.
func (r *RNG) Indices() [12]uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out [12]uint16
	for i := range out {
		out[i] = uint16(r.rand.Intn(2048))
	}
	return out
}

// Distinct returns n distinct word indices in random order.
func (r *RNG) Distinct(n int) []uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	perm := r.rand.Perm(2048)
	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(perm[i])
	}
	return out
}

// Shuffle returns a shuffled copy of src.
func (r *RNG) Shuffle(src []uint16) []uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := append([]uint16(nil), src...)
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Vector is a published mnemonic/seed pair.
type Vector struct {
	Mnemonic   string
	Passphrase string
	Seed       string // hex
}

// SeedBytes decodes the hex seed. It panics on malformed test data.
func (v Vector) SeedBytes() []byte {
	b, err := hex.DecodeString(v.Seed)
	if err != nil {
		panic(err)
	}
	return b
}

// TrezorVectors are the 12-word entries of the reference BIP39 test vectors.
var TrezorVectors = []Vector{
	{
		Mnemonic:   "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
		Passphrase: "TREZOR",
		Seed:       "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
	},
	{
		Mnemonic:   "legal winner thank year wave sausage worth useful legal winner thank yellow",
		Passphrase: "TREZOR",
		Seed:       "2e8905819b8723fe2c1d161860e5ee1830318dbf49a83bd451cfb8440c28bd6fa457fe1296106559a3c80937a1c1069be3a3a5bd381ee6260e8d9739fce1f607",
	},
	{
		Mnemonic:   "letter advice cage absurd amount doctor acoustic avoid letter advice cage above",
		Passphrase: "TREZOR",
		Seed:       "d71de856f81a8acc65e6fc851a38d4d7ec216fd0796d0a6827a3ad6ed5511a30fa280f12eb2e47ed2ac03b5c462a0358d18d69fe4f985ec81778c1b370b652a8",
	},
	{
		Mnemonic:   "zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong",
		Passphrase: "TREZOR",
		Seed:       "ac27495480225222079d7be181583751e86f571027b0497b5b5d11218e0a8a13332572917f0f8e5a589620c6f15b11c61dee327651a14c34e18231052e48c069",
	},
}

// AbandonAbout is the all-zero-entropy mnemonic as word indices.
var AbandonAbout = [12]uint16{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3}

// AbandonAboutChainCode is the second half of HMAC-SHA512("Bitcoin seed", seed)
// for AbandonAbout with an empty passphrase.
const AbandonAboutChainCode = "7923408dadd3c7b56eed15567707ae5e5dca089de972e07f3b860450e2a3b70e"

// MustHex decodes s or panics.
func MustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
