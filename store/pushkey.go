package store

import (
	"crypto/rand"
	"sync"
	"time"
)

// pushAlphabet is ASCII-ordered so that keys sort lexicographically in
// generation order.
const pushAlphabet = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// KeyGenerator produces 20-character push keys: 8 characters of millisecond
// timestamp followed by 12 characters of randomness. Keys generated in the
// same millisecond increment the random tail so ordering holds even then.
type KeyGenerator struct {
	mu       sync.Mutex
	lastMs   int64
	lastRand [12]byte
}

func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{}
}

func (g *KeyGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()
	if now == g.lastMs {
		// Same millisecond: bump the previous random tail.
		for i := len(g.lastRand) - 1; i >= 0; i-- {
			if g.lastRand[i] < 63 {
				g.lastRand[i]++
				break
			}
			g.lastRand[i] = 0
		}
	} else {
		var buf [12]byte
		if _, err := rand.Read(buf[:]); err != nil {
			panic("store: crypto/rand unavailable: " + err.Error())
		}
		for i, b := range buf {
			g.lastRand[i] = b & 63
		}
		g.lastMs = now
	}

	var key [20]byte
	ts := now
	for i := 7; i >= 0; i-- {
		key[i] = pushAlphabet[ts&63]
		ts >>= 6
	}
	for i, b := range g.lastRand {
		key[8+i] = pushAlphabet[b]
	}
	return string(key[:])
}
