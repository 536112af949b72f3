// Package hashdict recovers plaintext category values hidden behind
// one-way digests in workflow criteria. The plaintext universe is small
// and known (country codes, administrative regions, a field's own option
// list), so resolution is a bounded dictionary build plus a lookup, not
// cryptanalysis.
package hashdict

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// Entry records where a digest came from: the vocabulary key, its display
// value, and which casing/format variant produced the digest.
type Entry struct {
	Key     string
	Value   string
	Variant string
}

// Dictionary maps lowercase hex digests to their plaintext entries.
// Immutable once built.
type Dictionary struct {
	entries map[string]Entry
}

// Digest computes the one-way digest used by the vendor export: SHA-256,
// lowercase hex.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Variants returns the casing/format variants hashed for one plaintext:
// original, lower and upper case, plus a space-stripped form of each for
// multi-word values. Duplicates are removed, order preserved.
func Variants(s string) []string {
	candidates := []string{s, strings.ToLower(s), strings.ToUpper(s)}
	if strings.Contains(s, " ") {
		for _, c := range []string{s, strings.ToLower(s), strings.ToUpper(s)} {
			candidates = append(candidates, strings.ReplaceAll(c, " ", ""))
		}
	}
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Build hashes every variant of every (key, value) pair in the vocabulary.
// Each pair hashes independently, so the work fans out across goroutines;
// writes land on disjoint digests and only the map insert is guarded.
func Build(vocab map[string]string) *Dictionary {
	d := &Dictionary{entries: make(map[string]Entry, len(vocab)*4)}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for key, value := range vocab {
		wg.Add(1)
		go func(key, value string) {
			defer wg.Done()
			local := map[string]Entry{}
			for _, plain := range []string{key, value} {
				for _, v := range Variants(plain) {
					local[Digest(v)] = Entry{Key: key, Value: value, Variant: v}
				}
			}
			mu.Lock()
			for digest, e := range local {
				if _, taken := d.entries[digest]; !taken {
					d.entries[digest] = e
				}
			}
			mu.Unlock()
		}(key, value)
	}
	wg.Wait()
	return d
}

// Resolve looks a digest up. The digest may be any hex casing.
func (d *Dictionary) Resolve(digest string) (Entry, bool) {
	e, ok := d.entries[strings.ToLower(digest)]
	return e, ok
}

// Len reports how many distinct digests the dictionary holds.
func (d *Dictionary) Len() int {
	return len(d.entries)
}
