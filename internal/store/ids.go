package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// NextID returns a fresh id with the given prefix ("chk", "item") that does
// not collide with any existing checklist or item id.
func (db *DB) NextID(prefix string) string {
	for i := 0; i < 10; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !db.idExists(id) {
			return id
		}
	}
	// Extremely unlikely fallback: extend until unique.
	n := len(db.Checklists)
	for {
		id := fmt.Sprintf("%s-seq-%d", prefix, n)
		if !db.idExists(id) {
			return id
		}
		n++
	}
}

func (db *DB) idExists(id string) bool {
	for i := range db.Checklists {
		if db.Checklists[i].ID == id {
			return true
		}
		for _, it := range db.Checklists[i].Items {
			if it.ID == id {
				return true
			}
		}
	}
	return false
}
