// Package identity computes the content fingerprints that identify source
// images across collections and runs.
//
// An identity depends only on the bytes of a file, never on its path or name,
// so the same photograph copied into two directories collapses to one
// identity. Identities double as the filename stem of rendered artifacts.
package identity

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// domainKey is the BLAKE3 key for image identities. Changing it changes every
// identity and therefore every artifact filename of existing galleries.
var domainKey = [32]byte{
	's', 't', 'a', 't', 'i', 'c', '-', 'g', 'a', 'l', 'l', 'e', 'r', 'y', '.',
	'i', 'm', 'a', 'g', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Of returns the identity of the given bytes.
func Of(data []byte) uint64 {
	h := newHasher()
	h.Write(data)
	return sum64(h)
}

// OfReader returns the identity of everything read from r.
func OfReader(r io.Reader) (uint64, error) {
	h := newHasher()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	return sum64(h), nil
}

// OfFile returns the identity of the file at path.
//
// A file that cannot be read has no identity and must not enter the gallery.
func OfFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("identify %s: %w", path, err)
	}
	defer f.Close()

	id, err := OfReader(f)
	if err != nil {
		return 0, fmt.Errorf("identify %s: %w", path, err)
	}
	return id, nil
}

func newHasher() *blake3.Hasher {
	// NewKeyed only fails for keys that are not 32 bytes long.
	h, err := blake3.NewKeyed(domainKey[:])
	if err != nil {
		panic("identity: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return h
}

func sum64(h *blake3.Hasher) uint64 {
	return binary.LittleEndian.Uint64(h.Sum(nil)[:8])
}
