package collection

import "errors"

// Books on the wire carry no stable identifier, so the store assigns each
// fetched book a Handle: generation in the high 32 bits, slot index in the
// low 32. Every successful load bumps the generation, which invalidates all
// handles minted against the previous snapshot. A stale handle fails loudly
// instead of silently matching a different book that happens to share title
// and author.

// Handle identifies one book within one loaded snapshot.
type Handle uint64

// ErrStaleHandle means the handle was minted against an older snapshot.
var ErrStaleHandle = errors.New("stale book handle: collection has been reloaded")

// ErrUnknownBackendID means the wire response carried no backend id for the
// book, so the mutation endpoint cannot be addressed.
var ErrUnknownBackendID = errors.New("backend did not supply an id for this book")

func makeHandle(generation uint32, index int) Handle {
	return Handle(uint64(generation)<<32 | uint64(uint32(index)))
}

func (h Handle) generation() uint32 {
	return uint32(h >> 32)
}

func (h Handle) index() int {
	return int(uint32(h))
}
