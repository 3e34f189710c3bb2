package arena

import "sync"

// defaultBlockSize is the size of each growth block in the Bytes arena.
const defaultBlockSize = 4096

// Bytes is a small-block bump allocator for byte/string payloads. The
// event log's recorders do not copy host buffers into it; event payloads
// hold the caller-supplied strings and slices directly.
type Bytes struct {
	mu        sync.Mutex
	blockSize int
	cur       []byte
}

// NewBytes creates a Bytes arena that grows in blockSize chunks. A
// blockSize <= 0 uses defaultBlockSize.
func NewBytes(blockSize int) *Bytes {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &Bytes{blockSize: blockSize}
}

// CopyString copies s into the arena and returns an independent string.
// The returned string is a Go copy of the arena bytes, not a view of
// them, so it does not depend on the arena's lifetime.
func (b *Bytes) CopyString(s string) string {
	if s == "" {
		return ""
	}
	buf := b.alloc(len(s))
	copy(buf, s)
	return string(buf)
}

// CopyCString copies a NUL-terminated byte slice's logical contents
// (everything before the first NUL, or the whole slice if there is none)
// into the arena and returns it as a pinned string.
func (b *Bytes) CopyCString(raw []byte) string {
	n := len(raw)
	for i, c := range raw {
		if c == 0 {
			n = i
			break
		}
	}
	return b.CopyString(string(raw[:n]))
}

// CopyBytes copies an arbitrary byte slice into the arena.
func (b *Bytes) CopyBytes(p []byte) []byte {
	if len(p) == 0 {
		return nil
	}
	buf := b.alloc(len(p))
	copy(buf, p)
	return buf
}

// Reset releases every block at once.
func (b *Bytes) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cur = nil
}

func (b *Bytes) alloc(n int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cap(b.cur)-len(b.cur) < n {
		blockLen := b.blockSize
		if n > blockLen {
			blockLen = n
		}
		b.cur = make([]byte, 0, blockLen)
	}
	start := len(b.cur)
	b.cur = b.cur[:start+n]
	return b.cur[start : start+n : start+n]
}
