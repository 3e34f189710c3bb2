package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesCopyStringIsIndependent(t *testing.T) {
	b := NewBytes(8)

	host := []byte("hello")
	copied := b.CopyString(string(host))
	host[0] = 'X'

	assert.Equal(t, "hello", copied, "arena copy must not alias the host buffer")
}

func TestBytesCopyCStringStopsAtNUL(t *testing.T) {
	b := NewBytes(16)

	raw := []byte("abc\x00def")
	got := b.CopyCString(raw)
	assert.Equal(t, "abc", got)
}

func TestBytesCopyCStringNoNUL(t *testing.T) {
	b := NewBytes(16)
	got := b.CopyCString([]byte("noterm"))
	assert.Equal(t, "noterm", got)
}

func TestBytesGrowsAcrossBlocks(t *testing.T) {
	b := NewBytes(4)
	a := b.CopyString("abcd")
	c := b.CopyString("efgh")
	require.Equal(t, "abcd", a)
	require.Equal(t, "efgh", c)
}

func TestBytesEmptyString(t *testing.T) {
	b := NewBytes(4)
	assert.Equal(t, "", b.CopyString(""))
}
