package freelist

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestPoolGetOnEmptyClassReturnsNil(t *testing.T) {
	var p Pool
	assert.Nil(t, p.Get(4096))
}

func TestPoolRoundTripsOneRegion(t *testing.T) {
	var p Pool
	var backing int
	ptr := unsafe.Pointer(&backing)

	p.Put(4096, ptr)
	got := p.Get(4096)
	assert.Equal(t, ptr, got)

	// drained; a second Get on the same class finds nothing left
	assert.Nil(t, p.Get(4096))
}

func TestPoolKeepsSizeClassesSeparate(t *testing.T) {
	var p Pool
	var small, big int
	p.Put(64, unsafe.Pointer(&small))
	p.Put(128, unsafe.Pointer(&big))

	assert.Equal(t, unsafe.Pointer(&small), p.Get(64))
	assert.Equal(t, unsafe.Pointer(&big), p.Get(128))
}

func TestPoolLIFOOrder(t *testing.T) {
	var p Pool
	var a, b, c int
	p.Put(8, unsafe.Pointer(&a))
	p.Put(8, unsafe.Pointer(&b))
	p.Put(8, unsafe.Pointer(&c))

	// most recently released comes back first
	assert.Equal(t, unsafe.Pointer(&c), p.Get(8))
	assert.Equal(t, unsafe.Pointer(&b), p.Get(8))
	assert.Equal(t, unsafe.Pointer(&a), p.Get(8))
}
