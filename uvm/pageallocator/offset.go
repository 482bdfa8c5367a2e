package pageallocator

import "unsafe"

// uintptrOffset returns the byte distance from base to elem, or -1 if elem
// lies below base. It does not check that elem aliases the same backing
// array as base; callers bound the result against the pool size.
func uintptrOffset(base, elem *byte) int {
	off := int(uintptr(unsafe.Pointer(elem)) - uintptr(unsafe.Pointer(base)))
	if off < 0 {
		return -1
	}
	return off
}
