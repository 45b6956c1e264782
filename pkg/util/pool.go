package util

import "runtime"

// PoolSize returns the pool size used for CPU-bound parallel work: parser
// pools and the file conversion worker pool. Twice the core count keeps the
// CPU busy while cgo calls block, clamped to [4, 32].
func PoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// PoolSizeOrOverride returns override when positive, otherwise PoolSize().
func PoolSizeOrOverride(override int) int {
	if override > 0 {
		return override
	}
	return PoolSize()
}
