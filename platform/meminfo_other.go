//go:build !linux

package platform

func totalMemory() uint64 { return 0 }
