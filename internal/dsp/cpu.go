package dsp

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Caps describes the CPU features kernel selection depends on.
type Caps struct {
	SSE41 bool
	AVX2  bool
	NEON  bool

	// Portable forces the loop-based kernels.
	Portable bool
}

// Detect probes the running CPU.
func Detect() Caps {
	var c Caps
	switch runtime.GOARCH {
	case "amd64", "386":
		c.SSE41 = cpu.X86.HasSSE41
		c.AVX2 = cpu.X86.HasAVX2
	case "arm64":
		c.NEON = cpu.ARM64.HasASIMD
	}
	return c
}

// Unrolled reports whether the straight-line kernels should be used. They
// pay off on cores with wide issue, which every vector-capable target has.
func (c Caps) Unrolled() bool {
	if c.Portable {
		return false
	}
	return c.SSE41 || c.AVX2 || c.NEON
}

func (c Caps) String() string {
	if !c.Unrolled() {
		return "portable"
	}
	switch {
	case c.AVX2:
		return "unrolled/avx2"
	case c.SSE41:
		return "unrolled/sse4.1"
	case c.NEON:
		return "unrolled/neon"
	}
	return "unrolled"
}
