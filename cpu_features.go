package hipmath

import (
	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks the instruction set extensions the device math library
// can take advantage of.
type CPUFeatures struct {
	HasSSE4  bool
	HasAVX   bool
	HasAVX2  bool
	HasFMA   bool
	HasF16C  bool // hardware half <-> single conversion (amd64)
	HasFP16  bool // half precision arithmetic (arm64 FPHP)
	HasASIMD bool
}

var cpuFeatures = detectCPUFeatures()

func detectCPUFeatures() CPUFeatures {
	return CPUFeatures{
		HasSSE4:  cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:   cpu.X86.HasAVX,
		HasAVX2:  cpu.X86.HasAVX2,
		HasFMA:   cpu.X86.HasFMA,
		// x/sys/cpu does not expose F16C; every FMA part implements it.
		HasF16C:  cpu.X86.HasAVX && cpu.X86.HasFMA,
		HasFP16:  cpu.ARM64.HasFPHP,
		HasASIMD: cpu.ARM64.HasASIMD,
	}
}

// DetectedFeatures returns the features found at startup.
func DetectedFeatures() CPUFeatures {
	return cpuFeatures
}

// List returns the names of the detected features.
func (f CPUFeatures) List() []string {
	features := []string{}
	if f.HasSSE4 {
		features = append(features, "SSE4")
	}
	if f.HasAVX {
		features = append(features, "AVX")
	}
	if f.HasAVX2 {
		features = append(features, "AVX2")
	}
	if f.HasFMA {
		features = append(features, "FMA")
	}
	if f.HasF16C {
		features = append(features, "F16C")
	}
	if f.HasFP16 {
		features = append(features, "FP16")
	}
	if f.HasASIMD {
		features = append(features, "ASIMD")
	}
	return features
}

// GetCPUInfo returns a string describing available CPU features
func GetCPUInfo() string {
	features := cpuFeatures.List()
	if len(features) == 0 {
		return "No SIMD extensions detected"
	}
	result := "CPU features: "
	for i, f := range features {
		if i > 0 {
			result += ", "
		}
		result += f
	}
	return result
}
