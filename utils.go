package pe

import "math"

// EntropyCalculator accumulates a byte-frequency histogram and reports
// Shannon entropy in bits per byte.
type EntropyCalculator struct {
	size        int
	frequencies [256]uint64
}

func (e *EntropyCalculator) Write(p []byte) (n int, err error) {
	e.size += len(p)
	for _, v := range p {
		e.frequencies[v]++
	}
	return len(p), err
}

func (e *EntropyCalculator) Sum() (entropy float64) {
	if e.size == 0 {
		return
	}

	for _, p := range e.frequencies {
		if p > 0 {
			freq := float64(p) / float64(e.size)
			entropy += freq * math.Log2(freq)
		}
	}
	return -entropy
}

// GetResourceTypeName resolves a root-level resource entry to a display
// name: the entry's own string name when present, else the well-known
// RT_* constant name.
func GetResourceTypeName(entry ResourceDirectoryEntry) string {
	if entry.Name != "" {
		return entry.Name
	}
	return ResourceTypeName(entry.ID)
}
