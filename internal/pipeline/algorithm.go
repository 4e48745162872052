package pipeline

import "fmt"

// Algorithm selects how polygons are turned into pixels.
type Algorithm int

const (
	// ScanLineZ scan converts every polygon against the depth buffer.
	ScanLineZ Algorithm = iota
	// ScanLineHZ skips polygons hidden according to the hierarchical depth
	// structure before scan converting them.
	ScanLineHZ
	// ScanLineHierarchy walks a bounding-volume tree and skips hidden
	// subtrees.
	ScanLineHierarchy
	// Interval resolves visibility per scanline interval without a depth
	// buffer.
	Interval
)

var algorithmNames = [...]string{
	ScanLineZ:         "scanline-z",
	ScanLineHZ:        "scanline-hz",
	ScanLineHierarchy: "scanline-bvh",
	Interval:          "interval",
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm maps a name from String back to its Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	for i, name := range algorithmNames {
		if name == s {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("pipeline: unknown algorithm %q (want one of %v)", s, algorithmNames)
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(b []byte) error {
	v, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
