// Package segpolicy defines the customer segmentation policy: the ordered
// bucket labels used for monetary tertiles and the label applied when the
// population is too small to partition. The defaults are compiled in; a
// YAML file can override them for auditability, never for shape (always
// exactly three buckets).
package segpolicy

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/jaylee/storepulse/internal/contracts"
)

// Policy holds the segmentation labels, ascending by monetary value.
type Policy struct {
	// Buckets are the tertile labels, lowest monetary tier first.
	Buckets []contracts.Segment `yaml:"buckets" json:"buckets"`

	// DegenerateLabel is assigned to every customer when the population
	// has fewer than three customers and tertiles cannot be formed.
	DegenerateLabel contracts.Segment `yaml:"degenerate_label" json:"degenerate_label"`
}

// Default returns the compiled-in policy: Low/Mid/High with Mid as the
// degenerate label.
func Default() *Policy {
	return &Policy{
		Buckets:         []contracts.Segment{contracts.SegmentLow, contracts.SegmentMid, contracts.SegmentHigh},
		DegenerateLabel: contracts.SegmentMid,
	}
}

// Validate checks structural rules on the policy.
func Validate(p *Policy) error {
	if len(p.Buckets) != 3 {
		return fmt.Errorf("policy must define exactly 3 buckets, got %d", len(p.Buckets))
	}

	seen := make(map[contracts.Segment]bool, len(p.Buckets))
	for i, b := range p.Buckets {
		if b == "" {
			return fmt.Errorf("bucket %d has an empty label", i)
		}
		if seen[b] {
			return fmt.Errorf("duplicate bucket label %q", b)
		}
		seen[b] = true
	}

	if !seen[p.DegenerateLabel] {
		return fmt.Errorf("degenerate_label %q is not one of the buckets", p.DegenerateLabel)
	}

	return nil
}

// Hash generates a SHA256 hash of the policy (canonical JSON), logged at
// startup so a result set can be tied to the exact policy that produced it.
func Hash(p *Policy) (string, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
