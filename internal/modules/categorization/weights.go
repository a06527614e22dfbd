package categorization

import "github.com/google/uuid"

type SiblingConfidence struct {
	ID         uuid.UUID
	Confidence float64
}

type SiblingWeight struct {
	ID     uuid.UUID
	Weight float64
}

// NormalizeWeights distributes 100 points over a sibling set in proportion to
// confidence. When no sibling has any confidence every weight is 0; the points
// are not split evenly. Output order follows input order.
func NormalizeWeights(siblings []SiblingConfidence) []SiblingWeight {
	out := make([]SiblingWeight, len(siblings))
	total := 0.0
	for _, s := range siblings {
		if s.Confidence > 0 {
			total += s.Confidence
		}
	}
	for i, s := range siblings {
		out[i] = SiblingWeight{ID: s.ID}
		if total == 0 || s.Confidence <= 0 {
			continue
		}
		out[i].Weight = Round2(100 * s.Confidence / total)
	}
	return out
}
