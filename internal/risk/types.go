package risk

import (
	"fmt"
	"strings"
)

type RiskType string

const (
	Diabetes     RiskType = "diabetes"
	HeartDisease RiskType = "heart_disease"
	CancerRisk   RiskType = "cancer_risk"
)

// All lists the risk types in the order the form presents them.
var All = []RiskType{Diabetes, HeartDisease, CancerRisk}

var displayNames = map[RiskType]string{
	Diabetes:     "Diabetes",
	HeartDisease: "Heart Disease",
	CancerRisk:   "Cancer Risk",
}

// ParseRiskType accepts both the wire form ("heart_disease") and the label
// shown in the selector ("Heart Disease"), case-insensitively.
func ParseRiskType(s string) (RiskType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for _, rt := range All {
		if normalized == string(rt) {
			return rt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRiskType, s)
}

func (rt RiskType) Valid() bool {
	_, ok := displayNames[rt]
	return ok
}

func (rt RiskType) DisplayName() string {
	if name, ok := displayNames[rt]; ok {
		return name
	}
	return string(rt)
}

func (rt RiskType) String() string {
	return string(rt)
}

// Label is the binary outcome of a prediction.
type Label string

const (
	High Label = "HIGH"
	Low  Label = "LOW"
)

// Threshold is the inclusive probability cutoff for a High label.
const Threshold = 0.5

// Classify maps a probability onto a label: High iff p >= Threshold.
func Classify(p float64) Label {
	if p >= Threshold {
		return High
	}
	return Low
}

func (l Label) Display() string {
	if l == High {
		return "High Risk"
	}
	return "Low Risk"
}

func (l Label) Color() string {
	if l == High {
		return "red"
	}
	return "green"
}

// PredictionResult is the immutable outcome of one evaluation.
type PredictionResult struct {
	RiskType    RiskType `json:"risk_type"`
	Probability float64  `json:"probability"`
	Label       Label    `json:"label"`
}

// ProbabilityPercent renders the probability the way the form shows it, e.g. "62.00%".
func (r PredictionResult) ProbabilityPercent() string {
	return fmt.Sprintf("%.2f%%", r.Probability*100)
}
