package risk

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
)

// Thresholds are the trigger points for the five rules. Severity bands
// inside each rule are fixed; only the detection thresholds move.
type Thresholds struct {
	LossThresholdDays    int     `json:"loss_threshold_days"`
	RevenueDeclinePct    float64 `json:"revenue_decline_pct"`
	CostRatio            float64 `json:"cost_ratio"`
	MinProfitMarginPct   float64 `json:"min_profit_margin_pct"`
	MinProductMarginPct  float64 `json:"min_product_margin_pct"`
}

// DefaultThresholds returns the stock rule configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LossThresholdDays:   3,
		RevenueDeclinePct:   -10,
		CostRatio:           0.8,
		MinProfitMarginPct:  10.0,
		MinProductMarginPct: 5.0,
	}
}

// LoadThresholds reads rule overrides from an hjson file. A missing file
// is not an error: defaults apply. A file that exists but cannot be
// parsed is a configuration error and is reported.
func LoadThresholds(path string) (Thresholds, error) {
	th := DefaultThresholds()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return th, nil
	}
	if err != nil {
		return th, fmt.Errorf("failed to read rule config %s: %w", path, err)
	}

	if err := hjson.Unmarshal(data, &th); err != nil {
		return DefaultThresholds(), fmt.Errorf("failed to parse rule config %s: %w", path, err)
	}
	return th, nil
}
