// Package simulate produces what-if copies of a Dataset under percentage
// perturbations of revenue and cost.
package simulate

import (
	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/metrics"
)

// ProfitComparison diffs total profit between two datasets.
type ProfitComparison struct {
	OriginalProfit  float64 `json:"original_profit"`
	SimulatedProfit float64 `json:"simulated_profit"`
	Difference      float64 `json:"difference"`
}

// Changes returns a copy of ds with revenue scaled by 1+revenuePct/100,
// cost scaled by 1+costPct/100, and profit recomputed as the difference.
// The input is never mutated. A 0 on either axis is a no-op on that
// column. The percentages are not bounds-checked: -150 silently produces
// negative revenue.
func Changes(ds *dataset.Dataset, revenuePct, costPct float64) *dataset.Dataset {
	out := ds.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Records {
		out.Records[i].Revenue *= 1 + revenuePct/100
		out.Records[i].Cost *= 1 + costPct/100
		out.Records[i].Profit = out.Records[i].Revenue - out.Records[i].Cost
	}
	return out
}

// CompareProfit sums each dataset's profit column and reports the
// difference (simulated - original).
func CompareProfit(original, simulated *dataset.Dataset) ProfitComparison {
	orig := metrics.TotalProfit(original)
	sim := metrics.TotalProfit(simulated)
	return ProfitComparison{
		OriginalProfit:  orig,
		SimulatedProfit: sim,
		Difference:      sim - orig,
	}
}
