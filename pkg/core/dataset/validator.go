package dataset

import (
	"fmt"
	"strings"
)

// SchemaError reports canonical columns that are entirely absent from a
// dataset. It is a structural failure: the upload cannot be analyzed at all.
type SchemaError struct {
	Missing []Field
}

func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("missing internal columns: %s", strings.Join(names, ", "))
}

// Validate enforces the Dataset invariants and returns a filtered copy.
//
// It fails with a *SchemaError when a required canonical column never
// resolved. Individual bad rows do not fail: records with a missing date,
// empty product name, or missing/negative quantity, revenue, or cost are
// silently dropped. Remaining missing selling prices become 0 and missing
// profits become revenue - cost. How many rows were dropped is not
// reported; a partially messy upload still yields a result.
func Validate(ds *Dataset) (*Dataset, error) {
	if ds == nil {
		return nil, &SchemaError{Missing: RequiredFields}
	}

	var missing []Field
	for _, f := range RequiredFields {
		if !ds.HasColumn(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	out := ds.Clone()
	kept := out.Records[:0]
	for _, r := range out.Records {
		if !r.HasDate() || r.ProductName == "" {
			continue
		}
		if isMissing(r.Quantity) || isMissing(r.Revenue) || isMissing(r.Cost) {
			continue
		}
		if r.Quantity < 0 || r.Revenue < 0 || r.Cost < 0 {
			continue
		}
		if isMissing(r.SellingPrice) {
			r.SellingPrice = 0
		}
		if isMissing(r.Profit) {
			r.Profit = r.Revenue - r.Cost
		}
		kept = append(kept, r)
	}
	out.Records = kept
	return out, nil
}
