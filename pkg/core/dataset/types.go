// Package dataset defines the canonical business-data schema and the
// pipeline that turns an uploaded table into a clean Dataset:
// raw table -> schema mapping -> validation.
package dataset

import (
	"math"
	"time"
)

// Field identifies one canonical column of the internal schema.
type Field string

const (
	FieldDate         Field = "date"
	FieldProduct      Field = "product_name"
	FieldQuantity     Field = "quantity"
	FieldSellingPrice Field = "selling_price"
	FieldRevenue      Field = "revenue"
	FieldCost         Field = "cost"
	FieldProfit       Field = "profit"
)

// RequiredFields are the columns that must exist for a Dataset to be usable.
// SellingPrice is optional (treated as 0 downstream when absent).
var RequiredFields = []Field{
	FieldDate,
	FieldProduct,
	FieldQuantity,
	FieldRevenue,
	FieldCost,
	FieldProfit,
}

// Record is one row of business activity in the internal schema.
// Numeric fields use NaN to mark values that were missing or unparsable
// in the source; a zero Date marks a missing/unparsable date. The
// Validator removes or fills these before the record reaches any engine.
type Record struct {
	Date         time.Time `json:"date"`
	ProductName  string    `json:"product_name"`
	Quantity     float64   `json:"quantity"`
	SellingPrice float64   `json:"selling_price"`
	Revenue      float64   `json:"revenue"`
	Cost         float64   `json:"cost"`
	Profit       float64   `json:"profit"`
}

// HasDate reports whether the record carries a parsable date.
func (r Record) HasDate() bool {
	return !r.Date.IsZero()
}

// Dataset is an ordered collection of Records plus the set of canonical
// columns that actually resolved during mapping. The column set lets the
// Validator distinguish "column entirely absent" from "values missing",
// and lets the engines honor column-presence guards.
type Dataset struct {
	Records []Record

	columns map[Field]bool
}

// New builds a Dataset over records, marking the given canonical columns
// as present.
func New(records []Record, columns ...Field) *Dataset {
	ds := &Dataset{Records: records, columns: make(map[Field]bool, len(columns))}
	for _, f := range columns {
		ds.columns[f] = true
	}
	return ds
}

// HasColumn reports whether the canonical column resolved during mapping.
func (d *Dataset) HasColumn(f Field) bool {
	if d == nil {
		return false
	}
	return d.columns[f]
}

// Columns returns the set of resolved canonical columns.
func (d *Dataset) Columns() []Field {
	if d == nil {
		return nil
	}
	out := make([]Field, 0, len(d.columns))
	for _, f := range []Field{FieldDate, FieldProduct, FieldQuantity, FieldSellingPrice, FieldRevenue, FieldCost, FieldProfit} {
		if d.columns[f] {
			out = append(out, f)
		}
	}
	return out
}

// Empty reports whether the dataset is nil or has no records.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Records) == 0
}

// Len returns the record count.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Clone returns a deep copy. Engines that modify records (the simulator)
// operate on a clone so the session's dataset is never mutated.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	records := make([]Record, len(d.Records))
	copy(records, d.Records)
	columns := make(map[Field]bool, len(d.columns))
	for f, ok := range d.columns {
		columns[f] = ok
	}
	return &Dataset{Records: records, columns: columns}
}

func isMissing(v float64) bool {
	return math.IsNaN(v)
}
