package importer

import "github.com/shopspring/decimal"

type Stats struct {
	TotalRows     int     `json:"total_rows"`
	ProcessedRows int     `json:"processed_rows"`
	ImportedRows  int     `json:"imported_rows"`
	DuplicateRows int     `json:"duplicate_rows"`
	ErrorRows     int     `json:"error_rows"`
	SuccessRate   float64 `json:"success_rate"`
}

// ImportStats derives the summary shown after an import. SuccessRate is a
// percentage rounded to one decimal place, and zero when nothing was
// processed.
func ImportStats(imp *Import) Stats {
	st := Stats{
		TotalRows:     imp.TotalRows,
		ProcessedRows: imp.ProcessedRows,
		ImportedRows:  imp.ImportedRows,
		DuplicateRows: imp.DuplicateRows,
		ErrorRows:     max(0, imp.ProcessedRows-imp.ImportedRows-imp.DuplicateRows),
	}

	if imp.ProcessedRows > 0 {
		st.SuccessRate = decimal.NewFromInt(int64(imp.ImportedRows)).
			Div(decimal.NewFromInt(int64(imp.ProcessedRows))).
			Mul(decimal.NewFromInt(100)).
			Round(1).
			InexactFloat64()
	}

	return st
}
