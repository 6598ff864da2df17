package io

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// StructToTSV writes a slice of tagged structs as a tab separated table with a header row
func StructToTSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("StructToTSV: failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		return fmt.Errorf("StructToTSV: failed to write %s: %w", path, err)
	}

	return f.Close()
}

// TSVtoStruct reads a tab separated table written by StructToTSV into rows,
// a pointer to a slice of tagged structs
func TSVtoStruct(path string, rows interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("TSVtoStruct: failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true

	if err := gocsv.UnmarshalCSV(r, rows); err != nil {
		return fmt.Errorf("TSVtoStruct: failed to parse %s: %w", path, err)
	}

	return nil
}
