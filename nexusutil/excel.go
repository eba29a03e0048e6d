/*
Copyright © 2026 the nexusprep authors.
This file is part of nexusprep.

nexusprep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nexusprep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nexusprep.  If not, see <http://www.gnu.org/licenses/>.*/

package nexusutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spatialmodel/nexusprep"
	"github.com/tealeg/xlsx"
	"gonum.org/v1/gonum/mat"
)

// tableFromExcel reads a component table from a sheet of a Microsoft
// Excel file. If sheet is empty, the file's first sheet is used. The
// sheet must have the same header layout as a component CSV file.
func tableFromExcel(fileName, sheet string) (nexusprep.Table, error) {
	f, err := xlsx.OpenFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("nexusprep: opening xlsx file: %v", err)
	}
	var s *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("nexusprep: xlsx file %s has no sheets", fileName)
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		s, ok = f.Sheet[sheet]
		if !ok {
			return nil, fmt.Errorf("nexusprep: xlsx file %s has no sheet %s", fileName, sheet)
		}
	}
	var records [][]string
	for _, row := range s.Rows {
		var rec []string
		for _, cell := range row.Cells {
			rec = append(rec, cell.Value)
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return tableFromRecords(records)
}

// tableFromRecords converts header-plus-rows string records into a
// component table, sharing the column conventions of readTable.
func tableFromRecords(records [][]string) (nexusprep.Table, error) {
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(strings.Join(rec, ","))
		b.WriteString("\n")
	}
	return readTable(strings.NewReader(b.String()))
}

// matrixFromExcel creates a matrix from data in a Microsoft Excel file
// with the given fileName and sheet name within the file, based on the
// data starting at [startRow, startCol] (inclusive) and ending at
// [endRow, endCol] (exclusive). Empty cells are read as zero.
func matrixFromExcel(fileName, sheet string, startRow, endRow, startCol, endCol int) (*mat.Dense, error) {
	f, err := xlsx.OpenFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("nexusprep: opening xlsx file: %v", err)
	}
	s, ok := f.Sheet[sheet]
	if !ok {
		return nil, fmt.Errorf("nexusprep: xlsx file %s has no sheet %s", fileName, sheet)
	}
	o := mat.NewDense(endRow-startRow, endCol-startCol, nil)
	for j := startRow; j < endRow; j++ {
		for i := startCol; i < endCol; i++ {
			cellString := s.Cell(j, i).Value
			var v float64
			if cellString != "" {
				v, err = strconv.ParseFloat(cellString, 64)
				if err != nil {
					return nil, fmt.Errorf("nexusprep: reading matrix from Excel: %v", err)
				}
			}
			o.Set(j-startRow, i-startCol, v)
		}
	}
	return o, nil
}

// MatrixComponent reads a year-by-node block from an Excel sheet and
// flattens it into a component table: the block at [startRow, startCol]
// spans one row per year and one column per node, and every resulting row
// is tagged with the given time slice. Gridded and spreadsheet sources
// that arrive as year×region matrices are converted with this before rule
// application.
func MatrixComponent(fileName, sheet string, startRow, startCol int, years []int, nodes []string, time string) (nexusprep.Table, error) {
	m, err := matrixFromExcel(fileName, sheet, startRow, startRow+len(years), startCol, startCol+len(nodes))
	if err != nil {
		return nil, err
	}
	t := make(nexusprep.Table, 0, len(years)*len(nodes))
	for j, year := range years {
		for i, node := range nodes {
			t = append(t, nexusprep.Row{
				Node:  node,
				Year:  year,
				Time:  time,
				Value: m.At(j, i),
			})
		}
	}
	return t, nil
}
