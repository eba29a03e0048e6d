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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spatialmodel/nexusprep"
)

// WriteParams writes a demand-parameter table as CSV in the column order
// expected by the optimization platform's parameter loader.
func WriteParams(w io.Writer, rows []nexusprep.ParamRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"node", "commodity", "level", "year", "time", "value", "unit"}); err != nil {
		return fmt.Errorf("nexusprep: writing parameter table: %v", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Node,
			r.Commodity,
			r.Level,
			strconv.Itoa(r.Year),
			r.Time,
			strconv.FormatFloat(r.Value, 'g', -1, 64),
			r.Unit,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("nexusprep: writing parameter table: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteParamsFile writes a demand-parameter table to the file at path.
func WriteParamsFile(path string, rows []nexusprep.ParamRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nexusprep: creating parameter table file: %v", err)
	}
	if err := WriteParams(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
