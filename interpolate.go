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

package nexusprep

import "sort"

// InterpolateYears harmonizes t to the given model years: within each
// (node, time, variable) group, values for the requested years are linearly
// interpolated between the observed years, clamping to the first or last
// observation for years outside the observed range. Groups and years keep
// their input order. The receiver is not modified.
func (t Table) InterpolateYears(years []int) Table {
	type group struct {
		node, time, variable string
	}
	obs := make(map[group][]Row)
	var order []group
	for _, r := range t {
		g := group{r.Node, r.Time, r.Variable}
		if _, ok := obs[g]; !ok {
			order = append(order, g)
		}
		obs[g] = append(obs[g], r)
	}

	out := make(Table, 0, len(order)*len(years))
	for _, g := range order {
		rows := append(Table(nil), obs[g]...)
		sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
		for _, y := range years {
			out = append(out, Row{
				Node:     g.node,
				Year:     y,
				Time:     g.time,
				Value:    interpolateYear(rows, y),
				Variable: g.variable,
			})
		}
	}
	return out
}

// interpolateYear returns the value for year y given observations sorted
// by year, interpolating between the bracketing observations and clamping
// outside the observed range.
func interpolateYear(rows Table, y int) float64 {
	if y <= rows[0].Year {
		return rows[0].Value
	}
	if last := len(rows) - 1; y >= rows[last].Year {
		return rows[last].Value
	}
	for i := 0; i < len(rows)-1; i++ {
		y1, y2 := rows[i].Year, rows[i+1].Year
		if y2 >= y {
			frac := float64(y-y1) / float64(y2-y1)
			return rows[i].Value*(1-frac) + rows[i+1].Value*frac
		}
	}
	// Unreachable: the clamps above bound y within the observed years.
	return rows[len(rows)-1].Value
}
