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
	"context"
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/spatialmodel/nexusprep"
)

func init() {
	// Component tables are stored in the disk cache as gobs.
	gob.Register(nexusprep.Table{})
}

// Loader reads component tables from CSV and xlsx files. Loads go through
// an explicit request cache so that a table referenced by several rules is
// only read once; the cache belongs to the Loader rather than the package,
// so separate Loaders never share (or invalidate) each other's entries.
type Loader struct {
	// MemCacheSize is the in-memory cache size; if zero, 100 is used.
	MemCacheSize int
	// DiskCachePath, if nonempty, adds a disk cache tier at the given
	// directory.
	DiskCachePath string

	loadOnce sync.Once
	cache    *requestcache.Cache
}

// Component loads the component table stored at path, which must end in
// .csv or .xlsx (for xlsx, a sheet name is appended after a colon, e.g.
// "data.xlsx:withdrawals").
func (l *Loader) Component(ctx context.Context, path string) (nexusprep.Table, error) {
	l.loadOnce.Do(func() {
		size := l.MemCacheSize
		if size == 0 {
			size = 100
		}
		if l.DiskCachePath == "" {
			l.cache = requestcache.NewCache(loadWorker, runtime.GOMAXPROCS(-1),
				requestcache.Deduplicate(), requestcache.Memory(size))
		} else {
			l.cache = requestcache.NewCache(loadWorker, runtime.GOMAXPROCS(-1),
				requestcache.Deduplicate(), requestcache.Memory(size),
				requestcache.Disk(l.DiskCachePath, requestcache.MarshalGob, requestcache.UnmarshalGob))
		}
	})
	r := l.cache.NewRequest(ctx, path, path)
	result, err := r.Result()
	if err != nil {
		return nil, err
	}
	return result.(nexusprep.Table), nil
}

// loadWorker reads one component table from disk.
func loadWorker(ctx context.Context, request interface{}) (interface{}, error) {
	path := request.(string)
	if sep := strings.LastIndex(path, ":"); sep > 0 && strings.HasSuffix(strings.ToLower(path[:sep]), ".xlsx") {
		return tableFromExcel(path[:sep], path[sep+1:])
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("nexusprep: opening component table: %v", err)
		}
		defer f.Close()
		return readTable(f)
	case ".xlsx":
		return tableFromExcel(path, "")
	default:
		return nil, fmt.Errorf("nexusprep: component table %s has unsupported extension %q", path, ext)
	}
}

// readTable reads a component table from CSV data. The header row must
// contain node, year, time, and value columns, and may contain a variable
// column; column order is free and header matching is case-insensitive.
func readTable(r io.Reader) (nexusprep.Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("nexusprep: reading component table: %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("nexusprep: component table is empty")
	}
	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"node", "year", "time", "value"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("nexusprep: component table has no %q column", required)
		}
	}
	t := make(nexusprep.Table, 0, len(records)-1)
	for _, rec := range records[1:] {
		year, err := strconv.Atoi(strings.TrimSpace(rec[cols["year"]]))
		if err != nil {
			return nil, fmt.Errorf("nexusprep: parsing component table year: %v", err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["value"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("nexusprep: parsing component table value: %v", err)
		}
		row := nexusprep.Row{
			Node:  rec[cols["node"]],
			Year:  year,
			Time:  rec[cols["time"]],
			Value: value,
		}
		if i, ok := cols["variable"]; ok {
			row.Variable = rec[i]
		}
		t = append(t, row)
	}
	return t, nil
}
