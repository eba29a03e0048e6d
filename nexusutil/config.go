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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// Config holds the settings for one preparation run.
type Config struct {
	// RegionPrefix is prepended to node names in output tables.
	RegionPrefix string
	// Scenario is the policy-scenario identifier for this run.
	Scenario string
	// Years are the model analysis years; rate components are
	// interpolated to these years before rules are applied.
	Years []int
	// ConvertToMCM converts output values from km3/year to mcm/year.
	ConvertToMCM bool
	// OutputFile is the path of the demand-parameter table to write.
	OutputFile string
	// Components maps component names to the CSV or xlsx files holding
	// them.
	Components map[string]string
	// CacheDir, if nonempty, is a directory where loaded component
	// tables are cached on disk between runs.
	CacheDir string
	// MaxCacheEntries is the in-memory component cache size.
	MaxCacheEntries int
}

// ParseConfig extracts a Config from the configuration holder, expanding
// environment variables within paths.
func ParseConfig(cfg *viper.Viper) (*Config, error) {
	c := &Config{
		RegionPrefix:    cfg.GetString("RegionPrefix"),
		Scenario:        cfg.GetString("Scenario"),
		ConvertToMCM:    cfg.GetBool("ConvertToMCM"),
		MaxCacheEntries: cfg.GetInt("MaxCacheEntries"),
		CacheDir:        os.ExpandEnv(cfg.GetString("CacheDir")),
	}
	years, err := cast.ToIntSliceE(cfg.Get("Years"))
	if err != nil {
		return nil, fmt.Errorf("nexusprep: parsing the Years configuration variable: %v", err)
	}
	c.Years = years
	c.Components, err = stringMapStringViper(cfg, "Components")
	if err != nil {
		return nil, err
	}
	for name, path := range c.Components {
		c.Components[name] = os.ExpandEnv(path)
	}
	c.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile"))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// stringMapStringViper reads a map[string]string configuration variable.
// Values given on the command line arrive as JSON-encoded strings.
func stringMapStringViper(cfg *viper.Viper, name string) (map[string]string, error) {
	v := cfg.Get(name)
	if s, ok := v.(string); ok {
		out := make(map[string]string)
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, fmt.Errorf("nexusprep: parsing the %s configuration variable: %v", name, err)
		}
		return out, nil
	}
	out, err := cast.ToStringMapStringE(v)
	if err != nil {
		return nil, fmt.Errorf("nexusprep: parsing the %s configuration variable: %v", name, err)
	}
	return out, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`nexusprep: you need to specify an output file configuration variable (for example: OutputFile="demands.csv")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("nexusprep: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}
