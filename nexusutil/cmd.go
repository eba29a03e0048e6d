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

// Package nexusutil holds the configuration surface and command-line
// interface of the nexusprep data-preparation tool.
package nexusutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/nexusprep"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log receives run progress messages.
var Log logrus.FieldLogger = logrus.StandardLogger()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to nexusprep.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "RegionPrefix",
			usage: `
              RegionPrefix is prepended to node names in the output
              parameter tables, matching the region-naming convention of
              the scenario being prepared.`,
			defaultVal: nexusprep.DefaultRegionPrefix,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Scenario",
			usage: `
              Scenario is the policy-scenario identifier for this run.`,
			defaultVal: "baseline",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Years",
			usage: `
              Years lists the model analysis years. Rate components are
              interpolated to these years before rules are applied.`,
			defaultVal: []int{2020, 2030, 2040, 2050},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ConvertToMCM",
			usage: `
              ConvertToMCM converts output values from km3/year to
              mcm/year.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the demand-parameter table
              should be created. It can contain environment variables.`,
			defaultVal: "demands.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Components",
			usage: `
              Components maps component names to the CSV or xlsx files
              holding them. The standard demand rules reference the
              components urban_withdrawal, urban_connection_rate,
              rural_withdrawal, rural_connection_rate,
              manufacturing_withdrawal, urban_return, urban_treatment_rate,
              rural_return, and rural_treatment_rate. Paths can contain
              environment variables.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CacheDir",
			usage: `
              CacheDir is a directory where loaded component tables are
              cached between runs. If empty, tables are only cached in
              memory.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MaxCacheEntries",
			usage: `
              MaxCacheEntries is the in-memory component cache size.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("NEXUSPREP")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("nexusprep: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "nexusprep",
	Short: "Prepare parameter tables for an energy-system optimization model.",
	Long: `nexusprep derives demand-parameter tables for an integrated-assessment
energy-system optimization model from withdrawal and rate component tables.
Use the subcommands specified below to access the functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'NEXUSPREP_var' where 'var'
is the name of the variable to be set. Many configuration variables are
additionally allowed to contain environment variables within them.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of nexusprep.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("nexusprep v%s\n", nexusprep.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Derive the demand-parameter tables.",
	Long: `run loads the configured component tables, harmonizes rate components to
the model analysis years, applies the water-sector demand rules, and writes
the resulting demand-parameter table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ParseConfig(Cfg)
		if err != nil {
			return err
		}
		rows, err := Run(context.Background(), cfg)
		if err != nil {
			return err
		}
		if err := WriteParamsFile(cfg.OutputFile, rows); err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{
			"rows": len(rows),
			"file": cfg.OutputFile,
		}).Info("nexusprep: wrote demand parameters")
		return nil
	},
	DisableAutoGenTag: true,
}

// Run loads the configured component tables and applies the water-sector
// demand rules, returning the combined demand-parameter table.
func Run(ctx context.Context, cfg *Config) ([]nexusprep.ParamRow, error) {
	loader := &Loader{MemCacheSize: cfg.MaxCacheEntries, DiskCachePath: cfg.CacheDir}
	components := make(map[string]nexusprep.Table, len(cfg.Components))
	for name, path := range cfg.Components {
		t, err := loader.Component(ctx, path)
		if err != nil {
			return nil, err
		}
		// Rate series usually come from surveys on a coarser year grid
		// than the model years.
		if strings.HasSuffix(name, "_rate") && len(cfg.Years) > 0 {
			t = t.InterpolateYears(cfg.Years)
		}
		components[name] = t
	}

	graphs, err := DemandRules(cfg.Scenario)
	if err != nil {
		return nil, err
	}
	opts := nexusprep.ApplyOptions{
		RegionPrefix: cfg.RegionPrefix,
		ConvertToMCM: cfg.ConvertToMCM,
	}
	var rows []nexusprep.ParamRow
	for _, g := range graphs {
		rule, err := g.Compile()
		if err != nil {
			return nil, err
		}
		if _, ok := components[rule.Withdrawal]; !ok {
			// Not every study supplies every sector.
			Log.WithFields(logrus.Fields{
				"commodity": rule.Commodity,
				"component": rule.Withdrawal,
			}).Info("nexusprep: skipping rule; component not configured")
			continue
		}
		out, err := nexusprep.ApplyRule(rule, components, opts)
		if err != nil {
			return nil, err
		}
		rows = append(rows, out...)
	}
	return rows, nil
}
