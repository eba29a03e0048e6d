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

// Package nexusprep prepares parameter tables for an integrated-assessment
// energy-system optimization model.
//
// The package centers on a small rule engine: transformation rules are
// authored as directed graphs of typed nodes (RuleGraph), validated and
// compiled into flat rule records (CompiledRule), and then applied against
// named component tables to produce demand-parameter tables ready for the
// optimization platform's parameter loader. Families of near-identical
// parameter-generation rules are produced by patching a base template with
// sparse diffs (GenerateRules). Multi-dimensional scaling factors are built
// with the layered quantification machinery in the factor subpackage.
package nexusprep

// Version gives the version number of this version of nexusprep.
const Version = "1.1.0"
