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
along with nexusprep.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command nexusprep is a command-line interface for preparing parameter
// tables for an energy-system optimization model.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/nexusprep/nexusutil"
)

func main() {
	if err := nexusutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
