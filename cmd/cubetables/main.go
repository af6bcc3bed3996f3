// cubetables generates and inspects cube position tables.
package main

import (
	"github.com/SeamusWaldron/gocube_tables/internal/cli"
)

func main() {
	cli.Execute()
}
