// narrator generates models, DAOs, DTOs and converters from table schemas.
package main

import (
	"github.com/syssam/narrator/cmd/narrator/commands"
)

func main() {
	commands.Execute()
}
