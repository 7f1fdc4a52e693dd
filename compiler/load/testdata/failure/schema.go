package failure

import "github.com/syssam/narrator/schema"

type BrokenTable struct {
	schema.Table

	Name Missing
}
