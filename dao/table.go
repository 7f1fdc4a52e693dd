package dao

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Column names with a fixed meaning.
const (
	IDColumn      = "id"
	DeletedColumn = "is_deleted"
	CreatedColumn = "created_on"
)

// ModelWithID is implemented by every generated model.
type ModelWithID interface {
	// GetID returns the row identifier, or nil for rows not yet stored.
	GetID() *uuid.UUID
}

// ModelDBConverter maps a model onto table rows and back.
type ModelDBConverter[M any] interface {
	// ToModel builds a model from the current row.
	ToModel(row Row) (M, error)
	// ToStatement sets the model's column values on stmt.
	ToStatement(model M, stmt *Statement)
	// FilterWithSearchTerm narrows q to the rows matching term.
	FilterWithSearchTerm(q *Query, term string)
}

// Table describes a table for the base DAOs.
type Table struct {
	// Name is the SQL table name.
	Name string
	// Columns lists the selected columns, the id first.
	Columns []string
	// Logged reports whether the table has a created_on column.
	Logged bool
	// Deletable reports whether the table has an is_deleted column.
	Deletable bool
}

// Statement collects the column values of an insert or update.
type Statement struct {
	columns []string
	values  []any
}

// Set assigns value to column, replacing an earlier assignment.
func (s *Statement) Set(column string, value any) {
	if i := slices.Index(s.columns, column); i >= 0 {
		s.values[i] = value
		return
	}
	s.columns = append(s.columns, column)
	s.values = append(s.values, value)
}

// Has reports whether column was assigned.
func (s *Statement) Has(column string) bool {
	return slices.Contains(s.columns, column)
}

// Columns returns the assigned columns in assignment order.
func (s *Statement) Columns() []string { return s.columns }

// Values returns the assigned values in assignment order.
func (s *Statement) Values() []any { return s.values }

// Columns maps column names to scan destinations.
type Columns map[string]any

// Row is the current row of a result set.
type Row struct {
	rows    *sql.Rows
	columns []string
}

// Scan copies the row into the destinations of dest. Columns without a
// destination are discarded.
func (r Row) Scan(dest Columns) error {
	args := make([]any, len(r.columns))
	for i, c := range r.columns {
		if d, ok := dest[c]; ok {
			args[i] = d
		} else {
			args[i] = new(any)
		}
	}
	return r.rows.Scan(args...)
}

// JSON returns a scan destination decoding a JSON column into dest.
func JSON(dest any) sql.Scanner { return jsonScanner{dest: dest} }

// JSONValue returns a statement value encoding v as JSON.
func JSONValue(v any) driver.Valuer { return jsonValuer{v: v} }

type jsonScanner struct{ dest any }

func (s jsonScanner) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("dao: unsupported json source %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, s.dest)
}

type jsonValuer struct{ v any }

func (j jsonValuer) Value() (driver.Value, error) {
	b, err := json.Marshal(j.v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ListAndTotal is a page of models and the number of rows matching the query.
type ListAndTotal[M any] struct {
	List  []M   `json:"list"`
	Total int64 `json:"total"`
}
