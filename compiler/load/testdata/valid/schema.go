package valid

import (
	"time"

	"github.com/google/uuid"

	"github.com/syssam/narrator/compiler/load/testdata/common"
	"github.com/syssam/narrator/schema"
	"github.com/syssam/narrator/schema/mixin"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

type Address struct {
	Street string
	Owner  *Person
}

type Person struct {
	Name    string
	Address *Address
}

type Page[T any] struct {
	Items []T
	Total int64
}

type UsersTable struct {
	schema.DeletableTable

	Name      string
	Email     *string `narrator:"email_address"`
	Status    Status
	Tags      []string
	Home      Address
	Contacts  Page[Person]
	Audit     common.Audit
	CreatedOn time.Time
	Group     schema.Ref[GroupsTable]
	Extra     map[string]uuid.UUID

	secret string
}

type GroupsTable struct {
	schema.Table `narrator:"user_groups"`

	ID   uuid.UUID
	Name string
}

type SessionsTable struct {
	schema.Table
	mixin.Created
	mixin.Audit

	Token string
}
