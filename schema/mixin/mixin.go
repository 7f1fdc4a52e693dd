// Package mixin provides column sets shared by many tables.
//
// A mixin is a plain struct embedded in a table declaration. The schema
// loader flattens its fields into the table at the position of the
// embedding:
//
//	type SessionsTable struct {
//		schema.Table
//		mixin.Created
//
//		Token string
//	}
package mixin

import (
	"time"
)

// Created adds the creation timestamp of logged tables. The base DAO sets
// it on insert and orders listings by it.
type Created struct {
	CreatedOn time.Time
}

// Deleted declares the soft-delete flag explicitly. Tables embedding
// schema.DeletableTable carry the flag already.
type Deleted struct {
	IsDeleted bool
}

// Audit records who last changed a row and why.
type Audit struct {
	ChangedBy *string `narrator:"changed_by"`
	Reason    *string
}
