// Package dao provides the base contracts generated DAOs build on.
//
// A generated DAO implements [ModelDBConverter] for its model and embeds
// either [BasicDaoWithoutDelete] or, for tables with a soft-delete flag,
// [BasicDao]. The embedded base supplies the create, read, update and list
// operations; BasicDao adds a logical Delete that marks rows instead of
// removing them.
//
//	users := usersdao.NewUsersDao(drv)
//	id, err := users.Create(ctx, usersdao.User{Name: "Alice"})
//	page, err := users.GetList(ctx, 0, 20, "")
package dao
