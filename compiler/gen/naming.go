package gen

import (
	"path"
	"slices"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/narrator/compiler/load"
)

// tableSuffix marks table type names.
const tableSuffix = "Table"

// Namer derives the names of generated declarations.
type Namer struct {
	dict  *Dictionary
	title cases.Caser
}

// NewNamer returns a namer singularizing with dict.
func NewNamer(dict *Dictionary) *Namer {
	return &Namer{dict: dict, title: cases.Title(language.Und, cases.NoLower)}
}

// ModelName derives the model name of a table: the Table suffix is
// stripped and the last camel-case word is singularized.
//
//	UserRolesTable => UserRole
//	DataTable      => Data
func (n *Namer) ModelName(table string) (string, error) {
	base := strings.TrimSuffix(table, tableSuffix)
	head, last := splitLastWord(base)
	single, err := n.dict.Singular(last)
	if err != nil {
		return "", err
	}
	return head + n.title.String(single), nil
}

// splitLastWord splits s before the last upper-case letter that is followed
// by lower-case characters up to the end of s. A name without such a word
// is one word.
func splitLastWord(s string) (head, last string) {
	i := strings.LastIndexFunc(s, unicode.IsUpper)
	if i < 0 || i == len(s)-1 {
		return "", s
	}
	return s[:i], s[i:]
}

// DaoName returns the DAO type name of a table.
//
//	UserRolesTable => UserRolesDao
func DaoName(table string) string {
	return strings.TrimSuffix(table, tableSuffix) + "Dao"
}

// DtoName returns the DTO type name of a model.
func DtoName(model string) string {
	return model + "Dto"
}

// ColumnName returns the SQL column name of c.
func ColumnName(c *load.Column) string {
	if c.ColumnName != "" {
		return c.ColumnName
	}
	return snake(c.Name)
}

// TableSQLName returns the SQL table name of t.
//
//	UserRolesTable => user_roles
func TableSQLName(t *load.Table) string {
	if t.SQLName != "" {
		return t.SQLName
	}
	return snake(strings.TrimSuffix(t.Name, tableSuffix))
}

// jsonName returns the transport name of a field.
//
//	CreatedOn => createdOn
//	ID        => id
func jsonName(field string) string {
	return inflect.CamelizeDownFirst(snake(field))
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// relPackage returns the slash-separated location of pkg relative to the
// namespace. Packages outside the namespace are placed by their last
// element. A leading "tables" segment is dropped, and every segment is
// reduced to a valid package name.
//
//	example.com/app/tables/user-profiles => userprofiles
func relPackage(namespace, pkg string) string {
	var rel string
	switch {
	case namespace != "" && pkg == namespace:
	case namespace != "" && strings.HasPrefix(pkg, namespace+"/"):
		rel = strings.TrimPrefix(pkg, namespace+"/")
	default:
		rel = path.Base(pkg)
	}
	segs := strings.Split(strings.ToLower(rel), "/")
	if i := slices.Index(segs, "tables"); i >= 0 {
		segs = segs[i+1:]
	}
	for i, seg := range segs {
		seg = nonIdent.ReplaceAllString(seg, "")
		if seg != "" && seg[0] >= '0' && seg[0] <= '9' {
			seg = "_" + seg
		}
		segs[i] = seg
	}
	return path.Join(segs...)
}

// daoPackage returns the location of the model and DAO of table t,
// relative to the DAO tree.
//
//	example.com/app/tables/users.UsersTable  => users
//	example.com/app/tables.UserRolesTable    => userroles
//	example.com/app/tables/auth.SessionsTable => auth/sessions
func daoPackage(namespace string, t *load.Table) string {
	rel := relPackage(namespace, t.Package)
	name := strings.ToLower(strings.TrimSuffix(t.Name, tableSuffix))
	if path.Base(rel) == name {
		return rel
	}
	return path.Join(rel, name)
}

// fileName returns the file name of a generated declaration.
func fileName(name, suffix string) string {
	name = snake(name)
	if suffix != "" {
		name += "_" + suffix
	}
	return name + ".go"
}
