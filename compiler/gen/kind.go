package gen

import (
	"slices"

	"github.com/syssam/narrator/compiler/load"
)

// Import paths of the types and runtime packages the classifier knows.
const (
	uuidPkg   = "github.com/google/uuid"
	schemaPkg = "github.com/syssam/narrator/schema"
	daoPkg    = "github.com/syssam/narrator/dao"
	dtoPkg    = "github.com/syssam/narrator/dto"
	dialPkg   = "github.com/syssam/narrator/dialect"
)

// Kind is the semantic class of a column type. It selects the DTO type and
// the conversion of the column.
type Kind uint8

// Type kinds.
const (
	KindPrimitive  Kind = iota // passed through unchanged
	KindIdentifier             // uuid.UUID or schema.Ref[T]
	KindTimestamp              // time.Time
	KindWideInt                // 64-bit and platform integers
	KindCollection             // []T, except []byte
	KindEnum                   // string type with declared constants
	KindRecord                 // nested struct of the schema
	KindParam                  // type parameter of the enclosing record
)

var kindNames = [...]string{
	KindPrimitive:  "primitive",
	KindIdentifier: "identifier",
	KindTimestamp:  "timestamp",
	KindWideInt:    "wide-integer",
	KindCollection: "collection",
	KindEnum:       "enumeration",
	KindRecord:     "nested-record",
	KindParam:      "type-parameter",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Classify returns the kind of t. A type parameter, or an unqualified name
// listed in bound, is KindParam.
func Classify(t *load.TypeRef, bound ...string) Kind {
	switch t.Shape {
	case load.ShapeParam:
		return KindParam
	case load.ShapeBasic:
		switch t.Name {
		case "int", "int64", "uint", "uint64":
			return KindWideInt
		}
	case load.ShapeSlice:
		if e := t.Elem(); e != nil && e.Shape == load.ShapeBasic && (e.Name == "byte" || e.Name == "uint8") {
			return KindPrimitive
		}
		return KindCollection
	case load.ShapeNamed:
		switch {
		case t.Package == "" && slices.Contains(bound, t.Name):
			return KindParam
		case t.Is(uuidPkg, "UUID"), isRef(t):
			return KindIdentifier
		case t.Is("time", "Time"):
			return KindTimestamp
		case t.Decl == load.DeclEnum:
			return KindEnum
		case t.Decl == load.DeclStruct:
			return KindRecord
		}
	}
	return KindPrimitive
}

// isRef reports whether t is a schema.Ref[T].
func isRef(t *load.TypeRef) bool {
	return t.Is(schemaPkg, "Ref")
}

// modelType returns the model form of a table column type: references
// become plain UUIDs.
func modelType(t *load.TypeRef) *load.TypeRef {
	if isRef(t) {
		id := load.Named(uuidPkg, "UUID")
		id.Nullable = t.Nullable
		return id
	}
	return t
}

// FuncRef names a conversion function.
type FuncRef struct {
	Package  string
	Name     string
	TypeArgs []*load.TypeRef
}

// Conv converts a value of type From to type To. A Conv with neither Func
// nor Elem is an identity. Nullable values convert through dto.Ptr and
// collections through dto.Slice.
type Conv struct {
	From, To *load.TypeRef
	// Func converts one non-nil value.
	Func *FuncRef
	// Elem converts the elements of a collection.
	Elem *Conv
}

// Identity reports whether the value is copied unchanged.
func (c *Conv) Identity() bool {
	return c.Func == nil && (c.Elem == nil || c.Elem.Identity())
}

// Substitution is the DTO side of a model type.
type Substitution struct {
	Kind    Kind
	Type    *load.TypeRef // DTO type
	ToDto   *Conv
	ToModel *Conv
	// Record is the nested record model, for KindRecord.
	Record *ModelDescriptor
}

// runtime helpers of the dto package.
func dtoType(name string, args ...*load.TypeRef) *load.TypeRef {
	return load.Named(dtoPkg, name, args...)
}

func dtoFunc(name string, args ...*load.TypeRef) *FuncRef {
	return &FuncRef{Package: dtoPkg, Name: name, TypeArgs: args}
}

// nullable returns a copy of t with the nullability of like.
func nullable(t, like *load.TypeRef) *load.TypeRef {
	if like.Nullable {
		return t.Ptr()
	}
	return t.NonNull()
}

// pair builds the two conversions between model type m and DTO type d.
func pair(m, d *load.TypeRef, toDto, toModel *FuncRef) (*Conv, *Conv) {
	return &Conv{From: m, To: d, Func: toDto}, &Conv{From: d, To: m, Func: toModel}
}

// builtin returns the substitution of the kinds converted by the dto
// runtime package. ok is false for collections, records and parameters.
func builtin(kind Kind, t *load.TypeRef) (s *Substitution, ok bool) {
	base := t.NonNull()
	s = &Substitution{Kind: kind}
	switch kind {
	case KindPrimitive:
		s.Type = t
		s.ToDto, s.ToModel = &Conv{From: t, To: t}, &Conv{From: t, To: t}
	case KindIdentifier:
		s.Type = nullable(dtoType("StringID"), t)
		if isRef(t) {
			s.ToDto, s.ToModel = pair(t, s.Type, dtoFunc("RefToStringID", base.Args...), dtoFunc("ToRef", base.Args...))
		} else {
			s.ToDto, s.ToModel = pair(t, s.Type, dtoFunc("ToStringID"), dtoFunc("ToID"))
		}
	case KindWideInt:
		s.Type = nullable(dtoType("WideInt"), t)
		s.ToDto, s.ToModel = pair(t, s.Type, dtoFunc("ToWideIntDto", base), dtoFunc("ToWideInt", base))
	case KindTimestamp:
		s.Type = nullable(dtoType("DateTime"), t)
		s.ToDto, s.ToModel = pair(t, s.Type, dtoFunc("ToDateTimeDto"), dtoFunc("ToDateTime"))
	case KindEnum:
		s.Type = nullable(dtoType("Name", base), t)
		s.ToDto, s.ToModel = pair(t, s.Type, dtoFunc("Dto", base), dtoFunc("Enum", base))
	default:
		return nil, false
	}
	return s, true
}
