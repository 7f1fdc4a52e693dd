package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/narrator/compiler/load"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		typ   *load.TypeRef
		bound []string
		want  Kind
	}{
		{"uuid", load.Named(uuidPkg, "UUID"), nil, KindIdentifier},
		{"nullable uuid", load.Named(uuidPkg, "UUID").Ptr(), nil, KindIdentifier},
		{"ref", load.Named(schemaPkg, "Ref", load.Named(testNS, "GroupsTable")), nil, KindIdentifier},
		{"int64", load.Basic("int64"), nil, KindWideInt},
		{"uint64", load.Basic("uint64"), nil, KindWideInt},
		{"int", load.Basic("int"), nil, KindWideInt},
		{"uint", load.Basic("uint"), nil, KindWideInt},
		{"int32", load.Basic("int32"), nil, KindPrimitive},
		{"time", load.Named("time", "Time"), nil, KindTimestamp},
		{"slice", load.SliceOf(load.Basic("string")), nil, KindCollection},
		{"bytes", load.SliceOf(load.Basic("byte")), nil, KindPrimitive},
		{"enum", load.EnumOf(testNS, "Status"), nil, KindEnum},
		{"record", load.Struct(testNS, "Address"), nil, KindRecord},
		{"string", load.Basic("string"), nil, KindPrimitive},
		{"map", load.MapOf(load.Basic("string"), load.Basic("int")), nil, KindPrimitive},
		{"external", load.Named("net/netip", "Addr"), nil, KindPrimitive},
		{"param", load.Param("T"), []string{"T"}, KindParam},
		{"unbound param", load.Param("T"), nil, KindParam},
		{"bound bare name", &load.TypeRef{Shape: load.ShapeNamed, Name: "T"}, []string{"T"}, KindParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.typ, tt.bound...))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "identifier", KindIdentifier.String())
	assert.Equal(t, "nested-record", KindRecord.String())
	assert.Equal(t, "unknown", Kind(200).String())
}

func TestModelType(t *testing.T) {
	ref := load.Named(schemaPkg, "Ref", load.Named(testNS, "GroupsTable")).Ptr()
	assert.Equal(t, load.Named(uuidPkg, "UUID").Ptr(), modelType(ref))
	s := load.Basic("string")
	assert.Same(t, s, modelType(s))
}

func TestSubstitute(t *testing.T) {
	status := load.EnumOf(testNS, "Status")
	address := load.Struct(testNS, "Address")
	ref := load.Named(schemaPkg, "Ref", load.Named(testNS, "GroupsTable"))
	id := load.Named(uuidPkg, "UUID")
	tm := load.Named("time", "Time")
	addr := load.Named("net/netip", "Addr")

	tests := []struct {
		name    string
		typ     *load.TypeRef
		dto     *load.TypeRef
		toDto   *FuncRef
		toModel *FuncRef
	}{
		{"identifier", id, dtoType("StringID"), dtoFunc("ToStringID"), dtoFunc("ToID")},
		{"nullable identifier", id.Ptr(), dtoType("StringID").Ptr(), dtoFunc("ToStringID"), dtoFunc("ToID")},
		{"reference", ref, dtoType("StringID"), dtoFunc("RefToStringID", ref.Args...), dtoFunc("ToRef", ref.Args...)},
		{"wide integer", load.Basic("int64"), dtoType("WideInt"), dtoFunc("ToWideIntDto", load.Basic("int64")), dtoFunc("ToWideInt", load.Basic("int64"))},
		{"nullable wide integer", load.Basic("uint").Ptr(), dtoType("WideInt").Ptr(), dtoFunc("ToWideIntDto", load.Basic("uint")), dtoFunc("ToWideInt", load.Basic("uint"))},
		{"timestamp", tm, dtoType("DateTime"), dtoFunc("ToDateTimeDto"), dtoFunc("ToDateTime")},
		{"enumeration", status, dtoType("Name", status), dtoFunc("Dto", status), dtoFunc("Enum", status)},
		{
			"nested record", address,
			load.Struct("example.com/app/gen/dtos", "AddressDto"),
			&FuncRef{Package: "example.com/app/gen/conversions", Name: "AddressToDto"},
			&FuncRef{Package: "example.com/app/gen/conversions", Name: "AddressToModel"},
		},
		{"primitive", load.Basic("string"), load.Basic("string"), nil, nil},
		{"external opaque", addr, addr, nil, nil},
		{"bytes", load.SliceOf(load.Basic("byte")), load.SliceOf(load.Basic("byte")), nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRun(t, testSchema())
			s, err := r.substitute(testOwner(), "Field", tt.typ, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.dto, s.Type)
			assert.Equal(t, tt.toDto, s.ToDto.Func)
			assert.Equal(t, tt.toModel, s.ToModel.Func)
			assert.Equal(t, tt.typ, s.ToDto.From)
			assert.Equal(t, tt.dto, s.ToDto.To)
			assert.Equal(t, tt.dto, s.ToModel.From)
			assert.Equal(t, tt.typ, s.ToModel.To)
			assert.Equal(t, tt.toDto == nil, s.ToDto.Identity())
		})
	}
}

func TestSubstituteCollection(t *testing.T) {
	r := newTestRun(t, testSchema())

	t.Run("converted elements", func(t *testing.T) {
		typ := load.SliceOf(load.Named("time", "Time"))
		s, err := r.substitute(testOwner(), "Times", typ, nil)
		require.NoError(t, err)
		assert.Equal(t, KindCollection, s.Kind)
		assert.Equal(t, load.SliceOf(dtoType("DateTime")), s.Type)
		require.NotNil(t, s.ToDto.Elem)
		assert.Equal(t, dtoFunc("ToDateTimeDto"), s.ToDto.Elem.Func)
		assert.Equal(t, dtoFunc("ToDateTime"), s.ToModel.Elem.Func)
		assert.False(t, s.ToDto.Identity())
	})

	t.Run("identity elements are copied", func(t *testing.T) {
		s, err := r.substitute(testOwner(), "Tags", load.SliceOf(load.Basic("string")), nil)
		require.NoError(t, err)
		assert.Equal(t, load.SliceOf(load.Basic("string")), s.Type)
		assert.True(t, s.ToDto.Identity())
		assert.True(t, s.ToModel.Identity())
	})

	t.Run("records inside collections", func(t *testing.T) {
		s, err := r.substitute(testOwner(), "Homes", load.SliceOf(load.Struct(testNS, "Address")).Ptr(), nil)
		require.NoError(t, err)
		assert.Equal(t, load.SliceOf(load.Struct("example.com/app/gen/dtos", "AddressDto")).Ptr(), s.Type)
		require.NotNil(t, s.Record)
		assert.Equal(t, testNS+".Address", s.Record.Key())
	})
}

func TestSubstituteTypeParams(t *testing.T) {
	r := newTestRun(t, testSchema())

	t.Run("bound parameters pass through", func(t *testing.T) {
		s, err := r.substitute(testOwner(), "Items", load.SliceOf(load.Param("T")), []string{"T"})
		require.NoError(t, err)
		assert.Equal(t, load.SliceOf(load.Param("T")), s.Type)
		assert.True(t, s.ToDto.Identity())
	})

	t.Run("unbound parameters are unresolved", func(t *testing.T) {
		_, err := r.substitute(testOwner(), "Items", load.Param("T"), nil)
		require.Error(t, err)
		assert.True(t, IsReferenceError(err))
	})

	t.Run("type arguments pass through", func(t *testing.T) {
		typ := load.Struct(testNS, "Page", load.Struct(testNS, "Address"))
		s, err := r.substitute(testOwner(), "Contacts", typ, nil)
		require.NoError(t, err)
		assert.Equal(t, load.Struct("example.com/app/gen/dtos", "PageDto", load.Struct(testNS, "Address")), s.Type)
		assert.Equal(t, typ.Args, s.ToDto.Func.TypeArgs)
	})

	t.Run("type argument count is checked", func(t *testing.T) {
		_, err := r.substitute(testOwner(), "Contacts", load.Struct(testNS, "Page"), nil)
		require.Error(t, err)
		assert.True(t, IsSchemaError(err))
	})
}

func TestSubstituteUnresolvedRecord(t *testing.T) {
	r := newTestRun(t, testSchema())
	_, err := r.substitute(testOwner(), "Home", load.Struct(testNS, "Missing"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
	assert.Contains(t, err.Error(), testNS+".Missing")
	assert.Contains(t, err.Error(), "field Home")
}
