package schema

// FieldType names the storage type of a field. It is either one of the
// scalar types below or the name of an enumeration declared in the shape.
type FieldType string

// Scalar field types.
const (
	Uint8   FieldType = "uint8"
	Uint16  FieldType = "uint16"
	Uint32  FieldType = "uint32"
	Uint64  FieldType = "uint64"
	Int8    FieldType = "int8"
	Int16   FieldType = "int16"
	Int32   FieldType = "int32"
	Int64   FieldType = "int64"
	Float32 FieldType = "float32"
	Float64 FieldType = "float64"
	Bool    FieldType = "bool"
)

// TypeInfo describes how a scalar maps onto Go and Arrow.
type TypeInfo struct {
	// GoType is the element type of the column slice
	GoType string
	// ArrowType is the Go expression for the arrow.DataType
	ArrowType string
	// Builder is the concrete array builder type
	Builder string
	// Array is the concrete array type
	Array string
	// ValuesMethod returns the backing slice of Array, empty for bool
	ValuesMethod string
	// Floating marks float columns, which cannot be keys
	Floating bool
}

var scalarTypes = map[FieldType]TypeInfo{
	Uint8:   primitive("uint8", "Uint8"),
	Uint16:  primitive("uint16", "Uint16"),
	Uint32:  primitive("uint32", "Uint32"),
	Uint64:  primitive("uint64", "Uint64"),
	Int8:    primitive("int8", "Int8"),
	Int16:   primitive("int16", "Int16"),
	Int32:   primitive("int32", "Int32"),
	Int64:   primitive("int64", "Int64"),
	Float32: floating("float32", "Float32"),
	Float64: floating("float64", "Float64"),
	Bool:    boolean(),
}

func boolean() TypeInfo {
	return TypeInfo{
		GoType:    "bool",
		ArrowType: "arrow.FixedWidthTypes.Boolean",
		Builder:   "array.BooleanBuilder",
		Array:     "array.Boolean",
	}
}

func primitive(goType, arrowName string) TypeInfo {
	return TypeInfo{
		GoType:       goType,
		ArrowType:    "arrow.PrimitiveTypes." + arrowName,
		Builder:      "array." + arrowName + "Builder",
		Array:        "array." + arrowName,
		ValuesMethod: arrowName + "Values",
	}
}

func floating(goType, arrowName string) TypeInfo {
	ti := primitive(goType, arrowName)
	ti.Floating = true
	return ti
}

// LookupType returns the descriptor of a scalar type.
func LookupType(t FieldType) (TypeInfo, bool) {
	ti, ok := scalarTypes[t]
	return ti, ok
}

// IsScalar reports whether t is a built-in scalar type.
func (t FieldType) IsScalar() bool {
	_, ok := scalarTypes[t]
	return ok
}

// EnumStorage is the descriptor used for every enumeration column.
func EnumStorage() TypeInfo {
	return scalarTypes[Uint8]
}
