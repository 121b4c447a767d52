package fibex

import (
	"fmt"

	"github.com/marmos91/someip/internal/logger"
)

// Primitive enumerates the scalar wire widths a FIBEX base-datatype or
// coding can resolve to (original_source/src/fibex.rs: FibexPrimitive).
type Primitive uint8

const (
	PrimitiveUnknown Primitive = iota
	PrimitiveBool
	PrimitiveUint8
	PrimitiveUint16
	PrimitiveUint24
	PrimitiveUint32
	PrimitiveUint64
	PrimitiveInt8
	PrimitiveInt16
	PrimitiveInt24
	PrimitiveInt32
	PrimitiveInt64
	PrimitiveFloat32
	PrimitiveFloat64
)

// ParsePrimitive maps a FIBEX base-datatype name (e.g. "UINT16") to a
// Primitive, or PrimitiveUnknown if unrecognized.
func ParsePrimitive(name string) Primitive {
	switch name {
	case "BOOL":
		return PrimitiveBool
	case "UINT8":
		return PrimitiveUint8
	case "UINT16":
		return PrimitiveUint16
	case "UINT24":
		return PrimitiveUint24
	case "UINT32":
		return PrimitiveUint32
	case "UINT64":
		return PrimitiveUint64
	case "INT8":
		return PrimitiveInt8
	case "INT16":
		return PrimitiveInt16
	case "INT24":
		return PrimitiveInt24
	case "INT32":
		return PrimitiveInt32
	case "INT64":
		return PrimitiveInt64
	case "FLOAT32":
		return PrimitiveFloat32
	case "FLOAT64":
		return PrimitiveFloat64
	default:
		return PrimitiveUnknown
	}
}

// IsUnsigned reports whether p is one of the unsigned integer widths,
// the only primitives an Enum may be backed by (spec.md §4.5, §4.10).
func (p Primitive) IsUnsigned() bool {
	switch p {
	case PrimitiveUint8, PrimitiveUint16, PrimitiveUint24, PrimitiveUint32, PrimitiveUint64:
		return true
	default:
		return false
	}
}

// StringEncoding enumerates the two FIBEX coding encodings that resolve to
// a string datatype (UCS-2 is a UTF-16 subset and is folded into UTF16).
type StringEncoding uint8

const (
	StringEncodingUnknown StringEncoding = iota
	StringEncodingUTF8
	StringEncodingUTF16
)

// ParseStringEncoding maps a FIBEX coding ENCODING value to a
// StringEncoding.
func ParseStringEncoding(name string) StringEncoding {
	switch name {
	case "UTF-8":
		return StringEncodingUTF8
	case "UTF-16", "UCS-2":
		return StringEncodingUTF16
	default:
		return StringEncodingUnknown
	}
}

// DatatypeKind tags the closed set of concrete Datatype shapes a
// TypeInstance can hold.
type DatatypeKind uint8

const (
	DatatypeUnknown DatatypeKind = iota
	DatatypePrimitive
	DatatypeStruct
	DatatypeEnum
	DatatypeString
)

// Datatype is implemented by every concrete resolved type shape.
type Datatype interface {
	Kind() DatatypeKind
}

// UnknownDatatype marks a TypeInstance whose coding never resolved to a
// concrete shape.
type UnknownDatatype struct{}

func (UnknownDatatype) Kind() DatatypeKind { return DatatypeUnknown }

// PrimitiveDatatype is a scalar leaf.
type PrimitiveDatatype struct {
	Primitive Primitive
}

func (PrimitiveDatatype) Kind() DatatypeKind { return DatatypePrimitive }

// StructDatatype is an ordered list of member declarations.
type StructDatatype struct {
	Members []*TypeDeclaration
}

func (StructDatatype) Kind() DatatypeKind { return DatatypeStruct }

// EnumVariant names one (symbolic-name, numeric-value) pair, the value
// still in its FIBEX source text form until the builder parses it against
// the resolved primitive width.
type EnumVariant struct {
	Name  string
	Value string
}

// EnumDatatype is a named-variant selector over a primitive width,
// resolved from its coding reference during packing.
type EnumDatatype struct {
	Primitive Primitive
	Variants  []EnumVariant
}

func (EnumDatatype) Kind() DatatypeKind { return DatatypeEnum }

// StringDatatype is a FIBEX string coding's resolved shape.
type StringDatatype struct {
	Encoding        StringEncoding
	Dynamic         bool
	HasBOM          bool
	HasTermination  bool
	MinLengthBits   *int
	MaxLengthBits   *int
	BitLength       *int
}

func (StringDatatype) Kind() DatatypeKind { return DatatypeString }

// ArrayDimension is one dimension of a multi-dimensional array
// declaration.
type ArrayDimension struct {
	Index    int
	Min, Max int
}

// IsDynamic reports whether this dimension's cardinality varies.
func (d ArrayDimension) IsDynamic() bool { return d.Min != d.Max }

// TypeInstance is a named, resolvable type shared by every
// TypeDeclaration that references it by id (original_source/src/fibex.rs:
// FibexTypeReference — an Rc<RefCell<...>> in the original; a plain
// pointer suffices in Go since the model is read-only once packed).
type TypeInstance struct {
	ID        string
	Name      string
	Datatype  Datatype
	CodingRef string
}

// TypeDeclaration is one use-site of a type: a struct member, a method's
// request/response, or an array's element. Attributes are stored as
// explicit optional fields rather than an attribute list, since Go has no
// need for FIBEX's attribute-vector indirection once parsed.
type TypeDeclaration struct {
	ID    string
	Name  string
	IDRef string

	TypeRef *TypeInstance

	HighLowByteOrder  *bool
	LengthFieldBits    *int
	ArrayLengthFieldBits *int
	TypeLengthFieldBits  *int
	ArrayDimensions   []ArrayDimension
	BitLength         *int
	MinBitLength      *int
	MaxBitLength      *int
	Position          int
}

// IsHighLowByteOrder reports the declaration's byte order, defaulting to
// big-endian ("high-low") when unspecified.
func (d *TypeDeclaration) IsHighLowByteOrder() bool {
	if d.HighLowByteOrder == nil {
		return true
	}
	return *d.HighLowByteOrder
}

// IsArray reports whether d declares one or more array dimensions.
func (d *TypeDeclaration) IsArray() bool { return len(d.ArrayDimensions) > 0 }

// IsMultiDimArray reports whether d declares more than one array
// dimension.
func (d *TypeDeclaration) IsMultiDimArray() bool { return len(d.ArrayDimensions) > 1 }

// DowndimArray returns a copy of d with its outermost array dimension
// removed, used to recurse into a nested dimension's element schema.
func (d *TypeDeclaration) DowndimArray() *TypeDeclaration {
	clone := *d
	if len(d.ArrayDimensions) > 0 {
		clone.ArrayDimensions = append([]ArrayDimension(nil), d.ArrayDimensions[1:]...)
	}
	return &clone
}

// NumArrayDimensions returns how many array dimensions d declares.
func (d *TypeDeclaration) NumArrayDimensions() int { return len(d.ArrayDimensions) }

// GetArrayDimension returns d's outermost array dimension; callers must
// check IsArray first.
func (d *TypeDeclaration) GetArrayDimension() ArrayDimension { return d.ArrayDimensions[0] }

// GetPosition returns d's declared struct-member position, defaulting to
// 0 when never set.
func (d *TypeDeclaration) GetPosition() int { return d.Position }

// LengthFieldSize returns the element length-field width in bytes,
// defaulting to 4 when the attribute is absent (spec.md §9's default
// length-field-size Open Question).
func (d *TypeDeclaration) LengthFieldSize() int {
	if d.LengthFieldBits == nil {
		return 4
	}
	return *d.LengthFieldBits / 8
}

// ArrayLengthFieldSize returns the array length-field width in bytes,
// defaulting to 4 when absent.
func (d *TypeDeclaration) ArrayLengthFieldSize() int {
	if d.ArrayLengthFieldBits == nil {
		return 4
	}
	return *d.ArrayLengthFieldBits / 8
}

// TypeLengthFieldSize returns the type-selector field width in bytes,
// defaulting to 4 when absent.
func (d *TypeDeclaration) TypeLengthFieldSize() int {
	if d.TypeLengthFieldBits == nil {
		return 4
	}
	return *d.TypeLengthFieldBits / 8
}

// GetBitLength, GetMinBitLength and GetMaxBitLength report d's declared
// bit-length bounds, or nil when the attribute was never set.
func (d *TypeDeclaration) GetBitLength() *int    { return d.BitLength }
func (d *TypeDeclaration) GetMinBitLength() *int { return d.MinBitLength }
func (d *TypeDeclaration) GetMaxBitLength() *int { return d.MaxBitLength }

// ServiceMethod is one RPC or event of a ServiceInterface.
type ServiceMethod struct {
	ID       string
	Name     string
	MethodID int
	Request  *TypeDeclaration
	Response *TypeDeclaration
}

// ServiceInterface is one FIBEX SERVICE-INTERFACE: a service id/version
// pair and its methods (including Field-derived getters/setters/notifiers,
// spec.md §4.9).
type ServiceInterface struct {
	ID           string
	Name         string
	ServiceID    int
	MajorVersion int
	MinorVersion int
	Methods      []*ServiceMethod
}

// GetMethod looks up a method by its numeric id.
func (s *ServiceInterface) GetMethod(methodID int) *ServiceMethod {
	for _, m := range s.Methods {
		if m.MethodID == methodID {
			return m
		}
	}
	return nil
}

// TypeCoding is a FIBEX CODING element: the low-level encoding rules a
// TypeInstance's coding_ref points at.
type TypeCoding struct {
	ID           string
	Name         string
	BaseType     string
	Encoding     string
	Category     string
	HasBOM       bool
	HasTermination bool
	BitLength    *int
	MinBitLength *int
	MaxBitLength *int
}

const stringCategoryDynamic = "LEADING-LENGTH-INFO-TYPE"

func (c *TypeCoding) stringEncoding() StringEncoding { return ParseStringEncoding(c.Encoding) }

func (c *TypeCoding) isString() bool { return c.stringEncoding() != StringEncodingUnknown }

func (c *TypeCoding) isDynamic() bool { return c.Category == stringCategoryDynamic }

// Resolve turns a coding into a concrete Datatype: a String when its
// encoding names UTF-8/UTF-16/UCS-2, else a Primitive when its base-type
// (directly, or via an "A_<NAME>" prefix) names a known primitive width.
// Returns nil when neither applies.
func (c *TypeCoding) Resolve() Datatype {
	if c.isString() {
		return StringDatatype{
			Encoding:       c.stringEncoding(),
			Dynamic:        c.isDynamic(),
			HasBOM:         c.HasBOM,
			HasTermination: c.HasTermination,
			MinLengthBits:  c.MinBitLength,
			MaxLengthBits:  c.MaxBitLength,
			BitLength:      c.BitLength,
		}
	}

	if p := ParsePrimitive(c.BaseType); p != PrimitiveUnknown {
		return PrimitiveDatatype{Primitive: p}
	}
	if after, ok := stripAPrefix(c.BaseType); ok {
		if p := ParsePrimitive(after); p != PrimitiveUnknown {
			return PrimitiveDatatype{Primitive: p}
		}
	}
	return nil
}

func stripAPrefix(s string) (string, bool) {
	const prefix = "A_"
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):], true
	}
	return "", false
}

// Model is the fully-loaded FIBEX document: every service interface and
// every referenced type, ready for SchemaBuilder to turn a
// TypeDeclaration into a codec tree.
type Model struct {
	Services []*ServiceInterface
	Types    []*TypeInstance
	codings  []*TypeCoding
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{}
}

// GetService looks up a service by id and major version.
func (m *Model) GetService(serviceID, majorVersion int) *ServiceInterface {
	for _, s := range m.Services {
		if s.ServiceID == serviceID && s.MajorVersion == majorVersion {
			return s
		}
	}
	return nil
}

// Pack resolves coding references into concrete datatypes and struct
// member id-refs into their target TypeInstance, in that order (coding
// resolution must happen first since a struct member's own element type
// may itself still be Unknown). In strict mode an unresolved struct
// member reference is an error; otherwise it is logged as a warning and
// left nil.
func (m *Model) Pack(strict bool) error {
	byID := make(map[string]*TypeInstance)

	for _, inst := range m.Types {
		if inst.CodingRef != "" {
			if _, ok := inst.Datatype.(UnknownDatatype); ok {
				if dt := m.resolveCoding(inst.CodingRef); dt != nil {
					inst.Datatype = dt
				}
			}
			if enum, ok := inst.Datatype.(EnumDatatype); ok {
				if dt := m.resolveCoding(inst.CodingRef); dt != nil {
					if prim, ok := dt.(PrimitiveDatatype); ok {
						enum.Primitive = prim.Primitive
						inst.Datatype = enum
					}
				}
			}
		}

		if _, ok := inst.Datatype.(UnknownDatatype); ok {
			continue
		}
		byID[inst.ID] = inst
	}

	for _, inst := range m.Types {
		if s, ok := inst.Datatype.(StructDatatype); ok {
			for _, member := range s.Members {
				if err := resolveReference(byID, member, strict); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (m *Model) resolveCoding(codingRef string) Datatype {
	for _, c := range m.codings {
		if c.ID == codingRef {
			return c.Resolve()
		}
	}
	return nil
}

func resolveReference(types map[string]*TypeInstance, decl *TypeDeclaration, strict bool) error {
	if decl.TypeRef != nil {
		return nil
	}
	if target, ok := types[decl.IDRef]; ok {
		decl.TypeRef = target
		return nil
	}
	message := fmt.Sprintf("unresolved reference %s at %s", decl.IDRef, decl.ID)
	if strict {
		return NewParseError(message)
	}
	logger.Warn(message, logger.IDRef(decl.IDRef), logger.TypeID(decl.ID))
	return nil
}
