// Package fibex2som turns a resolved FIBEX type declaration into a
// concrete codec tree (spec.md §4.10). Where the original dispatches
// across a large family of monomorphized array/struct-member variants to
// work around the absence of dynamic generics, the Go codec tree already
// generalizes over any element kind through som.Node and a closure
// constructor, so one recursive Build collapses the whole dispatch.
package fibex2som

import (
	"strconv"

	"github.com/marmos91/someip/pkg/someip/fibex"
	"github.com/marmos91/someip/pkg/someip/som"
)

// Build recursively turns decl into a codec tree node, dispatching first
// on array dimensions and then on the referenced type's resolved
// datatype (spec.md §4.10).
func Build(decl *fibex.TypeDeclaration) (som.Node, error) {
	if decl.IsArray() {
		return buildArray(decl)
	}
	if decl.TypeRef == nil {
		return nil, fibex.NewResolveError("unresolved reference " + decl.IDRef + " at " + decl.ID)
	}

	meta := som.Meta{Name: decl.Name, Description: decl.TypeRef.Name}
	endian := endianFor(decl)

	switch dt := decl.TypeRef.Datatype.(type) {
	case fibex.PrimitiveDatatype:
		return buildPrimitive(meta, dt.Primitive, endian)
	case fibex.StructDatatype:
		return buildStruct(meta, dt)
	case fibex.EnumDatatype:
		return buildEnum(meta, dt, endian)
	case fibex.StringDatatype:
		return buildString(meta, dt, decl, endian)
	default:
		return nil, fibex.NewResolveError("unsupported type " + decl.TypeRef.Name + " at " + decl.ID)
	}
}

func endianFor(decl *fibex.TypeDeclaration) som.Endian {
	if decl.IsHighLowByteOrder() {
		return som.BigEndian
	}
	return som.LittleEndian
}

func buildArray(decl *fibex.TypeDeclaration) (som.Node, error) {
	dimension := decl.GetArrayDimension()
	element := decl.DowndimArray()

	name := element.Name
	description := ""
	if element.TypeRef != nil {
		description = element.TypeRef.Name
	}
	element.Name = ""

	// Build once to surface any error before wiring the closure; Build is
	// deterministic over decl, so every later call succeeds too.
	if _, err := Build(element); err != nil {
		return nil, err
	}
	makeElement := func() som.Node {
		node, _ := Build(element)
		return node
	}

	var arr *som.ArrayNode
	if dimension.IsDynamic() {
		arr = som.NewDynamicArray(decl.ArrayLengthFieldSize(), dimension.Min, dimension.Max, makeElement)
	} else {
		arr = som.NewFixedArray(dimension.Max, makeElement)
	}
	arr.Meta = som.Meta{Name: name, Description: description}
	return arr, nil
}

func buildPrimitive(meta som.Meta, p fibex.Primitive, endian som.Endian) (som.Node, error) {
	switch p {
	case fibex.PrimitiveBool:
		n := som.NewBool()
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveUint8:
		n := som.NewU8()
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveInt8:
		n := som.NewI8()
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveUint16:
		n := som.NewU16(endian)
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveInt16:
		n := som.NewI16(endian)
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveUint24:
		n := som.NewU24(endian)
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveInt24:
		n := som.NewI24(endian)
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveUint32:
		n := som.NewU32(endian)
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveInt32:
		n := som.NewI32(endian)
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveUint64:
		n := som.NewU64(endian)
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveInt64:
		n := som.NewI64(endian)
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveFloat32:
		n := som.NewF32(endian)
		n.Meta = meta
		return n, nil
	case fibex.PrimitiveFloat64:
		n := som.NewF64(endian)
		n.Meta = meta
		return n, nil
	default:
		return nil, fibex.NewResolveError("unsupported primitive type")
	}
}

func buildStruct(meta som.Meta, dt fibex.StructDatatype) (som.Node, error) {
	members := make([]som.Node, 0, len(dt.Members))
	for _, m := range dt.Members {
		node, err := Build(m)
		if err != nil {
			return nil, err
		}
		members = append(members, node)
	}
	st := som.NewStruct(members...)
	st.Meta = meta
	return st, nil
}

func buildEnum(meta som.Meta, dt fibex.EnumDatatype, endian som.Endian) (som.Node, error) {
	var width som.Kind
	var bits int
	switch dt.Primitive {
	case fibex.PrimitiveUint8:
		width, bits = som.KindU8, 8
	case fibex.PrimitiveUint16:
		width, bits = som.KindU16, 16
	case fibex.PrimitiveUint32:
		width, bits = som.KindU32, 32
	case fibex.PrimitiveUint64:
		width, bits = som.KindU64, 64
	default:
		return nil, fibex.NewResolveError("unsupported enum primitive")
	}

	variants := make([]som.EnumVariant, 0, len(dt.Variants))
	for _, v := range dt.Variants {
		value, err := strconv.ParseUint(v.Value, 10, bits)
		if err != nil {
			continue
		}
		variants = append(variants, som.EnumVariant{Name: v.Name, Value: value})
	}

	n := som.NewEnum(width, endian, variants...)
	n.Meta = meta
	return n, nil
}

func buildString(meta som.Meta, dt fibex.StringDatatype, decl *fibex.TypeDeclaration, endian som.Endian) (som.Node, error) {
	var encoding som.StringEncoding
	switch dt.Encoding {
	case fibex.StringEncodingUTF8:
		encoding = som.UTF8
	case fibex.StringEncodingUTF16:
		if endian == som.BigEndian {
			encoding = som.UTF16BE
		} else {
			encoding = som.UTF16LE
		}
	default:
		return nil, fibex.NewResolveError("unsupported string encoding")
	}

	var format som.StringFormat
	switch {
	case dt.HasBOM && dt.HasTermination:
		format = som.WithBOMAndTermination
	case dt.HasBOM:
		format = som.WithBOM
	case dt.HasTermination:
		format = som.WithTermination
	default:
		format = som.Plain
	}

	min := 0
	switch {
	case decl.MinBitLength != nil:
		min = *decl.MinBitLength / 8
	case dt.MinLengthBits != nil:
		min = *dt.MinLengthBits / 8
	}

	max := 0
	switch {
	case decl.BitLength != nil:
		max = *decl.BitLength / 8
	case decl.MaxBitLength != nil:
		max = *decl.MaxBitLength / 8
	case dt.BitLength != nil:
		max = *dt.BitLength / 8
	case dt.MaxLengthBits != nil:
		max = *dt.MaxLengthBits / 8
	}

	if dt.Dynamic {
		node, err := som.NewDynamicString(encoding, format, decl.LengthFieldSize(), min, max)
		if err != nil {
			return nil, err
		}
		node.Meta = meta
		return node, nil
	}

	node, err := som.NewFixedString(encoding, format, max)
	if err != nil {
		return nil, err
	}
	node.Meta = meta
	return node, nil
}
