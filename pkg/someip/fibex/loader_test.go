package fibex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `<?xml version="1.0"?>
<FIBEX>
  <PROCESSING-INFORMATION>
    <CODING ID="coding/uint8">
      <SHORT-NAME>UINT8</SHORT-NAME>
      <CODED-TYPE BASE-DATA-TYPE="A_UINT8"></CODED-TYPE>
    </CODING>
    <CODING ID="coding/string">
      <SHORT-NAME>STRING</SHORT-NAME>
      <CODED-TYPE ENCODING="UTF-8" CATEGORY="LEADING-LENGTH-INFO-TYPE"></CODED-TYPE>
      <MAX-LENGTH>2040</MAX-LENGTH>
    </CODING>
  </PROCESSING-INFORMATION>
  <DATATYPE ID="datatype/uint8" type="COMMON-DATATYPE-TYPE">
    <SHORT-NAME>UINT8</SHORT-NAME>
    <CODING-REF ID-REF="coding/uint8"/>
  </DATATYPE>
  <DATATYPE ID="datatype/name" type="COMMON-DATATYPE-TYPE">
    <SHORT-NAME>STRING</SHORT-NAME>
    <CODING-REF ID-REF="coding/string"/>
  </DATATYPE>
  <DATATYPE ID="datatype/status" type="ENUM-DATATYPE-TYPE">
    <SHORT-NAME>Status</SHORT-NAME>
    <CODING-REF ID-REF="coding/uint8"/>
    <ENUM-ELEMENT>
      <SYNONYM>OFF</SYNONYM>
      <VALUE>0</VALUE>
    </ENUM-ELEMENT>
    <ENUM-ELEMENT>
      <SYNONYM>ON</SYNONYM>
      <VALUE>1</VALUE>
    </ENUM-ELEMENT>
  </DATATYPE>
  <DATATYPE ID="datatype/point" type="COMPLEX-DATATYPE-TYPE">
    <SHORT-NAME>Point</SHORT-NAME>
    <COMPLEX-DATATYPE-CLASS>STRUCTURE</COMPLEX-DATATYPE-CLASS>
    <MEMBER ID="datatype/point/x">
      <SHORT-NAME>x</SHORT-NAME>
      <DATATYPE-REF ID-REF="datatype/uint8"/>
      <POSITION>0</POSITION>
    </MEMBER>
    <MEMBER ID="datatype/point/y">
      <SHORT-NAME>y</SHORT-NAME>
      <DATATYPE-REF ID-REF="datatype/uint8"/>
      <POSITION>1</POSITION>
    </MEMBER>
  </DATATYPE>
  <SERVICE-INTERFACE ID="service/example">
    <SHORT-NAME>example</SHORT-NAME>
    <SERVICE-IDENTIFIER>4660</SERVICE-IDENTIFIER>
    <MAJOR>1</MAJOR>
    <MINOR>0</MINOR>
    <METHOD ID="method/setStatus">
      <SHORT-NAME>SetStatus</SHORT-NAME>
      <METHOD-IDENTIFIER>1</METHOD-IDENTIFIER>
      <INPUT-PARAMETERS>
        <INPUT-PARAMETER ID="method/setStatus/in/status">
          <SHORT-NAME>Status</SHORT-NAME>
          <DATATYPE-REF ID-REF="datatype/status"/>
          <POSITION>0</POSITION>
        </INPUT-PARAMETER>
      </INPUT-PARAMETERS>
      <RETURN-PARAMETERS>
        <RETURN-PARAMETER ID="method/setStatus/out/ok">
          <SHORT-NAME>Ok</SHORT-NAME>
          <DATATYPE-REF ID-REF="datatype/uint8"/>
          <POSITION>0</POSITION>
        </RETURN-PARAMETER>
      </RETURN-PARAMETERS>
    </METHOD>
    <FIELD ID="field/name">
      <SHORT-NAME>Name</SHORT-NAME>
      <DATATYPE-REF ID-REF="datatype/name"/>
      <GETTER>
        <METHOD-IDENTIFIER>10</METHOD-IDENTIFIER>
      </GETTER>
    </FIELD>
  </SERVICE-INTERFACE>
</FIBEX>`

// ============================================================================
// Load: services, methods, fields
// ============================================================================

func TestLoad_ParsesServiceAndMethod(t *testing.T) {
	t.Parallel()

	model, err := Load(strings.NewReader(sampleDocument))
	require.NoError(t, err)
	require.Len(t, model.Services, 1)

	svc := model.Services[0]
	assert.Equal(t, "Example", svc.Name)
	assert.Equal(t, 4660, svc.ServiceID)
	assert.Equal(t, 1, svc.MajorVersion)

	method := svc.GetMethod(1)
	require.NotNil(t, method)
	assert.Equal(t, "setStatus", method.Name)
	require.NotNil(t, method.Request)
	require.NotNil(t, method.Response)
}

func TestLoad_FieldSynthesizesGetter(t *testing.T) {
	t.Parallel()

	model, err := Load(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	svc := model.GetService(4660, 1)
	require.NotNil(t, svc)

	getter := svc.GetMethod(10)
	require.NotNil(t, getter)
	assert.Equal(t, "getName", getter.Name)
	assert.Nil(t, getter.Request)
	require.NotNil(t, getter.Response)
	require.NotNil(t, getter.Response.TypeRef)
}

// ============================================================================
// Pack: coding resolution and struct member references
// ============================================================================

func TestLoad_ResolvesPrimitiveCoding(t *testing.T) {
	t.Parallel()

	model, err := Load(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	svc := model.GetService(4660, 1)
	method := svc.GetMethod(1)

	members := method.Request.TypeRef.Datatype.(StructDatatype).Members
	require.Len(t, members, 1)
	statusDecl := members[0]
	require.NotNil(t, statusDecl.TypeRef)

	enumDT, ok := statusDecl.TypeRef.Datatype.(EnumDatatype)
	require.True(t, ok)
	assert.Equal(t, PrimitiveUint8, enumDT.Primitive)
	require.Len(t, enumDT.Variants, 2)
	assert.Equal(t, "ON", enumDT.Variants[1].Name)
}

func TestLoad_ResolvesStructMembers(t *testing.T) {
	t.Parallel()

	doc := sampleDocument + "" // reuse
	model, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	var point *TypeInstance
	for _, ty := range model.Types {
		if ty.ID == "datatype/point" {
			point = ty
		}
	}
	require.NotNil(t, point)
	s, ok := point.Datatype.(StructDatatype)
	require.True(t, ok)
	require.Len(t, s.Members, 2)
	assert.NotNil(t, s.Members[0].TypeRef)
	assert.NotNil(t, s.Members[1].TypeRef)
}

func TestLoad_StrictFailsOnUnresolvedReference(t *testing.T) {
	t.Parallel()

	broken := `<FIBEX>
  <DATATYPE ID="datatype/bad" type="COMPLEX-DATATYPE-TYPE">
    <SHORT-NAME>Bad</SHORT-NAME>
    <COMPLEX-DATATYPE-CLASS>STRUCTURE</COMPLEX-DATATYPE-CLASS>
    <MEMBER ID="datatype/bad/x">
      <SHORT-NAME>x</SHORT-NAME>
      <DATATYPE-REF ID-REF="datatype/does-not-exist"/>
      <POSITION>0</POSITION>
    </MEMBER>
  </DATATYPE>
</FIBEX>`

	_, err := Load(strings.NewReader(broken))
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestTryLoad_TolerantOfUnresolvedReference(t *testing.T) {
	t.Parallel()

	broken := `<FIBEX>
  <DATATYPE ID="datatype/bad" type="COMPLEX-DATATYPE-TYPE">
    <SHORT-NAME>Bad</SHORT-NAME>
    <COMPLEX-DATATYPE-CLASS>STRUCTURE</COMPLEX-DATATYPE-CLASS>
    <MEMBER ID="datatype/bad/x">
      <SHORT-NAME>x</SHORT-NAME>
      <DATATYPE-REF ID-REF="datatype/does-not-exist"/>
      <POSITION>0</POSITION>
    </MEMBER>
  </DATATYPE>
</FIBEX>`

	model, err := TryLoad(strings.NewReader(broken))
	require.NoError(t, err)

	var bad *TypeInstance
	for _, ty := range model.Types {
		if ty.ID == "datatype/bad" {
			bad = ty
		}
	}
	require.NotNil(t, bad)
	member := bad.Datatype.(StructDatatype).Members[0]
	assert.Nil(t, member.TypeRef)
}

// ============================================================================
// Primitive / string-encoding parsing
// ============================================================================

func TestParsePrimitive(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PrimitiveUint16, ParsePrimitive("UINT16"))
	assert.Equal(t, PrimitiveFloat64, ParsePrimitive("FLOAT64"))
	assert.Equal(t, PrimitiveUnknown, ParsePrimitive("NOT-A-TYPE"))
}

func TestPrimitive_IsUnsigned(t *testing.T) {
	t.Parallel()

	assert.True(t, PrimitiveUint32.IsUnsigned())
	assert.False(t, PrimitiveInt32.IsUnsigned())
	assert.False(t, PrimitiveFloat32.IsUnsigned())
}

func TestParseStringEncoding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StringEncodingUTF8, ParseStringEncoding("UTF-8"))
	assert.Equal(t, StringEncodingUTF16, ParseStringEncoding("UTF-16"))
	assert.Equal(t, StringEncodingUTF16, ParseStringEncoding("UCS-2"))
	assert.Equal(t, StringEncodingUnknown, ParseStringEncoding("ASCII"))
}

// ============================================================================
// TypeDeclaration helpers
// ============================================================================

func TestTypeDeclaration_DefaultsAndArrayHelpers(t *testing.T) {
	t.Parallel()

	d := &TypeDeclaration{}
	assert.True(t, d.IsHighLowByteOrder())
	assert.False(t, d.IsArray())
	assert.Equal(t, 4, d.LengthFieldSize())
	assert.Equal(t, 4, d.ArrayLengthFieldSize())
	assert.Equal(t, 4, d.TypeLengthFieldSize())

	bits := 16
	d.LengthFieldBits = &bits
	assert.Equal(t, 2, d.LengthFieldSize())

	falseVal := false
	d.HighLowByteOrder = &falseVal
	assert.False(t, d.IsHighLowByteOrder())

	d.ArrayDimensions = []ArrayDimension{{Index: 0, Min: 2, Max: 2}, {Index: 1, Min: 0, Max: 5}}
	assert.True(t, d.IsArray())
	assert.True(t, d.IsMultiDimArray())
	assert.Equal(t, 2, d.NumArrayDimensions())
	assert.False(t, d.GetArrayDimension().IsDynamic())

	downdimmed := d.DowndimArray()
	assert.Len(t, downdimmed.ArrayDimensions, 1)
	assert.True(t, downdimmed.GetArrayDimension().IsDynamic())
}
