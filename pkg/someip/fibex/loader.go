package fibex

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// Load parses a FIBEX document, failing on any unresolved type reference
// once parsing completes (spec.md §4.9).
func Load(r io.Reader) (*Model, error) { return newLoader(true).parse(r) }

// TryLoad parses a FIBEX document tolerating unresolved type references,
// which are logged as warnings and left nil rather than returned as errors.
func TryLoad(r io.Reader) (*Model, error) { return newLoader(false).parse(r) }

type loader struct {
	strict bool
}

func newLoader(strict bool) *loader { return &loader{strict: strict} }

func (l *loader) parse(r io.Reader) (*Model, error) {
	dec := xml.NewDecoder(r)
	model := NewModel()

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewParseError(err.Error())
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "SERVICE-INTERFACE":
			service, types, err := l.parseServiceInterface(dec, attr(se, "ID"))
			if err != nil {
				return nil, err
			}
			model.Services = append(model.Services, service)
			model.Types = append(model.Types, types...)
		case "DATATYPE":
			inst, err := l.parseDatatype(dec, attr(se, "ID"), attr(se, "type"))
			if err != nil {
				return nil, err
			}
			if inst != nil {
				model.Types = append(model.Types, inst)
			}
		case "PROCESSING-INFORMATION":
			codings, err := l.parseProcessingInfo(dec)
			if err != nil {
				return nil, err
			}
			model.codings = append(model.codings, codings...)
		}
	}

	if err := model.Pack(l.strict); err != nil {
		return nil, err
	}
	return model, nil
}

// attr returns the value of the attribute named name on se, ignoring any
// namespace prefix (FIBEX documents carry xsi:/ho: prefixed attributes
// whose local name is what matters here).
func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// text reads character data up to the matching end element for the
// start element already consumed by the caller.
func text(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", NewParseError(err.Error())
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return strings.TrimSpace(sb.String()), nil
			}
			depth--
		}
	}
}

func parseNumber(id, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, NewParseError("invalid number " + value + " at " + id)
	}
	return n, nil
}

func parseBool(id, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, NewParseError("invalid bool " + value + " at " + id)
	}
	return b, nil
}

func unexpectedEOF(id string) error { return NewParseError("unexpected EOF at " + id) }

func firstToUpper(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func firstToLower(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func (l *loader) parseServiceInterface(dec *xml.Decoder, id string) (*ServiceInterface, []*TypeInstance, error) {
	var name string
	var serviceID, major, minor int
	var methods []*ServiceMethod
	var types []*TypeInstance

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "SHORT-NAME":
				v, err := text(dec)
				if err != nil {
					return nil, nil, err
				}
				name = firstToUpper(v)
			case "SERVICE-IDENTIFIER":
				v, err := text(dec)
				if err != nil {
					return nil, nil, err
				}
				if serviceID, err = parseNumber(id, v); err != nil {
					return nil, nil, err
				}
			case "MAJOR":
				v, err := text(dec)
				if err != nil {
					return nil, nil, err
				}
				if major, err = parseNumber(id, v); err != nil {
					return nil, nil, err
				}
			case "MINOR":
				v, err := text(dec)
				if err != nil {
					return nil, nil, err
				}
				if minor, err = parseNumber(id, v); err != nil {
					return nil, nil, err
				}
			case "METHOD", "EVENT":
				method, methodTypes, err := l.parseServiceMethod(dec, attr(t, "ID"))
				if err != nil {
					return nil, nil, err
				}
				methods = append(methods, method)
				types = append(types, methodTypes...)
			case "FIELD":
				fieldMethods, fieldType, err := l.parseServiceField(dec, attr(t, "ID"))
				if err != nil {
					return nil, nil, err
				}
				methods = append(methods, fieldMethods...)
				types = append(types, fieldType)
			case "EVENT-GROUP", "MANUFACTURER-EXTENSION":
				if err := dec.Skip(); err != nil {
					return nil, nil, NewParseError(err.Error())
				}
			}
		case xml.EndElement:
			if t.Name.Local == "SERVICE-INTERFACE" {
				return &ServiceInterface{
					ID:           id,
					Name:         name,
					ServiceID:    serviceID,
					MajorVersion: major,
					MinorVersion: minor,
					Methods:      methods,
				}, types, nil
			}
		}
	}
}

func (l *loader) parseServiceMethod(dec *xml.Decoder, id string) (*ServiceMethod, []*TypeInstance, error) {
	var name string
	var methodID int
	var request, response *TypeDeclaration
	var types []*TypeInstance

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "SHORT-NAME":
				v, err := text(dec)
				if err != nil {
					return nil, nil, err
				}
				name = firstToLower(v)
			case "METHOD-IDENTIFIER":
				v, err := text(dec)
				if err != nil {
					return nil, nil, err
				}
				if methodID, err = parseNumber(id, v); err != nil {
					return nil, nil, err
				}
			case "INPUT-PARAMETERS":
				param, err := l.parseMethodParameter(dec, id, "Request")
				if err != nil {
					return nil, nil, err
				}
				request = &TypeDeclaration{ID: id + "/Request", IDRef: param.ID, TypeRef: param}
				types = append(types, param)
			case "RETURN-PARAMETERS":
				param, err := l.parseMethodParameter(dec, id, "Response")
				if err != nil {
					return nil, nil, err
				}
				response = &TypeDeclaration{ID: id + "/Response", IDRef: param.ID, TypeRef: param}
				types = append(types, param)
			}
		case xml.EndElement:
			if t.Name.Local == "METHOD" || t.Name.Local == "EVENT" {
				return &ServiceMethod{ID: id, Name: name, MethodID: methodID, Request: request, Response: response}, types, nil
			}
		}
	}
}

func (l *loader) parseMethodParameter(dec *xml.Decoder, id, parameter string) (*TypeInstance, error) {
	var members []*TypeDeclaration

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "INPUT-PARAMETER" || t.Name.Local == "RETURN-PARAMETER" {
				member, err := l.parseDatatypeMember(dec, attr(t, "ID"))
				if err != nil {
					return nil, err
				}
				members = append(members, member)
			}
		case xml.EndElement:
			if t.Name.Local == "INPUT-PARAMETERS" || t.Name.Local == "RETURN-PARAMETERS" {
				sortMembersByPosition(members)
				return &TypeInstance{
					ID:       id + "/" + parameter,
					Datatype: StructDatatype{Members: members},
				}, nil
			}
		}
	}
}

func sortMembersByPosition(members []*TypeDeclaration) {
	for i := 1; i < len(members); i++ {
		for j := i; j > 0 && members[j-1].Position > members[j].Position; j-- {
			members[j-1], members[j] = members[j], members[j-1]
		}
	}
}

func (l *loader) parseServiceField(dec *xml.Decoder, id string) ([]*ServiceMethod, *TypeInstance, error) {
	var fieldName string
	var fieldType *TypeInstance
	var methods []*ServiceMethod
	var dims []ArrayDimension
	var util typeUtilization

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "SHORT-NAME":
				v, err := text(dec)
				if err != nil {
					return nil, nil, err
				}
				fieldName = v
			case "DATATYPE-REF":
				idRef := attr(t, "ID-REF")
				fieldType = &TypeInstance{
					ID: id,
					Datatype: StructDatatype{Members: []*TypeDeclaration{
						{ID: id, Name: firstToLower(fieldName), IDRef: idRef},
					}},
				}
			case "ARRAY-DECLARATION":
				d, err := l.parseArrayDeclaration(dec, id)
				if err != nil {
					return nil, nil, err
				}
				dims = d
			case "UTILIZATION":
				u, err := l.parseTypeUtilization(dec, id)
				if err != nil {
					return nil, nil, err
				}
				util = u
			case "GETTER":
				m, err := l.parseFieldAccessor(dec, id, "get"+firstToUpper(fieldName), fieldType, false, true)
				if err != nil {
					return nil, nil, err
				}
				methods = append(methods, m)
			case "SETTER":
				m, err := l.parseFieldAccessor(dec, id, "set"+firstToUpper(fieldName), fieldType, true, true)
				if err != nil {
					return nil, nil, err
				}
				methods = append(methods, m)
			case "NOTIFIER":
				m, err := l.parseFieldAccessor(dec, id, firstToLower(fieldName), fieldType, true, false)
				if err != nil {
					return nil, nil, err
				}
				methods = append(methods, m)
			}
		case xml.EndElement:
			if t.Name.Local == "FIELD" {
				if fieldType != nil {
					if s, ok := fieldType.Datatype.(StructDatatype); ok && len(s.Members) > 0 {
						util.applyTo(s.Members[0])
						s.Members[0].ArrayDimensions = dims
					}
				}
				return methods, fieldType, nil
			}
		}
	}
}

func (l *loader) parseFieldAccessor(dec *xml.Decoder, id, name string, typeRef *TypeInstance, hasRequest, hasResponse bool) (*ServiceMethod, error) {
	var methodID int

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "METHOD-IDENTIFIER", "NOTIFICATION-IDENTIFIER":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				if methodID, err = parseNumber(id, v); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "GETTER", "SETTER", "NOTIFIER":
				method := &ServiceMethod{ID: id, Name: name, MethodID: methodID}
				if hasRequest {
					method.Request = &TypeDeclaration{ID: id, IDRef: id, TypeRef: typeRef}
				}
				if hasResponse {
					method.Response = &TypeDeclaration{ID: id, IDRef: id, TypeRef: typeRef}
				}
				return method, nil
			}
		}
	}
}

func (l *loader) parseDatatype(dec *xml.Decoder, id, xsiType string) (*TypeInstance, error) {
	switch xsiType {
	case "fx:COMMON-DATATYPE-TYPE", "COMMON-DATATYPE-TYPE":
		return l.parseCommonDatatype(dec, id)
	case "fx:COMPLEX-DATATYPE-TYPE", "COMPLEX-DATATYPE-TYPE":
		return l.parseComplexDatatype(dec, id)
	case "fx:ENUM-DATATYPE-TYPE", "ENUM-DATATYPE-TYPE":
		return l.parseEnumDatatype(dec, id)
	default:
		return nil, dec.Skip()
	}
}

func (l *loader) parseCommonDatatype(dec *xml.Decoder, id string) (*TypeInstance, error) {
	var name string
	var datatype Datatype = UnknownDatatype{}
	var codingRef string

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "SHORT-NAME":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				if p := ParsePrimitive(v); p != PrimitiveUnknown {
					datatype = PrimitiveDatatype{Primitive: p}
				}
				name = firstToUpper(v)
			case "CODING-REF":
				codingRef = attr(t, "ID-REF")
			}
		case xml.EndElement:
			if t.Name.Local == "DATATYPE" {
				return &TypeInstance{ID: id, Name: name, Datatype: datatype, CodingRef: codingRef}, nil
			}
		}
	}
}

func (l *loader) parseComplexDatatype(dec *xml.Decoder, id string) (*TypeInstance, error) {
	var name string
	var datatype Datatype = UnknownDatatype{}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "SHORT-NAME":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				name = firstToUpper(v)
			case "COMPLEX-DATATYPE-CLASS":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				if v == "STRUCTURE" || v == "TYPEDEF" {
					datatype = StructDatatype{}
				}
			case "MEMBER":
				member, err := l.parseDatatypeMember(dec, attr(t, "ID"))
				if err != nil {
					return nil, err
				}
				if s, ok := datatype.(StructDatatype); ok {
					s.Members = append(s.Members, member)
					datatype = s
				}
			}
		case xml.EndElement:
			if t.Name.Local == "DATATYPE" {
				if s, ok := datatype.(StructDatatype); ok {
					sortMembersByPosition(s.Members)
					datatype = s
				}
				return &TypeInstance{ID: id, Name: name, Datatype: datatype}, nil
			}
		}
	}
}

func (l *loader) parseDatatypeMember(dec *xml.Decoder, id string) (*TypeDeclaration, error) {
	decl := &TypeDeclaration{ID: id}
	var name string
	var util typeUtilization
	var dims []ArrayDimension

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "SHORT-NAME":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				name = v
			case "DATATYPE-REF":
				decl.IDRef = attr(t, "ID-REF")
			case "ARRAY-DECLARATION":
				d, err := l.parseArrayDeclaration(dec, id)
				if err != nil {
					return nil, err
				}
				dims = d
			case "UTILIZATION":
				u, err := l.parseTypeUtilization(dec, id)
				if err != nil {
					return nil, err
				}
				util = u
			case "POSITION":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				if decl.Position, err = parseNumber(id, v); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "MEMBER" || t.Name.Local == "DATATYPE-MEMBER" || t.Name.Local == "INPUT-PARAMETER" || t.Name.Local == "RETURN-PARAMETER" {
				decl.Name = firstToLower(name)
				decl.ArrayDimensions = dims
				util.applyTo(decl)
				return decl, nil
			}
		}
	}
}

func (l *loader) parseEnumDatatype(dec *xml.Decoder, id string) (*TypeInstance, error) {
	var name string
	var codingRef string
	var variants []EnumVariant

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "SHORT-NAME":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				name = firstToUpper(v)
			case "CODING-REF":
				codingRef = attr(t, "ID-REF")
			case "ENUM-ELEMENT":
				variant, err := l.parseEnumElement(dec, id)
				if err != nil {
					return nil, err
				}
				variants = append(variants, variant)
			}
		case xml.EndElement:
			if t.Name.Local == "DATATYPE" {
				return &TypeInstance{
					ID:        id,
					Name:      name,
					Datatype:  EnumDatatype{Variants: variants},
					CodingRef: codingRef,
				}, nil
			}
		}
	}
}

func (l *loader) parseEnumElement(dec *xml.Decoder, id string) (EnumVariant, error) {
	var name, value string

	for {
		tok, err := dec.Token()
		if err != nil {
			return EnumVariant{}, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "SYNONYM":
				v, err := text(dec)
				if err != nil {
					return EnumVariant{}, err
				}
				name = v
			case "VALUE":
				v, err := text(dec)
				if err != nil {
					return EnumVariant{}, err
				}
				value = v
			}
		case xml.EndElement:
			if t.Name.Local == "ENUM-ELEMENT" {
				return EnumVariant{Name: name, Value: value}, nil
			}
		}
	}
}

func (l *loader) parseArrayDeclaration(dec *xml.Decoder, id string) ([]ArrayDimension, error) {
	var dims []ArrayDimension
	var index, min, max int

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "ARRAY-DIMENSION":
				index, min, max = 0, 0, 0
			case "DIMENSION":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				if index, err = parseNumber(id, v); err != nil {
					return nil, err
				}
			case "MINIMUM-SIZE":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				if min, err = parseNumber(id, v); err != nil {
					return nil, err
				}
			case "MAXIMUM-SIZE":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				if max, err = parseNumber(id, v); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "ARRAY-DIMENSION":
				dims = append(dims, ArrayDimension{Index: index, Min: min, Max: max})
			case "ARRAY-DECLARATION":
				return dims, nil
			}
		}
	}
}

// typeUtilization accumulates the UTILIZATION element's children before
// they are applied onto the TypeDeclaration under construction.
type typeUtilization struct {
	highLowByteOrder     *bool
	lengthFieldBits      *int
	arrayLengthFieldBits *int
	typeLengthFieldBits  *int
	bitLength            *int
	minBitLength         *int
	maxBitLength         *int
}

func (u typeUtilization) applyTo(decl *TypeDeclaration) {
	decl.HighLowByteOrder = u.highLowByteOrder
	decl.LengthFieldBits = u.lengthFieldBits
	decl.ArrayLengthFieldBits = u.arrayLengthFieldBits
	decl.TypeLengthFieldBits = u.typeLengthFieldBits
	decl.BitLength = u.bitLength
	decl.MinBitLength = u.minBitLength
	decl.MaxBitLength = u.maxBitLength
}

func (l *loader) parseTypeUtilization(dec *xml.Decoder, id string) (typeUtilization, error) {
	var u typeUtilization

	for {
		tok, err := dec.Token()
		if err != nil {
			return u, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "IS-HIGH-LOW-BYTE-ORDER":
				v, err := text(dec)
				if err != nil {
					return u, err
				}
				b, err := parseBool(id, v)
				if err != nil {
					return u, err
				}
				u.highLowByteOrder = &b
			case "LENGTH-FIELD-SIZE":
				n, err := readIntChild(dec, id)
				if err != nil {
					return u, err
				}
				u.lengthFieldBits = &n
			case "ARRAY-LENGTH-FIELD-SIZE":
				n, err := readIntChild(dec, id)
				if err != nil {
					return u, err
				}
				u.arrayLengthFieldBits = &n
			case "TYPE-FIELD-SIZE":
				n, err := readIntChild(dec, id)
				if err != nil {
					return u, err
				}
				u.typeLengthFieldBits = &n
			case "BIT-LENGTH":
				n, err := readIntChild(dec, id)
				if err != nil {
					return u, err
				}
				u.bitLength = &n
			case "MIN-BIT-LENGTH":
				n, err := readIntChild(dec, id)
				if err != nil {
					return u, err
				}
				u.minBitLength = &n
			case "MAX-BIT-LENGTH":
				n, err := readIntChild(dec, id)
				if err != nil {
					return u, err
				}
				u.maxBitLength = &n
			}
		case xml.EndElement:
			if t.Name.Local == "UTILIZATION" {
				return u, nil
			}
		}
	}
}

func readIntChild(dec *xml.Decoder, id string) (int, error) {
	v, err := text(dec)
	if err != nil {
		return 0, err
	}
	return parseNumber(id, v)
}

func (l *loader) parseProcessingInfo(dec *xml.Decoder) ([]*TypeCoding, error) {
	var codings []*TypeCoding

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF("ProcessingInfo")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "CODING" {
				c, err := l.parseCodingInfo(dec, attr(t, "ID"))
				if err != nil {
					return nil, err
				}
				codings = append(codings, c)
			}
		case xml.EndElement:
			if t.Name.Local == "PROCESSING-INFORMATION" {
				return codings, nil
			}
		}
	}
}

func (l *loader) parseCodingInfo(dec *xml.Decoder, id string) (*TypeCoding, error) {
	c := &TypeCoding{ID: id}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(id)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "SHORT-NAME":
				v, err := text(dec)
				if err != nil {
					return nil, err
				}
				c.Name = v
			case "CODED-TYPE":
				c.BaseType = attr(t, "BASE-DATA-TYPE")
				c.Category = attr(t, "CATEGORY")
				c.Encoding = attr(t, "ENCODING")
				if attr(t, "BYTE-ORDER-MARK") == "EXPLICIT" {
					c.HasBOM = true
				}
				if attr(t, "TERMINATION") == "ZERO" {
					c.HasTermination = true
				}
			case "MIN-LENGTH":
				n, err := readIntChild(dec, id)
				if err != nil {
					return nil, err
				}
				c.MinBitLength = &n
			case "MAX-LENGTH":
				n, err := readIntChild(dec, id)
				if err != nil {
					return nil, err
				}
				c.MaxBitLength = &n
			case "BIT-LENGTH":
				n, err := readIntChild(dec, id)
				if err != nil {
					return nil, err
				}
				c.BitLength = &n
			}
		case xml.EndElement:
			if t.Name.Local == "CODING" {
				return c, nil
			}
		}
	}
}
