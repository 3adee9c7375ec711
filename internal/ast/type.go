package ast

// TypeKind tags the variant of a Type node.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindUInt
	KindInt
	KindBool
	KindBytes
	KindString
	KindAddress
	KindMLDSAPublicKey
	KindMLDSASignature
	KindMLDSAKeyPair
	KindFNDSAPublicKey
	KindFNDSASignature
	KindFNDSAKeyPair
	KindMLKEMPublicKey
	KindMLKEMSecretKey
	KindMLKEMCiphertext
	KindSLHDSAPublicKey
	KindSLHDSASignature
	KindArray
	KindMapping
	KindStruct
	KindGeneric
)

// Type represents a SynQ type reference. Fixed-width integers carry
// BitWidth; Array/Mapping/Struct/Generic carry their component types.
// Example: "UInt256", "Address", "Array<UInt256, 4>", "Mapping<Address, UInt256>".
type Type struct {
	base
	Kind     TypeKind
	BitWidth int
	Elem     *Type
	Length   *int
	Key      *Type
	Value    *Type
	Name     string
	Params   []*Type
}

func (t *Type) NodeType() NodeType { return TYPE_NODE }

func NewPrimitiveType(kind TypeKind) *Type {
	return &Type{Kind: kind}
}

func NewUIntType(bits int) *Type { return &Type{Kind: KindUInt, BitWidth: bits} }
func NewIntType(bits int) *Type  { return &Type{Kind: KindInt, BitWidth: bits} }

var (
	UInt256Type = NewUIntType(256)
	BoolType    = NewPrimitiveType(KindBool)
	BytesType   = NewPrimitiveType(KindBytes)
	StringType  = NewPrimitiveType(KindString)
	AddressType = NewPrimitiveType(KindAddress)
	UnknownType = NewPrimitiveType(KindUnknown)
)

// IsNumeric reports whether the type participates in arithmetic/comparison widening.
func (t *Type) IsNumeric() bool {
	return t != nil && (t.Kind == KindUInt || t.Kind == KindInt)
}

// IsSigned reports whether the numeric type is signed.
func (t *Type) IsSigned() bool {
	return t != nil && t.Kind == KindInt
}

// Equal is structural equality, used as the base case for Compatible.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindUInt, KindInt:
		return t.BitWidth == other.BitWidth
	case KindArray:
		return t.Elem.Equal(other.Elem) && lengthsEqual(t.Length, other.Length)
	case KindMapping:
		return t.Key.Equal(other.Key) && t.Value.Equal(other.Value)
	case KindStruct:
		return t.Name == other.Name
	case KindGeneric:
		if t.Name != other.Name || len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func lengthsEqual(a, b *int) bool {
	if a == nil || b == nil {
		return true // nil acts as a wildcard
	}
	return *a == *b
}

// Compatible implements the analyzer's relaxed assignment/comparison
// compatibility: reflexive equality, mutual numeric widening, and the
// Bytes<->MLKEMCiphertext carve-out.
func (t *Type) Compatible(other *Type) bool {
	if t == nil || other == nil {
		return true
	}
	if t.Kind == KindUnknown || other.Kind == KindUnknown {
		return true
	}
	if t.IsNumeric() && other.IsNumeric() {
		return true
	}
	if isBytesLike(t) && isBytesLike(other) {
		return true
	}
	switch t.Kind {
	case KindArray:
		return other.Kind == KindArray && t.Elem.Compatible(other.Elem) && lengthsEqual(t.Length, other.Length)
	case KindMapping:
		return other.Kind == KindMapping && t.Key.Compatible(other.Key) && t.Value.Compatible(other.Value)
	case KindGeneric:
		if other.Kind != KindGeneric || t.Name != other.Name || len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Compatible(other.Params[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		return other.Kind == KindStruct && t.Name == other.Name
	default:
		return t.Kind == other.Kind
	}
}

func isBytesLike(t *Type) bool {
	return t.Kind == KindBytes || t.Kind == KindMLKEMCiphertext
}

// String renders the type the way diagnostics and the AST printer show it.
func (t *Type) String() string {
	if t == nil {
		return "Unknown"
	}
	switch t.Kind {
	case KindUInt:
		return "UInt" + itoa(t.BitWidth)
	case KindInt:
		return "Int" + itoa(t.BitWidth)
	case KindBool:
		return "Bool"
	case KindBytes:
		return "Bytes"
	case KindString:
		return "String"
	case KindAddress:
		return "Address"
	case KindMLDSAPublicKey:
		return "MLDSAPublicKey"
	case KindMLDSASignature:
		return "MLDSASignature"
	case KindMLDSAKeyPair:
		return "MLDSAKeyPair"
	case KindFNDSAPublicKey:
		return "FNDSAPublicKey"
	case KindFNDSASignature:
		return "FNDSASignature"
	case KindFNDSAKeyPair:
		return "FNDSAKeyPair"
	case KindMLKEMPublicKey:
		return "MLKEMPublicKey"
	case KindMLKEMSecretKey:
		return "MLKEMSecretKey"
	case KindMLKEMCiphertext:
		return "MLKEMCiphertext"
	case KindSLHDSAPublicKey:
		return "SLHDSAPublicKey"
	case KindSLHDSASignature:
		return "SLHDSASignature"
	case KindArray:
		if t.Length != nil {
			return "Array<" + t.Elem.String() + ", " + itoa(*t.Length) + ">"
		}
		return "Array<" + t.Elem.String() + ">"
	case KindMapping:
		return "Mapping<" + t.Key.String() + ", " + t.Value.String() + ">"
	case KindStruct:
		return t.Name
	case KindGeneric:
		s := t.Name + "<"
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + ">"
	default:
		return "Unknown"
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// PQCTypeNames maps the opaque PQC types onto the identifiers the
// parser accepts in source, used both by the grammar and by the cast
// recognizer in the semantic analyzer.
var PQCTypeNames = map[string]TypeKind{
	"MLDSAPublicKey":  KindMLDSAPublicKey,
	"MLDSASignature":  KindMLDSASignature,
	"MLDSAKeyPair":    KindMLDSAKeyPair,
	"FNDSAPublicKey":  KindFNDSAPublicKey,
	"FNDSASignature":  KindFNDSASignature,
	"FNDSAKeyPair":    KindFNDSAKeyPair,
	"MLKEMPublicKey":  KindMLKEMPublicKey,
	"MLKEMSecretKey":  KindMLKEMSecretKey,
	"MLKEMCiphertext": KindMLKEMCiphertext,
	"SLHDSAPublicKey": KindSLHDSAPublicKey,
	"SLHDSASignature": KindSLHDSASignature,
}
