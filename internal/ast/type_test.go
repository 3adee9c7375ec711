package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeCompatible_Numeric(t *testing.T) {
	assert.True(t, NewUIntType(256).Compatible(NewIntType(64)))
	assert.True(t, NewUIntType(8).Compatible(NewUIntType(256)))
}

func TestTypeCompatible_BytesAndCiphertext(t *testing.T) {
	ct := NewPrimitiveType(KindMLKEMCiphertext)
	assert.True(t, BytesType.Compatible(ct))
	assert.True(t, ct.Compatible(BytesType))
}

func TestTypeCompatible_ArrayWildcardLength(t *testing.T) {
	withLen := func(n int) *Type { return &Type{Kind: KindArray, Elem: UInt256Type, Length: &n} }
	noLen := &Type{Kind: KindArray, Elem: UInt256Type}

	assert.True(t, withLen(4).Compatible(noLen))
	assert.True(t, noLen.Compatible(withLen(4)))

	four, five := 4, 5
	a := &Type{Kind: KindArray, Elem: UInt256Type, Length: &four}
	b := &Type{Kind: KindArray, Elem: UInt256Type, Length: &five}
	assert.False(t, a.Compatible(b))
}

func TestTypeCompatible_Unknown(t *testing.T) {
	assert.True(t, UnknownType.Compatible(AddressType))
	assert.True(t, AddressType.Compatible(UnknownType))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "UInt256", UInt256Type.String())
	assert.Equal(t, "Address", AddressType.String())
	n := 4
	arr := &Type{Kind: KindArray, Elem: UInt256Type, Length: &n}
	assert.Equal(t, "Array<UInt256, 4>", arr.String())
}
