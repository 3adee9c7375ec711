package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	code := []byte{byte(Push), 0x02, 0x00, 0x00, 0x00, byte(Halt)}
	data := []byte{0xde, 0xad}

	buf := Encode(code, data)
	prog, err := Decode(buf)
	require.NoError(t, err)

	assert.Equal(t, Magic, prog.Header.Magic)
	assert.Equal(t, Version, prog.Header.Version)
	assert.Equal(t, code, prog.Code)
	assert.Equal(t, data, prog.Data)
}

func TestDecode_RejectsShortBuffer(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestDecode_RejectsBadMagic(t *testing.T) {
	buf := Encode(nil, nil)
	buf[0] = 0xff
	_, err := Decode(buf)
	assert.Error(t, err)
}

func TestOpcodeNumericEncoding(t *testing.T) {
	assert.Equal(t, Opcode(0x01), Push)
	assert.Equal(t, Opcode(0x02), Pop)
	assert.Equal(t, Opcode(0x03), Dup)
	assert.Equal(t, Opcode(0x1e), Halt)
}

func TestOpcodeStringAndValidity(t *testing.T) {
	assert.Equal(t, "Push", Push.String())
	assert.True(t, Push.IsValid())
	assert.False(t, Opcode(0x00).IsValid())
	assert.Equal(t, "InvalidOpcode", Opcode(0xff).String())
}
