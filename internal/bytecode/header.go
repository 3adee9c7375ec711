package bytecode

import (
	"encoding/binary"
	"fmt"
)

// Magic identifies a .synq binary: the ASCII-ish "QVM\0" stamp.
const Magic uint32 = 0x5156_4D00

// Version is the header version this package emits and accepts.
const Version uint8 = 1

// HeaderLength is the fixed on-disk header size in bytes.
const HeaderLength = 15

// Header is the fixed-size prefix of a .synq binary.
type Header struct {
	Magic        uint32
	Version      uint8
	HeaderLength uint16
	CodeLength   uint32
	DataLength   uint32
}

// Program is a decoded .synq binary: header plus its two segments.
type Program struct {
	Header Header
	Code   []byte
	Data   []byte
}

// Encode assembles a full .synq binary from code and data segments.
func Encode(code, data []byte) []byte {
	buf := make([]byte, HeaderLength+len(code)+len(data))
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	buf[4] = Version
	binary.LittleEndian.PutUint16(buf[5:7], HeaderLength)
	binary.LittleEndian.PutUint32(buf[7:11], uint32(len(code)))
	binary.LittleEndian.PutUint32(buf[11:15], uint32(len(data)))
	copy(buf[HeaderLength:], code)
	copy(buf[HeaderLength+len(code):], data)
	return buf
}

// Decode parses a .synq binary, validating the magic and splitting the
// remainder into code and data segments. A short buffer or bad magic
// is reported as InvalidBytecode by the caller.
func Decode(buf []byte) (*Program, error) {
	if len(buf) < HeaderLength {
		return nil, fmt.Errorf("buffer too short for header: %d bytes", len(buf))
	}
	h := Header{
		Magic:        binary.LittleEndian.Uint32(buf[0:4]),
		Version:      buf[4],
		HeaderLength: binary.LittleEndian.Uint16(buf[5:7]),
		CodeLength:   binary.LittleEndian.Uint32(buf[7:11]),
		DataLength:   binary.LittleEndian.Uint32(buf[11:15]),
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("bad magic: 0x%08x", h.Magic)
	}
	if int(h.HeaderLength) < HeaderLength {
		return nil, fmt.Errorf("header_length %d shorter than minimum %d", h.HeaderLength, HeaderLength)
	}
	start := int(h.HeaderLength)
	codeEnd := start + int(h.CodeLength)
	dataEnd := codeEnd + int(h.DataLength)
	if len(buf) < dataEnd {
		return nil, fmt.Errorf("buffer too short for declared code/data lengths: have %d, need %d", len(buf), dataEnd)
	}
	return &Program{
		Header: h,
		Code:   buf[start:codeEnd],
		Data:   buf[codeEnd:dataEnd],
	}, nil
}
