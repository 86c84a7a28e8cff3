// Package codec implements the binary wire format used by the sidechain:
// a protobuf subset where every field is keyed by (fieldNumber<<3 | wireType).
// Scalars travel as varints, strings/bytes/embedded objects as length-delimited
// chunks. Field numbers, not declaration order, are the identity of a field.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// wire types
	wireVarint = 0
	wireBytes  = 2

	maxVarintLen = binary.MaxVarintLen64
)

var (
	ErrUnexpectedEOF = errors.New("codec: unexpected end of data")
	ErrInvalidKey    = errors.New("codec: invalid field key")
)

// Writer builds a wire-encoded message field by field.
// Fields must be written in ascending field-number order to keep the
// encoding canonical (signing depends on byte-identical output).
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 128)}
}

func (w *Writer) writeKey(fieldNumber int, wireType byte) {
	w.writeVarint(uint64(fieldNumber)<<3 | uint64(wireType))
}

func (w *Writer) writeVarint(v uint64) {
	var tmp [maxVarintLen]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf = append(w.buf, tmp[:n]...)
}

// WriteUInt writes an unsigned scalar (uint32/uint64) field.
func (w *Writer) WriteUInt(fieldNumber int, v uint64) {
	w.writeKey(fieldNumber, wireVarint)
	w.writeVarint(v)
}

// WriteBool writes a boolean field.
func (w *Writer) WriteBool(fieldNumber int, v bool) {
	var enc uint64
	if v {
		enc = 1
	}
	w.WriteUInt(fieldNumber, enc)
}

// WriteBytes writes a length-delimited bytes field.
func (w *Writer) WriteBytes(fieldNumber int, b []byte) {
	w.writeKey(fieldNumber, wireBytes)
	w.writeVarint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteString writes a length-delimited string field.
func (w *Writer) WriteString(fieldNumber int, s string) {
	w.WriteBytes(fieldNumber, []byte(s))
}

// Bytes returns the encoded message. The slice aliases the Writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Field is one decoded wire field. Exactly one of Value/Data is meaningful,
// depending on the wire type the field arrived with.
type Field struct {
	Number int
	Varint uint64 // wire type 0
	Data   []byte // wire type 2
	IsData bool
}

// Reader iterates over the fields of a wire-encoded message.
type Reader struct {
	data []byte
	off  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// More reports whether any fields remain.
func (r *Reader) More() bool {
	return r.off < len(r.data)
}

func (r *Reader) readVarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.off:])
	if n <= 0 {
		return 0, ErrUnexpectedEOF
	}
	r.off += n
	return v, nil
}

// Next decodes the next field.
func (r *Reader) Next() (Field, error) {
	key, err := r.readVarint()
	if err != nil {
		return Field{}, err
	}
	f := Field{Number: int(key >> 3)}
	if f.Number <= 0 {
		return Field{}, ErrInvalidKey
	}
	switch key & 0x7 {
	case wireVarint:
		f.Varint, err = r.readVarint()
		if err != nil {
			return Field{}, err
		}
	case wireBytes:
		size, err := r.readVarint()
		if err != nil {
			return Field{}, err
		}
		end := r.off + int(size)
		if end > len(r.data) || end < r.off {
			return Field{}, ErrUnexpectedEOF
		}
		f.Data = r.data[r.off:end]
		f.IsData = true
		r.off = end
	default:
		return Field{}, fmt.Errorf("codec: unsupported wire type %d", key&0x7)
	}
	return f, nil
}
