package fcs

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

// Byte order tokens accepted in $BYTEORD.
const (
	ByteOrderLE32 = "1,2,3,4"
	ByteOrderBE32 = "4,3,2,1"
	ByteOrderLE64 = "1,2,3,4,5,6,7,8"
	ByteOrderBE64 = "8,7,6,5,4,3,2,1"
)

// readChunkValues bounds the read buffer to this many values.
const readChunkValues = 8192

// sampleCodec turns one encoded value into a float64.
type sampleCodec struct {
	width  int
	decode func(b []byte) float64
}

func codecFor(dataType, byteOrder string) (sampleCodec, error) {
	byteOrder = strings.TrimSpace(byteOrder)
	switch strings.TrimSpace(dataType) {
	case DataTypeInt:
		// The token must be a 32-bit order, but integers are always read
		// little-endian.
		if _, ok := order32(byteOrder); !ok {
			return sampleCodec{}, fmt.Errorf("%w: %q for $DATATYPE=I", ErrUnsupportedByteOrder, byteOrder)
		}
		return sampleCodec{width: 4, decode: func(b []byte) float64 {
			return float64(int32(binary.LittleEndian.Uint32(b)))
		}}, nil
	case DataTypeFloat:
		order, ok := order32(byteOrder)
		if !ok {
			return sampleCodec{}, fmt.Errorf("%w: %q for $DATATYPE=F", ErrUnsupportedByteOrder, byteOrder)
		}
		return sampleCodec{width: 4, decode: func(b []byte) float64 {
			return float64(math.Float32frombits(order.Uint32(b)))
		}}, nil
	case DataTypeDouble:
		order, ok := order64(byteOrder)
		if !ok {
			return sampleCodec{}, fmt.Errorf("%w: %q for $DATATYPE=D", ErrUnsupportedByteOrder, byteOrder)
		}
		return sampleCodec{width: 8, decode: func(b []byte) float64 {
			return math.Float64frombits(order.Uint64(b))
		}}, nil
	default:
		return sampleCodec{}, fmt.Errorf("%w: %q", ErrUnsupportedDataType, dataType)
	}
}

func order32(token string) (binary.ByteOrder, bool) {
	switch token {
	case ByteOrderLE32:
		return binary.LittleEndian, true
	case ByteOrderBE32:
		return binary.BigEndian, true
	default:
		return nil, false
	}
}

func order64(token string) (binary.ByteOrder, bool) {
	switch token {
	case ByteOrderLE64:
		return binary.LittleEndian, true
	case ByteOrderBE64:
		return binary.BigEndian, true
	default:
		return nil, false
	}
}

// dataLayout is what the DATA segment decoder needs from the TEXT keywords.
type dataLayout struct {
	params uint64
	events uint64
	begin  uint64
	codec  sampleCodec
}

func (l dataLayout) capacity() uint64 {
	return l.params * l.events
}

func layoutFor(md *Metadata) (dataLayout, error) {
	mode, ok := md.Get(KeyMode)
	if !ok {
		return dataLayout{}, missingKeyword(KeyMode)
	}
	if strings.TrimSpace(mode) != ModeList {
		return dataLayout{}, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}

	params, err := md.MustGetUint(KeyPar)
	if err != nil {
		return dataLayout{}, err
	}
	events, err := md.MustGetUint(KeyTot)
	if err != nil {
		return dataLayout{}, err
	}
	if params == 0 || events == 0 {
		return dataLayout{}, fmt.Errorf("%w: $PAR=%d $TOT=%d", ErrEmptyData, params, events)
	}

	dataType, ok := md.Get(KeyDataType)
	if !ok {
		return dataLayout{}, missingKeyword(KeyDataType)
	}
	byteOrder, ok := md.Get(KeyByteOrder)
	if !ok {
		return dataLayout{}, missingKeyword(KeyByteOrder)
	}
	codec, err := codecFor(dataType, byteOrder)
	if err != nil {
		return dataLayout{}, err
	}

	if events > math.MaxInt/params || params*events > math.MaxInt/uint64(codec.width) {
		return dataLayout{}, fmt.Errorf("%w: $PAR=%d x $TOT=%d values do not fit in memory", ErrValidation, params, events)
	}

	begin, err := md.MustGetUint(KeyBeginData)
	if err != nil {
		return dataLayout{}, err
	}
	return dataLayout{params: params, events: events, begin: begin, codec: codec}, nil
}

// readData decodes the DATA segment into one flat, parameter-major slice of
// $PAR x $TOT values: index p*$TOT+e holds event e of parameter p.
func readData(src io.ReadSeeker, layout dataLayout) ([]float64, error) {
	capacity := layout.capacity()
	width := uint64(layout.codec.width)

	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, ioError("seek end of source", err)
	}
	if layout.begin > uint64(size) || capacity*width > uint64(size)-layout.begin {
		return nil, ioError("read DATA segment", fmt.Errorf(
			"%w: need %d bytes at offset %d, source has %d", io.ErrUnexpectedEOF, capacity*width, layout.begin, size))
	}
	if _, err := src.Seek(int64(layout.begin), io.SeekStart); err != nil {
		return nil, ioError("seek DATA segment", err)
	}

	out := make([]float64, capacity)
	buf := make([]byte, min(capacity, readChunkValues)*width)
	for filled := uint64(0); filled < capacity; {
		n := min(capacity-filled, readChunkValues)
		chunk := buf[:n*width]
		if _, err := io.ReadFull(src, chunk); err != nil {
			return nil, ioError("read DATA segment", err)
		}
		for i := uint64(0); i < n; i++ {
			out[filled+i] = layout.codec.decode(chunk[i*width:])
		}
		filled += n
	}
	return out, nil
}
