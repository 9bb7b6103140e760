package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/planetmesh/pkg/icochunk"
	pmath "github.com/Faultbox/planetmesh/pkg/math"
)

// PMSH format errors.
var (
	ErrInvalidPMSHMagic       = errors.New("invalid PMSH magic: expected 'PMSH'")
	ErrUnsupportedPMSHVersion = errors.New("unsupported PMSH version")
	ErrTruncatedPMSHData      = errors.New("truncated PMSH data")
)

// PMSHVersion is the version written by EncodePMSH.
const PMSHVersion uint8 = 1

const (
	pmshMagic      = "PMSH"
	pmshHeaderSize = 4 + 1 + 1 + 4 + 4 + 4

	pmshFlagNormals uint8 = 1 << 0
	pmshFlagColors  uint8 = 1 << 1

	// maxPMSHCount rejects headers that would allocate absurd buffers.
	maxPMSHCount = 1 << 28
)

// PMSHHeader is the fixed-size header preceding the buffers.
//
// Layout (little-endian):
//
//	magic      [4]byte "PMSH"
//	version    uint8
//	flags      uint8   bit0 normals, bit1 colors
//	resolution uint32
//	vertices   uint32
//	indices    uint32
type PMSHHeader struct {
	Version     uint8
	Flags       uint8
	Resolution  uint32
	VertexCount uint32
	IndexCount  uint32
}

// HasNormals reports whether a normal buffer follows the indices.
func (h PMSHHeader) HasNormals() bool {
	return h.Flags&pmshFlagNormals != 0
}

// HasColors reports whether a color buffer follows the normals.
func (h PMSHHeader) HasColors() bool {
	return h.Flags&pmshFlagColors != 0
}

// payloadSize returns the byte size of the buffers described by the header.
func (h PMSHHeader) payloadSize() int {
	v := int(h.VertexCount)
	size := v*12 + int(h.IndexCount)*4
	if h.HasNormals() {
		size += v * 12
	}
	if h.HasColors() {
		size += v * 16
	}
	return size
}

// EncodePMSH serializes a mesh to uncompressed PMSH bytes.
func EncodePMSH(m *icochunk.Mesh) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("encoding PMSH: %w", err)
	}

	h := PMSHHeader{
		Version:     PMSHVersion,
		Resolution:  uint32(m.Resolution),
		VertexCount: uint32(len(m.Vertices)),
		IndexCount:  uint32(len(m.Indices)),
	}
	if m.Normals != nil {
		h.Flags |= pmshFlagNormals
	}
	if m.Colors != nil {
		h.Flags |= pmshFlagColors
	}

	buf := bytes.NewBuffer(make([]byte, 0, pmshHeaderSize+h.payloadSize()))
	buf.WriteString(pmshMagic)
	buf.WriteByte(h.Version)
	buf.WriteByte(h.Flags)

	// Writes to a bytes.Buffer cannot fail.
	_ = binary.Write(buf, binary.LittleEndian, h.Resolution)
	_ = binary.Write(buf, binary.LittleEndian, h.VertexCount)
	_ = binary.Write(buf, binary.LittleEndian, h.IndexCount)
	_ = binary.Write(buf, binary.LittleEndian, m.Vertices)
	_ = binary.Write(buf, binary.LittleEndian, m.Indices)
	if h.HasNormals() {
		_ = binary.Write(buf, binary.LittleEndian, m.Normals)
	}
	if h.HasColors() {
		_ = binary.Write(buf, binary.LittleEndian, m.Colors)
	}

	return buf.Bytes(), nil
}

// ParsePMSHHeader parses the header at the start of uncompressed PMSH data.
func ParsePMSHHeader(data []byte) (PMSHHeader, error) {
	if len(data) < 4 {
		return PMSHHeader{}, ErrTruncatedPMSHData
	}
	if string(data[0:4]) != pmshMagic {
		return PMSHHeader{}, ErrInvalidPMSHMagic
	}
	if len(data) < pmshHeaderSize {
		return PMSHHeader{}, fmt.Errorf("%w: header is %d bytes", ErrTruncatedPMSHData, len(data))
	}

	h := PMSHHeader{
		Version:     data[4],
		Flags:       data[5],
		Resolution:  binary.LittleEndian.Uint32(data[6:10]),
		VertexCount: binary.LittleEndian.Uint32(data[10:14]),
		IndexCount:  binary.LittleEndian.Uint32(data[14:18]),
	}

	if h.Version != PMSHVersion {
		return PMSHHeader{}, fmt.Errorf("%w: %d", ErrUnsupportedPMSHVersion, h.Version)
	}
	if h.VertexCount > maxPMSHCount || h.IndexCount > maxPMSHCount {
		return PMSHHeader{}, fmt.Errorf("invalid PMSH counts: %d vertices, %d indices", h.VertexCount, h.IndexCount)
	}

	return h, nil
}

// ParsePMSH parses uncompressed PMSH bytes.
func ParsePMSH(data []byte) (*icochunk.Mesh, error) {
	h, err := ParsePMSHHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[pmshHeaderSize:]
	if want := h.payloadSize(); len(body) < want {
		return nil, fmt.Errorf("%w: need %d payload bytes, have %d", ErrTruncatedPMSHData, want, len(body))
	} else if len(body) > want {
		return nil, fmt.Errorf("invalid PMSH data: %d trailing bytes", len(body)-want)
	}

	r := bytes.NewReader(body)
	m := &icochunk.Mesh{
		Resolution: int(h.Resolution),
		Vertices:   make([]pmath.Vec3, h.VertexCount),
		Indices:    make([]uint32, h.IndexCount),
	}

	if err := binary.Read(r, binary.LittleEndian, m.Vertices); err != nil {
		return nil, fmt.Errorf("%w: reading vertices", ErrTruncatedPMSHData)
	}
	if err := binary.Read(r, binary.LittleEndian, m.Indices); err != nil {
		return nil, fmt.Errorf("%w: reading indices", ErrTruncatedPMSHData)
	}
	if h.HasNormals() {
		m.Normals = make([]pmath.Vec3, h.VertexCount)
		if err := binary.Read(r, binary.LittleEndian, m.Normals); err != nil {
			return nil, fmt.Errorf("%w: reading normals", ErrTruncatedPMSHData)
		}
	}
	if h.HasColors() {
		m.Colors = make([]icochunk.Color, h.VertexCount)
		if err := binary.Read(r, binary.LittleEndian, m.Colors); err != nil {
			return nil, fmt.Errorf("%w: reading colors", ErrTruncatedPMSHData)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid PMSH mesh: %w", err)
	}
	m.Bounds = icochunk.ComputeBounds(m.Vertices)

	return m, nil
}

// WritePMSH writes a zstd-compressed PMSH stream.
func WritePMSH(w io.Writer, m *icochunk.Mesh) error {
	data, err := EncodePMSH(m)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		return fmt.Errorf("compressing PMSH: %w", err)
	}
	return enc.Close()
}

// ReadPMSH reads a zstd-compressed PMSH stream.
func ReadPMSH(r io.Reader) (*icochunk.Mesh, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompressing PMSH: %w", err)
	}
	return ParsePMSH(data)
}

// SavePMSH writes a mesh to disk, creating parent directories as needed.
func SavePMSH(path string, m *icochunk.Mesh) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(f, 256*1024)
	if err := WritePMSH(bw, m); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LoadPMSH reads a mesh from disk.
func LoadPMSH(path string) (*icochunk.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading PMSH file: %w", err)
	}
	defer f.Close()

	return ReadPMSH(bufio.NewReaderSize(f, 256*1024))
}
