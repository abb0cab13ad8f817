package gltfload

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

func componentSize(c gltf.ComponentType) int {
	switch c {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		return 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		return 2
	}
	return 4
}

func componentCount(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4, gltf.AccessorMat2:
		return 4
	case gltf.AccessorMat3:
		return 9
	case gltf.AccessorMat4:
		return 16
	}
	return 1
}

// accessorView locates an accessor's bytes. Accessors without a buffer view
// (all zeros, or sparse-only) yield a nil slice.
func accessorView(doc *gltf.Document, idx uint32) (a *gltf.Accessor, data []byte, stride int, err error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, nil, 0, errors.Errorf("gltfload: accessor %d out of range", idx)
	}
	a = doc.Accessors[idx]
	elem := componentSize(a.ComponentType) * componentCount(a.Type)
	if a.BufferView == nil {
		return a, nil, elem, nil
	}
	if int(*a.BufferView) >= len(doc.BufferViews) {
		return nil, nil, 0, errors.Errorf("gltfload: accessor %d: buffer view %d out of range", idx, *a.BufferView)
	}
	bv := doc.BufferViews[*a.BufferView]
	if int(bv.Buffer) >= len(doc.Buffers) {
		return nil, nil, 0, errors.Errorf("gltfload: buffer view %d: buffer %d out of range", *a.BufferView, bv.Buffer)
	}
	buf := doc.Buffers[bv.Buffer].Data

	stride = int(bv.ByteStride)
	if stride == 0 {
		stride = elem
	}
	start := int(bv.ByteOffset) + int(a.ByteOffset)
	end := start
	if a.Count > 0 {
		end = start + stride*(int(a.Count)-1) + elem
	}
	if start < 0 || end > len(buf) || end > int(bv.ByteOffset)+int(bv.ByteLength) {
		return nil, nil, 0, errors.Errorf("gltfload: accessor %d exceeds its buffer", idx)
	}
	return a, buf[start:end], stride, nil
}

func readComponent(data []byte, c gltf.ComponentType, normalized bool) float64 {
	switch c {
	case gltf.ComponentByte:
		v := float64(int8(data[0]))
		if normalized {
			return math.Max(v/127, -1)
		}
		return v
	case gltf.ComponentUbyte:
		v := float64(data[0])
		if normalized {
			return v / 255
		}
		return v
	case gltf.ComponentShort:
		v := float64(int16(binary.LittleEndian.Uint16(data)))
		if normalized {
			return math.Max(v/32767, -1)
		}
		return v
	case gltf.ComponentUshort:
		v := float64(binary.LittleEndian.Uint16(data))
		if normalized {
			return v / 65535
		}
		return v
	case gltf.ComponentUint:
		return float64(binary.LittleEndian.Uint32(data))
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(data)))
}

// readFloats returns the accessor's elements as rows of float64.
func readFloats(doc *gltf.Document, idx uint32) ([][]float64, error) {
	a, data, stride, err := accessorView(doc, idx)
	if err != nil {
		return nil, err
	}
	n := componentCount(a.Type)
	size := componentSize(a.ComponentType)
	out := make([][]float64, a.Count)
	for i := range out {
		row := make([]float64, n)
		if data != nil {
			off := i * stride
			for k := 0; k < n; k++ {
				row[k] = readComponent(data[off+k*size:], a.ComponentType, a.Normalized)
			}
		}
		out[i] = row
	}
	return out, nil
}

// readInts returns the accessor's elements as rows of ints (indices, joints).
func readInts(doc *gltf.Document, idx uint32) ([][]int, error) {
	a, data, stride, err := accessorView(doc, idx)
	if err != nil {
		return nil, err
	}
	n := componentCount(a.Type)
	size := componentSize(a.ComponentType)
	out := make([][]int, a.Count)
	for i := range out {
		row := make([]int, n)
		if data != nil {
			off := i * stride
			for k := 0; k < n; k++ {
				row[k] = int(readComponent(data[off+k*size:], a.ComponentType, false))
			}
		}
		out[i] = row
	}
	return out, nil
}

// readScalars flattens a SCALAR or vector accessor into one slice.
func readScalars(doc *gltf.Document, idx uint32) ([]float64, error) {
	rows, err := readFloats(doc, idx)
	if err != nil {
		return nil, err
	}
	var out []float64
	for _, r := range rows {
		out = append(out, r...)
	}
	return out, nil
}
