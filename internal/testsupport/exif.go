// Package testsupport builds filesystem fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"encoding/binary"
)

// EXIF tag ids used by the fixtures.
const (
	tagDateTime         = 0x0132
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003

	typeASCII = 2
	typeLong  = 4
)

// ExifFields selects which date tags a fixture carries. Empty strings are
// omitted from the encoded metadata.
type ExifFields struct {
	DateTime         string // IFD0 modification date
	DateTimeOriginal string // Exif sub-IFD capture date
}

// JPEGWithExif returns a minimal JPEG stream (SOI, JFIF APP0, Exif APP1, EOI)
// carrying the given date fields in little-endian TIFF layout. It has no
// image data; EXIF decoders only read the APP1 segment.
func JPEGWithExif(f ExifFields) []byte {
	return wrapJPEG(append([]byte("Exif\x00\x00"), TIFFWithExif(f)...))
}

// JPEGWithRawAPP1 wraps arbitrary bytes as the APP1 payload, for building
// corrupt metadata.
func JPEGWithRawAPP1(payload []byte) []byte {
	return wrapJPEG(payload)
}

func wrapJPEG(app1 []byte) []byte {
	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8})

	// APP0/JFIF carries no 0xFF bytes so marker scanning lands on APP1.
	jfif := []byte("JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	b.Write([]byte{0xFF, 0xE0})
	_ = binary.Write(&b, binary.BigEndian, uint16(len(jfif)+2))
	b.Write(jfif)

	b.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&b, binary.BigEndian, uint16(len(app1)+2))
	b.Write(app1)

	b.Write([]byte{0xFF, 0xD9})
	return b.Bytes()
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32 // inline value or offset into the TIFF stream
}

// TIFFWithExif encodes the date fields as a bare TIFF structure: IFD0, an
// optional Exif sub-IFD and a trailing string area.
func TIFFWithExif(f ExifFields) []byte {
	const headerLen = 8
	order := binary.LittleEndian

	var ifd0, exifIFD []ifdEntry
	if f.DateTime != "" {
		ifd0 = append(ifd0, ifdEntry{tag: tagDateTime, typ: typeASCII, count: uint32(len(f.DateTime) + 1)})
	}
	if f.DateTimeOriginal != "" {
		ifd0 = append(ifd0, ifdEntry{tag: tagExifIFDPointer, typ: typeLong, count: 1})
		exifIFD = append(exifIFD, ifdEntry{tag: tagDateTimeOriginal, typ: typeASCII, count: uint32(len(f.DateTimeOriginal) + 1)})
	}

	ifdLen := func(n int) uint32 { return uint32(2 + 12*n + 4) }
	ifd0Off := uint32(headerLen)
	exifOff := ifd0Off + ifdLen(len(ifd0))
	dataOff := exifOff
	if len(exifIFD) > 0 {
		dataOff += ifdLen(len(exifIFD))
	}

	var data bytes.Buffer
	addString := func(s string) uint32 {
		off := dataOff + uint32(data.Len())
		data.WriteString(s)
		data.WriteByte(0)
		return off
	}
	for i := range ifd0 {
		switch ifd0[i].tag {
		case tagDateTime:
			ifd0[i].value = addString(f.DateTime)
		case tagExifIFDPointer:
			ifd0[i].value = exifOff
		}
	}
	for i := range exifIFD {
		exifIFD[i].value = addString(f.DateTimeOriginal)
	}

	var b bytes.Buffer
	b.WriteString("II")
	_ = binary.Write(&b, order, uint16(42))
	_ = binary.Write(&b, order, ifd0Off)
	writeIFD(&b, order, ifd0)
	if len(exifIFD) > 0 {
		writeIFD(&b, order, exifIFD)
	}
	b.Write(data.Bytes())
	return b.Bytes()
}

func writeIFD(b *bytes.Buffer, order binary.ByteOrder, entries []ifdEntry) {
	_ = binary.Write(b, order, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(b, order, e.tag)
		_ = binary.Write(b, order, e.typ)
		_ = binary.Write(b, order, e.count)
		_ = binary.Write(b, order, e.value)
	}
	_ = binary.Write(b, order, uint32(0))
}
