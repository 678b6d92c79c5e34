// Package customdata serializes origin-tagged custom data bundles to the
// opaque buffer stored on the medium.
//
// Layout (all lengths are protobuf base-128 varints):
//
//	"PBCD" version origin count { type flags [platform] [same-origin] }*
//
// flags bit 0 marks a platform value, bit 1 a same-origin value. Records are
// keyed off the bundle's ordered types so the encoding of a bundle is unique.
package customdata

import (
	"fmt"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
	protowire "google.golang.org/protobuf/encoding/protowire"
)

const (
	// Version is the only wire version this package reads and writes
	Version uint64 = 1

	formatTag = "PBCD"

	flagPlatform   byte = 1 << 0
	flagSameOrigin byte = 1 << 1
	flagMask            = flagPlatform | flagSameOrigin

	// a record is at least a one-byte type length plus the flags byte
	minRecordSize = 2
)

// Encode serializes bundle. The bundle must satisfy CustomData.Validate.
func Encode(bundle *domain.CustomData) ([]byte, error) {
	if bundle == nil {
		return nil, fmt.Errorf("%w: nil bundle", domain.ErrInvalidBundle)
	}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, encodedSizeHint(bundle))
	buf = append(buf, formatTag...)
	buf = protowire.AppendVarint(buf, Version)
	buf = protowire.AppendString(buf, bundle.Origin)
	buf = protowire.AppendVarint(buf, uint64(len(bundle.OrderedTypes)))

	for _, typ := range bundle.OrderedTypes {
		platformValue, hasPlatform := bundle.PlatformData[typ]
		sameOriginValue, hasSameOrigin := bundle.SameOriginCustomData[typ]

		var flags byte
		if hasPlatform {
			flags |= flagPlatform
		}
		if hasSameOrigin {
			flags |= flagSameOrigin
		}

		buf = protowire.AppendString(buf, typ)
		buf = append(buf, flags)
		if hasPlatform {
			buf = protowire.AppendString(buf, platformValue)
		}
		if hasSameOrigin {
			buf = protowire.AppendString(buf, sameOriginValue)
		}
	}

	return buf, nil
}

func encodedSizeHint(bundle *domain.CustomData) int {
	size := len(formatTag) + 1 + protowire.SizeBytes(len(bundle.Origin)) + protowire.SizeVarint(uint64(len(bundle.OrderedTypes)))
	for _, typ := range bundle.OrderedTypes {
		size += protowire.SizeBytes(len(typ)) + 1
		if v, ok := bundle.PlatformData[typ]; ok {
			size += protowire.SizeBytes(len(v))
		}
		if v, ok := bundle.SameOriginCustomData[typ]; ok {
			size += protowire.SizeBytes(len(v))
		}
	}
	return size
}

// Decode parses a buffer produced by Encode. Any defect yields a
// *domain.FormatError and a nil bundle.
func Decode(data []byte) (*domain.CustomData, error) {
	d := &decoder{buf: data}

	if len(data) < len(formatTag) || string(data[:len(formatTag)]) != formatTag {
		return nil, d.fail("missing format tag")
	}
	d.pos = len(formatTag)

	version, err := d.varint()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, d.fail(fmt.Sprintf("unsupported version %d", version))
	}

	origin, err := d.string()
	if err != nil {
		return nil, err
	}

	count, err := d.varint()
	if err != nil {
		return nil, err
	}
	if count > uint64(d.remaining()/minRecordSize) {
		return nil, d.fail(fmt.Sprintf("type count %d exceeds buffer", count))
	}

	bundle := domain.NewCustomData(origin)
	bundle.OrderedTypes = make([]string, 0, count)
	seen := make(map[string]bool, count)

	for i := uint64(0); i < count; i++ {
		typ, err := d.string()
		if err != nil {
			return nil, err
		}
		if seen[typ] {
			return nil, d.fail(fmt.Sprintf("duplicate type %q", typ))
		}
		seen[typ] = true

		flags, err := d.byte()
		if err != nil {
			return nil, err
		}
		if flags == 0 {
			return nil, d.fail(fmt.Sprintf("no entry for listed type %q", typ))
		}
		if flags&^flagMask != 0 {
			return nil, d.fail(fmt.Sprintf("unknown record flags %#x", flags))
		}

		if flags&flagPlatform != 0 {
			v, err := d.string()
			if err != nil {
				return nil, err
			}
			bundle.PlatformData[typ] = v
		}
		if flags&flagSameOrigin != 0 {
			v, err := d.string()
			if err != nil {
				return nil, err
			}
			bundle.SameOriginCustomData[typ] = v
		}
		bundle.OrderedTypes = append(bundle.OrderedTypes, typ)
	}

	if d.remaining() != 0 {
		return nil, d.fail(fmt.Sprintf("%d trailing bytes", d.remaining()))
	}

	return bundle, nil
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) remaining() int {
	return len(d.buf) - d.pos
}

func (d *decoder) fail(reason string) error {
	return &domain.FormatError{Offset: d.pos, Reason: reason}
}

func (d *decoder) varint() (uint64, error) {
	v, n := protowire.ConsumeVarint(d.buf[d.pos:])
	if n < 0 {
		return 0, d.fail(fmt.Sprintf("bad length prefix: %v", protowire.ParseError(n)))
	}
	if n != protowire.SizeVarint(v) {
		return 0, d.fail("non-minimal length prefix")
	}
	d.pos += n
	return v, nil
}

func (d *decoder) string() (string, error) {
	length, err := d.varint()
	if err != nil {
		return "", err
	}
	if length > uint64(d.remaining()) {
		return "", d.fail(fmt.Sprintf("declared length %d exceeds remaining %d bytes", length, d.remaining()))
	}
	s := string(d.buf[d.pos : d.pos+int(length)])
	d.pos += int(length)
	return s, nil
}

func (d *decoder) byte() (byte, error) {
	if d.remaining() < 1 {
		return 0, d.fail("truncated record flags")
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}
