package sandbox

import (
	"errors"
	"fmt"
)

// Import descriptor kinds from the binary import section
const (
	importFunc   byte = 0x00
	importTable  byte = 0x01
	importMemory byte = 0x02
	importGlobal byte = 0x03
)

var importKindNames = map[byte]string{
	importFunc:   "function",
	importTable:  "table",
	importMemory: "memory",
	importGlobal: "global",
}

var errTruncated = errors.New("truncated import section")

// wasmImport is one entry of the binary import section
type wasmImport struct {
	module string
	name   string
	kind   byte
}

func (i wasmImport) String() string {
	kind, ok := importKindNames[i.kind]
	if !ok {
		kind = fmt.Sprintf("kind 0x%02x", i.kind)
	}
	return fmt.Sprintf("%s %s.%s", kind, i.module, i.name)
}

// readImports lists every import of an already compiled binary
// wazero's CompiledModule only reports function and memory imports
func readImports(code []byte) ([]wasmImport, error) {
	r := &byteReader{buf: code, pos: 8} // magic and version
	for r.pos < len(r.buf) {
		id, err := r.byte()
		if err != nil {
			return nil, err
		}
		size, err := r.uleb()
		if err != nil {
			return nil, err
		}
		end := r.pos + int(size)
		if end > len(r.buf) {
			return nil, errTruncated
		}
		if id != 2 {
			r.pos = end
			continue
		}
		return (&byteReader{buf: r.buf[:end], pos: r.pos}).imports()
	}
	return nil, nil
}

type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, errTruncated
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *byteReader) uleb() (uint32, error) {
	var v uint32
	for shift := 0; shift < 35; shift += 7 {
		b, err := r.byte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, errTruncated
}

func (r *byteReader) name() (string, error) {
	n, err := r.uleb()
	if err != nil {
		return "", err
	}
	end := r.pos + int(n)
	if end > len(r.buf) {
		return "", errTruncated
	}
	s := string(r.buf[r.pos:end])
	r.pos = end
	return s, nil
}

func (r *byteReader) limits() error {
	flags, err := r.byte()
	if err != nil {
		return err
	}
	if _, err := r.uleb(); err != nil {
		return err
	}
	if flags&0x01 != 0 {
		_, err = r.uleb()
	}
	return err
}

func (r *byteReader) imports() ([]wasmImport, error) {
	count, err := r.uleb()
	if err != nil {
		return nil, err
	}
	out := make([]wasmImport, 0, count)
	for range count {
		var imp wasmImport
		if imp.module, err = r.name(); err != nil {
			return nil, err
		}
		if imp.name, err = r.name(); err != nil {
			return nil, err
		}
		if imp.kind, err = r.byte(); err != nil {
			return nil, err
		}
		out = append(out, imp)

		switch imp.kind {
		case importFunc:
			_, err = r.uleb()
		case importTable:
			if _, err = r.byte(); err == nil {
				err = r.limits()
			}
		case importMemory:
			err = r.limits()
		case importGlobal:
			r.pos += 2 // value type, mutability
		default:
			// the descriptor size is unknown; nothing after it can be read
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
