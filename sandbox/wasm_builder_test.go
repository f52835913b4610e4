package sandbox

// Minimal WebAssembly binary builder for tests
// Supports i32-only function imports, memory, table and global imports for
// rejection cases, and a single exported () -> i32 function

const (
	opLoop     = 0x03
	opBr       = 0x0c
	opEnd      = 0x0b
	opCall     = 0x10
	opDrop     = 0x1a
	opI32Const = 0x41
	valI32     = 0x7f
	blockEmpty = 0x40
)

type testImport struct {
	module  string
	name    string
	params  int
	results int
}

type wasmModuleDef struct {
	imports    []testImport
	exportName string
	body       []byte
	memImport  bool

	// globalImport and tableImport name an env import of that kind when set
	globalImport string
	tableImport  string
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if done {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func wasmName(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(payload)))...)
	return append(out, payload...)
}

func vec(items [][]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func funcType(params, results int) []byte {
	out := []byte{0x60}
	out = append(out, uleb(uint32(params))...)
	for i := 0; i < params; i++ {
		out = append(out, valI32)
	}
	out = append(out, uleb(uint32(results))...)
	for i := 0; i < results; i++ {
		out = append(out, valI32)
	}
	return out
}

// build encodes the module; the defined function has index len(imports)
func (s wasmModuleDef) build() []byte {
	out := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}

	var types, imports [][]byte
	for i, imp := range s.imports {
		types = append(types, funcType(imp.params, imp.results))
		entry := append(wasmName(imp.module), wasmName(imp.name)...)
		entry = append(entry, 0x00)
		entry = append(entry, uleb(uint32(i))...)
		imports = append(imports, entry)
	}
	if s.memImport {
		entry := append(wasmName("env"), wasmName("memory")...)
		entry = append(entry, 0x02, 0x00, 0x01)
		imports = append(imports, entry)
	}
	if s.tableImport != "" {
		entry := append(wasmName("env"), wasmName(s.tableImport)...)
		entry = append(entry, 0x01, 0x70, 0x00, 0x01) // funcref, min 1
		imports = append(imports, entry)
	}
	if s.globalImport != "" {
		entry := append(wasmName("env"), wasmName(s.globalImport)...)
		entry = append(entry, 0x03, valI32, 0x00) // immutable i32
		imports = append(imports, entry)
	}
	entryType := uint32(len(types))
	types = append(types, funcType(0, 1))

	out = append(out, section(1, vec(types))...)
	if len(imports) > 0 {
		out = append(out, section(2, vec(imports))...)
	}
	out = append(out, section(3, vec([][]byte{uleb(entryType)}))...)

	if s.exportName != "" {
		exp := append(wasmName(s.exportName), 0x00)
		exp = append(exp, uleb(uint32(len(s.imports)))...)
		out = append(out, section(7, vec([][]byte{exp}))...)
	}

	body := append([]byte{0x00}, s.body...) // no locals
	body = append(body, opEnd)
	code := append(uleb(uint32(len(body))), body...)
	out = append(out, section(10, vec([][]byte{code}))...)
	return out
}

// instruction helpers

func i32Const(v int32) []byte { return append([]byte{opI32Const}, sleb(v)...) }

func call(idx int) []byte { return append([]byte{opCall}, uleb(uint32(idx))...) }

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
