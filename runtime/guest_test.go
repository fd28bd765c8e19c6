package runtime

// Hand-assembled core modules. Every section and name is shorter than 128
// bytes, so each length fits in a single LEB128 byte.

const (
	secType     = 1
	secImport   = 2
	secFunction = 3
	secMemory   = 5
	secExport   = 7
	secCode     = 10

	valI32 = 0x7f
	valI64 = 0x7e
)

func wasmName(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

func wasmSection(id byte, content ...[]byte) []byte {
	var body []byte
	for _, c := range content {
		body = append(body, c...)
	}
	return append([]byte{id, byte(len(body))}, body...)
}

func wasmModule(sections ...[]byte) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

// fillGuestWasm imports <module>.fill and exports memory (2 pages) and
// run(ptr, len i32) -> i32 forwarding to it.
func fillGuestWasm(module string) []byte {
	body := []byte{
		0x00,       // no locals
		0x20, 0x00, // local.get 0
		0x20, 0x01, // local.get 1
		0x10, 0x00, // call 0
		0x0b,       // end
	}
	return wasmModule(
		wasmSection(secType, []byte{0x01, 0x60, 0x02, valI32, valI32, 0x01, valI32}),
		wasmSection(secImport, []byte{0x01}, wasmName(module), wasmName("fill"), []byte{0x00, 0x00}),
		wasmSection(secFunction, []byte{0x01, 0x00}),
		wasmSection(secMemory, []byte{0x01, 0x00, 0x02}),
		wasmSection(secExport,
			[]byte{0x02},
			wasmName("memory"), []byte{0x02, 0x00},
			wasmName("run"), []byte{0x00, 0x01}),
		wasmSection(secCode, []byte{0x01, byte(len(body))}, body),
	)
}

// u64GuestWasm imports wasi get-random-u64 and exports u64() -> i64.
func u64GuestWasm() []byte {
	body := []byte{
		0x00,       // no locals
		0x10, 0x00, // call 0
		0x0b,       // end
	}
	return wasmModule(
		wasmSection(secType, []byte{0x01, 0x60, 0x00, 0x01, valI64}),
		wasmSection(secImport, []byte{0x01}, wasmName("wasi:random/random@0.2.0"), wasmName("get-random-u64"), []byte{0x00, 0x00}),
		wasmSection(secFunction, []byte{0x01, 0x00}),
		wasmSection(secExport, []byte{0x01}, wasmName("u64"), []byte{0x00, 0x01}),
		wasmSection(secCode, []byte{0x01, byte(len(body))}, body),
	)
}
