package main

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/getrandom/entropy"
	"github.com/wippyai/getrandom/host"
	"github.com/wippyai/getrandom/host/native"
	"github.com/wippyai/getrandom/host/sim"
	"github.com/wippyai/getrandom/runtime"
)

// hosts lists the -host choices. Everything except native is simulated.
var hosts = map[string]func() host.Env{
	"native":    func() host.Env { return native.New() },
	"browser":   func() host.Env { return sim.NewBrowser() },
	"legacy":    func() host.Env { return sim.NewLegacyBrowser() },
	"node":      func() host.Env { return sim.NewNode() },
	"no-crypto": func() host.Env { return sim.NewBrowser().WithoutCrypto() },
	"stub":      func() host.Env { return sim.NewBrowser().WithCrypto(sim.NewStubCrypto()) },
}

func hostNames() []string {
	names := make([]string, 0, len(hosts))
	for name := range hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func main() {
	var (
		n           = flag.Int("n", 32, "Number of random bytes")
		format      = flag.String("format", "hex", "Output format: hex, base64 or raw")
		hostName    = flag.String("host", "native", "Host: "+strings.Join(hostNames(), ", "))
		wasmFile    = flag.String("wasm", "", "Core wasm module importing getrandom.fill (optional)")
		funcName    = flag.String("func", "run", "Exported function taking (ptr, len) to call with -wasm")
		offset      = flag.Uint("offset", 0, "Guest memory offset passed to -func")
		withWASI    = flag.Bool("wasi", false, "Also provide wasi:random/random@0.2.0 to -wasm guests")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Debug logging to stderr")
	)
	flag.Parse()

	newEnv, ok := hosts[*hostName]
	if !ok || *n < 0 {
		fmt.Fprintln(os.Stderr, "Usage: getrandom [-n bytes] [-format hex|base64|raw] [-host name]")
		fmt.Fprintln(os.Stderr, "       getrandom -wasm <file.wasm> [-func run] [-offset 0] [-n bytes]")
		fmt.Fprintln(os.Stderr, "       getrandom -i  (interactive mode)")
		os.Exit(1)
	}

	if *wasmFile != "" {
		if err := checkGuestRange(*offset, *n); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer l.Sync()
		entropy.SetLogger(l)
		runtime.SetLogger(l)
	}

	if *interactive {
		if err := runInteractive(*hostName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var (
		out []byte
		err error
	)
	if *wasmFile != "" {
		out, err = runGuest(*wasmFile, *funcName, uint32(*offset), uint32(*n), *withWASI, newEnv)
	} else {
		out, err = generate(newEnv(), *n)
	}
	if err == nil {
		err = write(out, *format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// checkGuestRange rejects -offset and -n values that do not fit a wasm32 address.
func checkGuestRange(offset uint, n int) error {
	if uint64(offset) > math.MaxUint32 {
		return fmt.Errorf("-offset %d exceeds the wasm32 address space", offset)
	}
	if int64(n) > math.MaxUint32 {
		return fmt.Errorf("-n %d exceeds the wasm32 address space", n)
	}
	if uint64(offset)+uint64(n) > math.MaxUint32+1 {
		return fmt.Errorf("-offset %d with -n %d runs past the wasm32 address space", offset, n)
	}
	return nil
}

func generate(env host.Env, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := entropy.NewContext(env).Fill(buf); err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}
	return buf, nil
}

func runGuest(wasmFile, funcName string, offset, n uint32, withWASI bool, newEnv func() host.Env) ([]byte, error) {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	rt, err := runtime.NewWithConfig(ctx, &runtime.Config{NewEnv: newEnv})
	if err != nil {
		return nil, fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	if withWASI {
		if err := rt.RegisterWASI(ctx); err != nil {
			return nil, fmt.Errorf("register WASI: %w", err)
		}
	}

	mod, err := rt.LoadWASM(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	if !mod.ImportsEntropy() {
		fmt.Fprintf(os.Stderr, "warning: %s does not import %s.fill\n", wasmFile, rt.ModuleName())
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("instantiate: %w", err)
	}
	defer inst.Close(ctx)

	results, err := inst.Call(ctx, funcName, api.EncodeU32(offset), api.EncodeU32(n))
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", funcName, err)
	}
	if len(results) > 0 {
		if code := api.DecodeU32(results[0]); code != 0 {
			return nil, fmt.Errorf("%s returned error code %#x", funcName, code)
		}
	}

	return inst.Read(offset, n)
}

func write(data []byte, format string) error {
	switch format {
	case "hex":
		fmt.Println(hex.EncodeToString(data))
	case "base64":
		fmt.Println(base64.StdEncoding.EncodeToString(data))
	case "raw":
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("refusing to write raw bytes to a terminal")
		}
		_, err := os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}
