// Command wiremodel inspects the model catalog and decodes captured service
// payloads through it.
//
// Usage:
//
//	wiremodel schemas
//	wiremodel decode --type Connection --in capture.json.zst
//	wiremodel jsonschema --type GovernanceRule
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	json "github.com/goccy/go-json"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	wiremodel "github.com/reoring/wiremodel"
	"github.com/reoring/wiremodel/catalog"
	"github.com/reoring/wiremodel/declare"
	"github.com/reoring/wiremodel/internal/input"
	_ "github.com/reoring/wiremodel/source"
	"github.com/reoring/wiremodel/source/cbor"
)

const usage = `wiremodel: inspect and exercise the model catalog

Usage:
  wiremodel [--log-level L] schemas [--decl file]...
  wiremodel [--log-level L] decode --type T [--in file] [--format json|cbor]
            [--unknown strip|strict|passthrough] [--duplicate ignore|warn|error]
            [--each] [--dump] [--decl file]...
  wiremodel [--log-level L] jsonschema --type T [--decl file]...

Input files ending in .gz, .zst, .br or .lz4 are decompressed.
`

func mainImpl(args []string, stdin io.Reader, stdout io.Writer) error {
	global := flag.NewFlagSet("wiremodel", flag.ContinueOnError)
	global.SetInterspersed(false)
	logLevel := global.String("log-level", "info", "log level (debug, info, warn, error)")
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := global.Parse(args); err != nil {
		return err
	}
	initLogging(*logLevel)

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errors.New("missing command")
	}
	switch cmd, rest := rest[0], rest[1:]; cmd {
	case "schemas":
		return schemasCmd(rest, stdout)
	case "decode":
		return decodeCmd(rest, stdin, stdout)
	case "jsonschema":
		return jsonSchemaCmd(rest, stdout)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// initLogging configures slog with tint for colored, concise output.
func initLogging(level string) {
	ll := &slog.LevelVar{}
	switch level {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	}
	slog.SetDefault(slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))
}

// loadRegistry builds the catalog plus any extra declaration files.
func loadRegistry(decls []string) (*wiremodel.Registry, error) {
	if len(decls) == 0 {
		return catalog.Registry()
	}
	reg := wiremodel.NewRegistry()
	if err := catalog.Load(reg); err != nil {
		return nil, err
	}
	for _, name := range decls {
		if err := declare.LoadFile(reg, name); err != nil {
			return nil, err
		}
	}
	if err := reg.Seal(); err != nil {
		return nil, err
	}
	return reg, nil
}

func schemasCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("schemas", flag.ContinueOnError)
	decls := fs.StringArray("decl", nil, "additional declaration file (yaml or jsonc)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg, err := loadRegistry(*decls)
	if err != nil {
		return err
	}
	for _, name := range reg.Names() {
		s, _ := reg.Lookup(name)
		line := name
		if s.IsPolymorphic() {
			line += fmt.Sprintf("  (by %s)", s.Discriminator)
		} else if b := s.Base(); b != nil {
			line += "  extends " + b.Name
		}
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintf(stdout, "%d schemas, fingerprint %s\n", reg.Len(), reg.Fingerprint())
	return nil
}

func decodeCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	typeName := fs.String("type", "", "schema to decode as")
	in := fs.String("in", "-", "input file; - reads stdin")
	format := fs.String("format", "", "wire format: json or cbor (default from the file extension)")
	unknown := fs.String("unknown", "strip", "unknown keys: strip, strict or passthrough")
	duplicate := fs.String("duplicate", "error", "duplicate JSON keys: ignore, warn or error")
	maxBytes := fs.Int64("max-bytes", 64<<20, "maximum decompressed input size")
	dump := fs.Bool("dump", false, "dump the wire value and instance to stderr")
	each := fs.Bool("each", false, "input is a JSON array; decode and print one element per line")
	decls := fs.StringArray("decl", nil, "additional declaration file (yaml or jsonc)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *typeName == "" {
		return errors.New("--type is required")
	}
	policy, err := parseUnknown(*unknown)
	if err != nil {
		return err
	}
	dup, err := parseSeverity(*duplicate)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(*decls)
	if err != nil {
		return err
	}
	m, err := wiremodel.NewMapper(reg,
		wiremodel.WithUnknownPolicy(policy),
		wiremodel.WithDiagnostics(wiremodel.SlogDiagnostics(slog.Default())))
	if err != nil {
		return err
	}

	start := time.Now()
	data, inner, err := input.ReadFile(*in, stdin, *maxBytes)
	if err != nil {
		return err
	}
	if *format == "" {
		*format = "json"
		if strings.HasSuffix(strings.ToLower(inner), ".cbor") {
			*format = "cbor"
		}
	}

	ropt := wiremodel.ReadOpt{
		Strictness: wiremodel.Strictness{OnDuplicateKey: dup},
		MaxBytes:   *maxBytes,
		OnIssue: func(is wiremodel.Issue) {
			slog.Warn("wire issue", "code", is.Code, "path", is.Path, "msg", is.Message)
		},
	}
	if *each {
		if *format != "json" {
			return errors.New("--each reads JSON input only")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return m.DecodeEach(ctx, wiremodel.JSONBytes(data), *typeName, ropt, func(_ int, x *wiremodel.Instance) error {
			out, err := m.Marshal(x)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(stdout, "%s\n", out)
			return err
		})
	}

	var wire any
	switch *format {
	case "json":
		wire, err = wiremodel.ReadWire(wiremodel.JSONBytes(data), ropt)
	case "cbor":
		wire, err = cbor.Decode(data)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		return err
	}
	x, err := m.Decode(wire, *typeName)
	if err != nil {
		return err
	}
	slog.Debug("decoded", "type", x.TypeName(), "bytes", len(data), "driver", wiremodel.JSONDriverName(), "dur", time.Since(start))
	if *dump {
		spew.Fdump(os.Stderr, wire)
		fmt.Fprintln(os.Stderr, x)
	}

	out, err := m.MarshalIndent(x, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s\n", out)
	return err
}

func jsonSchemaCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("jsonschema", flag.ContinueOnError)
	typeName := fs.String("type", "", "schema to export")
	decls := fs.StringArray("decl", nil, "additional declaration file (yaml or jsonc)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *typeName == "" {
		return errors.New("--type is required")
	}
	reg, err := loadRegistry(*decls)
	if err != nil {
		return err
	}
	doc, err := wiremodel.JSONSchema(reg, *typeName)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s\n", out)
	return err
}

func parseUnknown(s string) (wiremodel.UnknownPolicy, error) {
	switch s {
	case "strip":
		return wiremodel.UnknownStrip, nil
	case "strict":
		return wiremodel.UnknownStrict, nil
	case "passthrough":
		return wiremodel.UnknownPassthrough, nil
	}
	return 0, fmt.Errorf("unknown --unknown value %q", s)
}

func parseSeverity(s string) (wiremodel.Severity, error) {
	switch s {
	case "ignore":
		return wiremodel.Ignore, nil
	case "warn":
		return wiremodel.Warn, nil
	case "error":
		return wiremodel.Error, nil
	}
	return 0, fmt.Errorf("unknown --duplicate value %q", s)
}

func main() {
	if err := mainImpl(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "wiremodel: %v\n", err)
		os.Exit(1)
	}
}
