package wiremodel

import (
	"errors"
	"io"
	"sync"

	eng "github.com/reoring/wiremodel/internal/engine"
	jsonsrc "github.com/reoring/wiremodel/source/json"
)

// Token is a single streamed token of a wire document.
type Token = eng.Token

// Source is a pull-based token stream over wire bytes. Drivers for JSON live
// under source/; any TokenSource can be read with ReadWire.
type Source = eng.TokenSource

// JSONDriver converts JSON input into a Source via a pluggable SPI. The default
// implementation is based on encoding/json and may be swapped with
// SetJSONDriver (importing package source selects go-json).
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default encoding/json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

// JSONDriverName reports the active driver.
func JSONDriverName() string { return getJSONDriver().Name() }

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source { return jsonsrc.NewReader(r) }
func (defaultJSONDriver) NewBytes(b []byte) Source     { return jsonsrc.NewBytes(b) }
func (defaultJSONDriver) Name() string                 { return "encoding/json" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return getJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return getJSONDriver().NewBytes(b) }

// ReadWire decodes one document from src into a wire value: map[string]any,
// []any, string, json.Number, bool or nil. Duplicate keys, depth and size
// limits are enforced per opt. Failures are returned as Issues.
func ReadWire(src Source, opt ReadOpt) (any, error) {
	v, err := eng.DecodeAny(enforce(src, opt))
	if err != nil {
		return nil, readIssues(err)
	}
	return v, nil
}

func enforce(src Source, opt ReadOpt) eng.TokenSource {
	var sink func(eng.SimpleIssue)
	if opt.OnIssue != nil {
		sink = func(si eng.SimpleIssue) {
			opt.OnIssue(newIssue(si.Path, si.Code, nil, nil))
		}
	}
	return eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
	})
}

func readIssues(err error) Issues {
	var ie eng.IssueError
	switch {
	case errors.As(err, &ie):
		return Issues{newIssue(ie.Path, ie.Code, nil, nil)}
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return Issues{{Path: "/", Code: CodeTruncated, Message: "unexpected end of input", Cause: err}}
	default:
		return Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

// Unmarshal reads JSON bytes with the active driver and decodes them as
// typeName. Decode-stage failures are Issues; mapping failures are the typed
// errors of Decode.
func (m *Mapper) Unmarshal(data []byte, typeName string, opts ...ReadOpt) (*Instance, error) {
	var opt ReadOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	wire, err := ReadWire(JSONBytes(data), opt)
	if err != nil {
		return nil, err
	}
	return m.Decode(wire, typeName)
}
