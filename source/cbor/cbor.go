// Package cbor reads and writes wire values as CBOR (RFC 8949).
//
// Decoded documents take the same generic shape the JSON drivers produce:
// map[string]any objects, []any arrays and json.Number numbers. Byte strings
// become standard base64 text, the way encoding/json renders []byte.
package cbor

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"

	wiremodel "github.com/reoring/wiremodel"
)

// encMode uses Core Deterministic Encoding: sorted map keys, smallest
// integer encoding, no indefinite-length items.
var encMode cbor.EncMode

var decMode cbor.DecMode

// ErrNonFinite is returned for NaN and infinite floats, which JSON cannot carry.
var ErrNonFinite = errors.New("cbor: non-finite float")

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cbor: encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		// Wire objects always have string keys.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("cbor: decoder initialization failed: " + err.Error())
	}
}

// Decode parses one CBOR data item into a wire value.
func Decode(data []byte) (any, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("cbor: decode: %w", err)
	}
	return fromCBOR(v, "")
}

// Encode writes a wire value (as returned by Mapper.Serialize) as CBOR.
// json.Number values are encoded as integers when they are integral and as
// floats otherwise.
func Encode(v any) ([]byte, error) {
	cv, err := toCBOR(v)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(cv)
}

// Unmarshal decodes CBOR bytes as typeName through m.
func Unmarshal(m *wiremodel.Mapper, data []byte, typeName string) (*wiremodel.Instance, error) {
	wire, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return m.Decode(wire, typeName)
}

// Marshal serializes x through m and encodes the result as CBOR.
func Marshal(m *wiremodel.Mapper, x *wiremodel.Instance) ([]byte, error) {
	wire, err := m.Serialize(x)
	if err != nil {
		return nil, err
	}
	return Encode(wire)
}

func fromCBOR(v any, path string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			ne, err := fromCBOR(e, path+"/"+k)
			if err != nil {
				return nil, err
			}
			t[k] = ne
		}
		return t, nil
	case []any:
		for i, e := range t {
			ne, err := fromCBOR(e, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			t[i] = ne
		}
		return t, nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case float64:
		return floatNumber(t, path)
	case float32:
		return floatNumber(float64(t), path)
	case []byte:
		return base64.StdEncoding.EncodeToString(t), nil
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano), nil
	case cbor.Tag:
		return fromCBOR(t.Content, path)
	default:
		return v, nil
	}
}

func floatNumber(f float64, path string) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if path == "" {
			path = "/"
		}
		return nil, fmt.Errorf("%w at %s", ErrNonFinite, path)
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func toCBOR(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ce, err := toCBOR(e)
			if err != nil {
				return nil, err
			}
			out[k] = ce
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			ce, err := toCBOR(e)
			if err != nil {
				return nil, err
			}
			out[i] = ce
		}
		return out, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(string(t), 10, 64); err == nil {
			return u, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("cbor: encode number %q: %w", t, err)
		}
		return f, nil
	default:
		return v, nil
	}
}
