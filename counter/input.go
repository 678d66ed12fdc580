package counter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

type inputKind uint8

const (
	inputInvalid inputKind = iota
	inputNull
	inputInt
	inputCounter
)

// Input is the value handed to Codec.Coerce: a counter, an integer or null.
// The zero Input is none of these and is rejected with ErrTypeMismatch.
type Input struct {
	kind    inputKind
	n       int64
	counter Counter
}

// NullInput is the null input.
func NullInput() Input { return Input{kind: inputNull} }

// IntInput wraps a bare integer.
func IntInput(n int64) Input { return Input{kind: inputInt, n: n} }

// CounterInput wraps an existing counter.
func CounterInput(c Counter) Input { return Input{kind: inputCounter, counter: c} }

// IsNull reports whether in is the null input.
func (in Input) IsNull() bool { return in.kind == inputNull }

func (in Input) String() string {
	switch in.kind {
	case inputNull:
		return "null"
	case inputInt:
		return fmt.Sprintf("int(%d)", in.n)
	case inputCounter:
		return fmt.Sprintf("counter(%s)", format(in.counter))
	default:
		return "invalid"
	}
}

// InputOf classifies an untyped value. Counters, Go integers, integral
// floats, json.Number and nil are accepted; anything else is ErrTypeMismatch.
func InputOf(v any) (Input, error) {
	switch x := v.(type) {
	case nil:
		return NullInput(), nil
	case Input:
		return x, nil
	case Counter:
		return CounterInput(x), nil
	case *Counter:
		if x == nil {
			return NullInput(), nil
		}
		return CounterInput(*x), nil
	case NullCounter:
		if !x.Valid {
			return NullInput(), nil
		}
		return CounterInput(x.Counter), nil
	case *NullCounter:
		if x == nil || !x.Valid {
			return NullInput(), nil
		}
		return CounterInput(x.Counter), nil
	case int:
		return IntInput(int64(x)), nil
	case int8:
		return IntInput(int64(x)), nil
	case int16:
		return IntInput(int64(x)), nil
	case int32:
		return IntInput(int64(x)), nil
	case int64:
		return IntInput(x), nil
	case uint:
		return uintInput(uint64(x))
	case uint8:
		return IntInput(int64(x)), nil
	case uint16:
		return IntInput(int64(x)), nil
	case uint32:
		return IntInput(int64(x)), nil
	case uint64:
		return uintInput(x)
	case float32:
		return floatInput(float64(x))
	case float64:
		return floatInput(x)
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return Input{}, fmt.Errorf("%w: %q is not an integer", ErrTypeMismatch, x.String())
		}
		return IntInput(n), nil
	default:
		return Input{}, fmt.Errorf("%w: unsupported type %T", ErrTypeMismatch, v)
	}
}

// InputFromJSON classifies a JSON document: null, an integer, or a counter
// object {"start":..,"cycle_len":..,"value":..}.
func InputFromJSON(data []byte) (Input, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Input{}, fmt.Errorf("%w: empty document", ErrTypeMismatch)
	}
	if !json.Valid(data) {
		return Input{}, fmt.Errorf("%w: malformed JSON document", ErrTypeMismatch)
	}
	if data[0] == '{' {
		var nc NullCounter
		if err := json.Unmarshal(data, &nc); err != nil {
			return Input{}, err
		}
		return CounterInput(nc.Counter), nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Input{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return InputOf(v)
}

// CoerceAny is Coerce on an untyped value, see InputOf.
func (cd Codec) CoerceAny(v any) (NullCounter, error) {
	in, err := InputOf(v)
	if err != nil {
		return NullCounter{}, err
	}
	return cd.Coerce(in)
}

func uintInput(u uint64) (Input, error) {
	if u > math.MaxInt64 {
		return Input{}, fmt.Errorf("%w: %d overflows int64", ErrTypeMismatch, u)
	}
	return IntInput(int64(u)), nil
}

func floatInput(f float64) (Input, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return Input{}, fmt.Errorf("%w: %v is not an int64", ErrTypeMismatch, f)
	}
	return IntInput(int64(f)), nil
}
