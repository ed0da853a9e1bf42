package ir

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"time"
	"unicode/utf16"

	"github.com/shopspring/decimal"
)

// IRValue is a sealed interface representing constant values that can be
// rendered as query literals.
// Only the types in this file implement it.
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRNull represents the NULL literal.
type IRNull struct{}

func (IRNull) irValue() {}

// IRMissing represents the MISSING literal (absent document field).
type IRMissing struct{}

func (IRMissing) irValue() {}

// IRString represents a string value.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer value. Always int64.
type IRInt int64

func (IRInt) irValue() {}

// IRFloat represents a binary floating point value.
type IRFloat float64

func (IRFloat) irValue() {}

// IRDecimal represents an exact decimal value.
type IRDecimal struct {
	decimal.Decimal
}

func (IRDecimal) irValue() {}

// IRBool represents a boolean value.
type IRBool bool

func (IRBool) irValue() {}

// IRTime represents an instant. Rendered as an RFC 3339 string literal.
type IRTime time.Time

func (IRTime) irValue() {}

// IRArray represents an array of IRValue elements.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject represents a map of string keys to IRValue elements.
// Use SortedKeys() for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// NewIRDecimal wraps a decimal.Decimal.
func NewIRDecimal(d decimal.Decimal) IRDecimal {
	return IRDecimal{Decimal: d}
}

// NewIRArray creates an IRArray from values.
func NewIRArray(vals ...IRValue) IRArray {
	return IRArray(vals)
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 byte order which differs for astral runes.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// FromGo normalizes a Go value into an IRValue.
//
// Accepted inputs are nil, IRValue, strings, booleans, every integer and
// float kind (including named types such as `type Age int`), decimal.Decimal,
// time.Time, pointers to any of these, slices/arrays of accepted values and
// maps keyed by string. Anything else fails with UNSUPPORTED_LITERAL_TYPE
// naming the Go type.
func FromGo(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return IRNull{}, nil
	case IRValue:
		return val, nil
	case string:
		return IRString(val), nil
	case bool:
		return IRBool(val), nil
	case int:
		return IRInt(val), nil
	case int64:
		return IRInt(val), nil
	case int32:
		return IRInt(val), nil
	case float64:
		return IRFloat(val), nil
	case float32:
		return float32Value(val), nil
	case decimal.Decimal:
		return NewIRDecimal(val), nil
	case time.Time:
		return IRTime(val), nil
	case []any:
		return arrayFromGo(reflect.ValueOf(val))
	case map[string]any:
		obj := make(IRObject, len(val))
		for k, elem := range val {
			irElem, err := FromGo(elem)
			if err != nil {
				return nil, err
			}
			obj[k] = irElem
		}
		return obj, nil
	}

	return fromReflect(reflect.ValueOf(v))
}

// fromReflect handles named types and typed containers.
func fromReflect(rv reflect.Value) (IRValue, error) {
	switch rv.Kind() {
	case reflect.String:
		return IRString(rv.String()), nil
	case reflect.Bool:
		return IRBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IRInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return NewIRDecimal(decimal.RequireFromString(strconv.FormatUint(u, 10))), nil
		}
		return IRInt(int64(u)), nil
	case reflect.Float32:
		return float32Value(float32(rv.Float())), nil
	case reflect.Float64:
		return IRFloat(rv.Float()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return IRNull{}, nil
		}
		return FromGo(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return IRNull{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// raw bytes have no literal form
			break
		}
		return arrayFromGo(rv)
	case reflect.Array:
		return arrayFromGo(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		obj := make(IRObject, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			irElem, err := FromGo(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			obj[iter.Key().String()] = irElem
		}
		return obj, nil
	}

	return nil, UnsupportedLiteral(typeName(rv))
}

// float32Value widens f through its shortest decimal form, so float32(0.1)
// becomes 0.1 rather than 0.10000000149011612.
func float32Value(f float32) IRFloat {
	wide, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		// unreachable: FormatFloat output always parses
		return IRFloat(f)
	}
	return IRFloat(wide)
}

func arrayFromGo(rv reflect.Value) (IRValue, error) {
	arr := make(IRArray, rv.Len())
	for i := range arr {
		irElem, err := FromGo(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		arr[i] = irElem
	}
	return arr, nil
}

func typeName(rv reflect.Value) string {
	if !rv.IsValid() {
		return "invalid"
	}
	return rv.Type().String()
}

// Kind returns a short name for the dynamic type of v, used in diagnostics.
func Kind(v IRValue) string {
	switch v.(type) {
	case IRNull:
		return "null"
	case IRMissing:
		return "missing"
	case IRString:
		return "string"
	case IRInt:
		return "int"
	case IRFloat:
		return "float"
	case IRDecimal:
		return "decimal"
	case IRBool:
		return "bool"
	case IRTime:
		return "time"
	case IRArray:
		return "array"
	case IRObject:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
