package query

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"
)

// ValueKind identifies which variant a sanitized Value holds.
type ValueKind int

const (
	NullValue ValueKind = iota
	BoolValue
	IntValue
	FloatValue
	TextValue
	JSONValue

	// NativeValue holds values database/sql binds directly beyond the
	// scalar primitives: time.Time and driver.Valuer implementations.
	NativeValue

	OtherValue
)

// String returns the variant name, for diagnostics.
func (k ValueKind) String() string {
	switch k {
	case NullValue:
		return "null"
	case BoolValue:
		return "bool"
	case IntValue:
		return "int"
	case FloatValue:
		return "float"
	case TextValue:
		return "text"
	case JSONValue:
		return "json"
	case NativeValue:
		return "native"
	case OtherValue:
		return "other"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a sanitized bind parameter. Composite inputs are carried as JSON
// text, driver-native primitives pass through, and anything else is held as
// its stringified form under the Other variant so callers can audit when
// that degradation happened.
type Value struct {
	Kind ValueKind

	boolVal   bool
	intVal    int64
	floatVal  float64
	textVal   string
	nativeVal any
}

// Degraded reports whether the value fell back to plain stringification
// because the driver cannot bind it and it is not JSON-encodable.
func (v Value) Degraded() bool {
	return v.Kind == OtherValue
}

// Driver returns the representation handed to the database driver.
func (v Value) Driver() any {
	switch v.Kind {
	case NullValue:
		return nil
	case BoolValue:
		return v.boolVal
	case IntValue:
		return v.intVal
	case FloatValue:
		return v.floatVal
	case NativeValue:
		return v.nativeVal
	default:
		return v.textVal
	}
}

// SanitizeValue classifies a raw value into a driver-safe Value. It never
// fails: unsupported types degrade to their default textual representation.
func SanitizeValue(raw any) Value {
	if raw == nil {
		return Value{Kind: NullValue}
	}

	switch v := raw.(type) {
	case bool:
		return Value{Kind: BoolValue, boolVal: v}
	case int:
		return Value{Kind: IntValue, intVal: int64(v)}
	case int8:
		return Value{Kind: IntValue, intVal: int64(v)}
	case int16:
		return Value{Kind: IntValue, intVal: int64(v)}
	case int32:
		return Value{Kind: IntValue, intVal: int64(v)}
	case int64:
		return Value{Kind: IntValue, intVal: v}
	case uint:
		return uintValue(uint64(v))
	case uint8:
		return Value{Kind: IntValue, intVal: int64(v)}
	case uint16:
		return Value{Kind: IntValue, intVal: int64(v)}
	case uint32:
		return Value{Kind: IntValue, intVal: int64(v)}
	case uint64:
		return uintValue(v)
	case float32:
		return Value{Kind: FloatValue, floatVal: float64(v)}
	case float64:
		return Value{Kind: FloatValue, floatVal: v}
	case string:
		return Value{Kind: TextValue, textVal: v}
	case []byte:
		// Byte slices bind natively; they are payloads, not sequences.
		return Value{Kind: TextValue, textVal: string(v)}
	case time.Time:
		return Value{Kind: NativeValue, nativeVal: v}
	}

	// Anything the caller already made driver-bindable passes through.
	if _, ok := raw.(driver.Valuer); ok {
		return Value{Kind: NativeValue, nativeVal: raw}
	}

	if isComposite(raw) {
		if encoded, err := json.Marshal(raw); err == nil {
			return Value{Kind: JSONValue, textVal: string(encoded)}
		}
		// Unencodable composites still must not reach the driver raw.
		return Value{Kind: OtherValue, textVal: fmt.Sprint(raw)}
	}

	return Value{Kind: OtherValue, textVal: fmt.Sprint(raw)}
}

// uintValue maps unsigned integers onto the Int variant when they fit in
// int64, and degrades to text otherwise.
func uintValue(v uint64) Value {
	if v > math.MaxInt64 {
		return Value{Kind: OtherValue, textVal: fmt.Sprint(v)}
	}
	return Value{Kind: IntValue, intVal: int64(v)}
}

// isComposite reports whether the value is a mapping or sequence type that
// the driver's binder cannot accept directly.
func isComposite(raw any) bool {
	switch reflect.TypeOf(raw).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}
