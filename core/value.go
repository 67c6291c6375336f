package core

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// ValueType represents the kind of a context or extra value
type ValueType uint8

const (
	NullType ValueType = iota
	StringType
	IntType
	FloatType
	BoolType
	TimeType
	ErrorType
	MapType
	ListType
	ObjectType
)

// String returns the name of the value type
func (t ValueType) String() string {
	switch t {
	case NullType:
		return "null"
	case StringType:
		return "string"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case BoolType:
		return "bool"
	case TimeType:
		return "time"
	case ErrorType:
		return "error"
	case MapType:
		return "map"
	case ListType:
		return "list"
	case ObjectType:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union holding anything that can appear in a record's
// context or extra. Scalars are stored in fixed fields (Int64, Float64,
// Str) so the common cases never box; Any is the fallback for objects.
type Value struct {
	Type    ValueType
	Int64   int64
	Float64 float64
	Str     string
	Time    time.Time
	Err     *Throwable
	Map     Map
	List    []Value
	Any     interface{}
}

// NullValue returns the null value
func NullValue() Value { return Value{Type: NullType} }

// StringValue wraps a string
func StringValue(s string) Value { return Value{Type: StringType, Str: s} }

// IntValue wraps an integer
func IntValue(i int64) Value { return Value{Type: IntType, Int64: i} }

// FloatValue wraps a float
func FloatValue(f float64) Value { return Value{Type: FloatType, Float64: f} }

// BoolValue wraps a bool
func BoolValue(b bool) Value {
	v := Value{Type: BoolType}
	if b {
		v.Int64 = 1
	}
	return v
}

// TimeValue wraps a timestamp
func TimeValue(t time.Time) Value { return Value{Type: TimeType, Time: t} }

// MapValue wraps a nested mapping
func MapValue(m Map) Value { return Value{Type: MapType, Map: m} }

// ListValue wraps a sequence
func ListValue(vs ...Value) Value { return Value{Type: ListType, List: vs} }

// ObjectValue wraps an arbitrary Go value that has no dedicated kind.
func ObjectValue(v interface{}) Value { return Value{Type: ObjectType, Any: v} }

// ThrowableValue wraps an already captured error value
func ThrowableValue(t *Throwable) Value {
	if t == nil {
		return NullValue()
	}
	return Value{Type: ErrorType, Err: t}
}

// ErrorValue captures err, its location and its cause chain.
// A nil error yields the null value.
func ErrorValue(err error) Value {
	if err == nil {
		return NullValue()
	}
	return ThrowableValue(newThrowable(err, 2))
}

// ErrorValueAt is ErrorValue with the location taken skip frames above
// the caller.
func ErrorValueAt(err error, skip int) Value {
	if err == nil {
		return NullValue()
	}
	return ThrowableValue(newThrowable(err, skip+2))
}

// Bool reports the boolean held by a BoolType value
func (v Value) Bool() bool {
	return v.Type == BoolType && v.Int64 == 1
}

// IsZero reports whether v is null or an empty container
func (v Value) IsZero() bool {
	switch v.Type {
	case NullType:
		return true
	case MapType:
		return len(v.Map) == 0
	case ListType:
		return len(v.List) == 0
	}
	return false
}

// ScalarString stringifies strings, numbers and bools. The second return
// value is false for every other kind.
func (v Value) ScalarString() (string, bool) {
	switch v.Type {
	case StringType:
		return v.Str, true
	case IntType:
		return strconv.FormatInt(v.Int64, 10), true
	case FloatType:
		return strconv.FormatFloat(v.Float64, 'f', -1, 64), true
	case BoolType:
		return strconv.FormatBool(v.Bool()), true
	default:
		return "", false
	}
}

// String returns a human-readable form of the value
func (v Value) String() string {
	if s, ok := v.ScalarString(); ok {
		return s
	}
	switch v.Type {
	case NullType:
		return "null"
	case TimeType:
		return v.Time.Format(time.RFC3339)
	case ErrorType:
		return v.Err.Message
	case MapType, ListType:
		return fmt.Sprintf("%v", v.Interface())
	default:
		return fmt.Sprintf("%v", v.Any)
	}
}

// Interface converts the value back into plain Go values
func (v Value) Interface() interface{} {
	switch v.Type {
	case StringType:
		return v.Str
	case IntType:
		return v.Int64
	case FloatType:
		return v.Float64
	case BoolType:
		return v.Bool()
	case TimeType:
		return v.Time
	case ErrorType:
		return v.Err
	case MapType:
		out := make(map[string]interface{}, len(v.Map))
		for _, f := range v.Map {
			out[f.Key.String()] = f.Value.Interface()
		}
		return out
	case ListType:
		out := make([]interface{}, len(v.List))
		for i, item := range v.List {
			out[i] = item.Interface()
		}
		return out
	case ObjectType:
		return v.Any
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and content.
// Map comparison is order sensitive.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case NullType:
		return true
	case StringType:
		return v.Str == o.Str
	case IntType, BoolType:
		return v.Int64 == o.Int64
	case FloatType:
		return v.Float64 == o.Float64
	case TimeType:
		return v.Time.Equal(o.Time)
	case ErrorType:
		return v.Err == o.Err
	case MapType:
		return v.Map.Equal(o.Map)
	case ListType:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(v.Any, o.Any)
	}
}

// Clone returns a deep copy of the containers held by v
func (v Value) Clone() Value {
	switch v.Type {
	case MapType:
		v.Map = v.Map.Clone()
	case ListType:
		list := make([]Value, len(v.List))
		for i, item := range v.List {
			list[i] = item.Clone()
		}
		v.List = list
	}
	return v
}

var timeType = reflect.TypeOf(time.Time{})

// ValueOf converts an arbitrary Go value into a Value.
// Maps keyed by strings become Map values sorted by key, slices and arrays
// become lists, errors are captured as error values and anything else
// without a dedicated kind becomes an object.
func ValueOf(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return NullValue()
	case Value:
		return t
	case Map:
		return MapValue(t)
	case *Throwable:
		return ThrowableValue(t)
	case string:
		return StringValue(t)
	case []byte:
		return StringValue(string(t))
	case bool:
		return BoolValue(t)
	case int:
		return IntValue(int64(t))
	case int8:
		return IntValue(int64(t))
	case int16:
		return IntValue(int64(t))
	case int32:
		return IntValue(int64(t))
	case int64:
		return IntValue(t)
	case uint:
		return IntValue(int64(t))
	case uint8:
		return IntValue(int64(t))
	case uint16:
		return IntValue(int64(t))
	case uint32:
		return IntValue(int64(t))
	case uint64:
		return IntValue(int64(t))
	case float32:
		return FloatValue(float64(t))
	case float64:
		return FloatValue(t)
	case time.Time:
		return TimeValue(t)
	case time.Duration:
		return StringValue(t.String())
	case error:
		return ThrowableValue(newThrowable(t, 2))
	case map[string]interface{}:
		return MapValue(MapOf(t))
	case []interface{}:
		list := make([]Value, len(t))
		for i, item := range t {
			list[i] = ValueOf(item)
		}
		return ListValue(list...)
	}
	return reflectValue(reflect.ValueOf(x))
}

func reflectValue(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return NullValue()
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		m := make(Map, 0, len(keys))
		for _, k := range keys {
			m = append(m, Field{Key: NamedKey(k.String()), Value: ValueOf(rv.MapIndex(k).Interface())})
		}
		return MapValue(m)
	case reflect.Slice, reflect.Array:
		list := make([]Value, rv.Len())
		for i := range list {
			list[i] = ValueOf(rv.Index(i).Interface())
		}
		return ListValue(list...)
	case reflect.String:
		return StringValue(rv.String())
	case reflect.Bool:
		return BoolValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return IntValue(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return FloatValue(rv.Float())
	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return TimeValue(rv.Convert(timeType).Interface().(time.Time))
		}
	}
	return ObjectValue(rv.Interface())
}
