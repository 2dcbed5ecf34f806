// Package printarray renders slices as bracketed, comma-separated lists:
// "[1, 2, 3]", "[T, F]", "[]".
package printarray

import (
	"io"
	"reflect"
	"strconv"
	"strings"
)

// Element is any scalar Format knows how to render.
type Element interface {
	~bool | ~string |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Format renders values as a list. Floats get two decimals, bools print as
// T or F, strings are written as-is.
func Format[T Element](values []T) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatElement(reflect.ValueOf(v)))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Fprint writes Format(values) to w.
func Fprint[T Element](w io.Writer, values []T) error {
	_, err := io.WriteString(w, Format(values))
	return err
}

func formatElement(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return "T"
		}
		return "F"
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', 2, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', 2, 64)
	}
	return "?"
}
