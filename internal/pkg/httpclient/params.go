package httpclient

import (
	"fmt"
	"net/url"
	"reflect"
)

// Params are query parameters. Slice values are serialized as repeated
// key=value pairs (ids=1&ids=2), never indexed or comma-joined.
// Nil values and nil pointers are skipped.
type Params map[string]any

// Values converts Params into url.Values.
func (p Params) Values() url.Values {
	values := url.Values{}
	for key, v := range p {
		addValue(values, key, v)
	}
	return values
}

func addValue(values url.Values, key string, v any) {
	if v == nil {
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return
		}
		addValue(values, key, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			values.Add(key, string(rv.Bytes()))
			return
		}
		for i := 0; i < rv.Len(); i++ {
			addValue(values, key, rv.Index(i).Interface())
		}
	default:
		values.Add(key, fmt.Sprint(v))
	}
}
