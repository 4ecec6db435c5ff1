package configuration

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

func GetBool(config IConfiguration, key string) bool {
	v, _ := TryGetBool(config, key)
	return v
}

func TryGetBool(config IConfiguration, key string) (bool, bool) {
	v, ok := config.TryGet(key)
	if !ok {
		return false, false
	}
	return strings.EqualFold(strings.TrimSpace(v), "true"), true
}

func GetInt64(config IConfiguration, key string) int64 {
	nv, _ := TryGetInt64(config, key)
	return nv
}

func TryGetInt64(config IConfiguration, key string) (int64, bool) {
	v, ok := config.TryGet(key)
	if !ok {
		return 0, false
	}
	nv, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return nv, true
}

func GetUint64(config IConfiguration, key string) uint64 {
	nv, _ := TryGetUint64(config, key)
	return nv
}

func TryGetUint64(config IConfiguration, key string) (uint64, bool) {
	v, ok := config.TryGet(key)
	if !ok {
		return 0, false
	}
	nv, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return nv, true
}

func GetFloat64(config IConfiguration, key string) float64 {
	nv, _ := TryGetFloat64(config, key)
	return nv
}

func TryGetFloat64(config IConfiguration, key string) (float64, bool) {
	v, ok := config.TryGet(key)
	if !ok {
		return 0, false
	}
	nv, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return nv, true
}

// TryGetDuration accepts a Go duration string ("1m30s") or a number of seconds.
func TryGetDuration(config IConfiguration, key string) (time.Duration, bool) {
	v, ok := config.TryGet(key)
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(v)
	if d, err := time.ParseDuration(v); err == nil {
		return d, true
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(n * float64(time.Second)), true
	}
	return 0, false
}

// Get binds the section at path into a new T.
func Get[T any](root IConfiguration, path string) T {
	ty := reflect.TypeOf((*T)(nil)).Elem()
	return GetByType(ty, root, path).(T)
}

func GetByType(ty reflect.Type, root IConfiguration, path string) any {
	val := reflect.New(ty).Elem()
	fillValue(val, root, path)
	return val.Interface()
}

// Fill binds the section at path into out, which must be a non-nil pointer.
// Fields without a matching key keep their current value. Struct fields are
// matched by their `snow` tag or, without one, by field name.
func Fill(root IConfiguration, path string, out any) {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		panic(fmt.Sprintf("configuration: Fill needs a non-nil pointer, got %T", out))
	}
	fillValue(rv.Elem(), root, path)
}

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	durationType        = reflect.TypeOf(time.Duration(0))
	timeType            = reflect.TypeOf(time.Time{})
)

func fillValue(val reflect.Value, config IConfiguration, key string) {
	ty := val.Type()
	switch {
	case ty == durationType:
		if v, ok := TryGetDuration(config, key); ok {
			val.SetInt(int64(v))
		}
		return
	case ty == timeType:
		if v, ok := config.TryGet(key); ok {
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
				val.Set(reflect.ValueOf(t))
			}
		}
		return
	case ty.Kind() != reflect.Pointer && reflect.PointerTo(ty).Implements(textUnmarshalerType):
		if v, ok := config.TryGet(key); ok && val.CanAddr() {
			_ = val.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(v))
		}
		return
	}

	switch ty.Kind() {
	case reflect.String:
		if v, ok := config.TryGet(key); ok {
			val.SetString(v)
		}
	case reflect.Bool:
		if v, ok := TryGetBool(config, key); ok {
			val.SetBool(v)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v, ok := TryGetInt64(config, key); ok && !val.OverflowInt(v) {
			val.SetInt(v)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v, ok := TryGetUint64(config, key); ok && !val.OverflowUint(v) {
			val.SetUint(v)
		}
	case reflect.Float32, reflect.Float64:
		if v, ok := TryGetFloat64(config, key); ok {
			val.SetFloat(v)
		}
	case reflect.Map:
		fillMap(ty, val, config, key)
	case reflect.Pointer:
		if val.IsNil() {
			pv := reflect.New(ty.Elem())
			fillValue(pv.Elem(), config, key)
			val.Set(pv)
			return
		}
		fillValue(val.Elem(), config, key)
	case reflect.Slice:
		section := config
		if len(key) > 0 {
			section = config.GetSection(key)
		}
		children := section.GetChildren()
		if len(children) == 0 {
			return
		}
		slice := reflect.MakeSlice(ty, 0, len(children))
		for _, child := range children {
			sv := reflect.New(ty.Elem()).Elem()
			fillValue(sv, section, child.GetKey())
			slice = reflect.Append(slice, sv)
		}
		val.Set(slice)
	case reflect.Struct:
		fillStruct(ty, val, config, key)
	default:
		panic(fmt.Sprintf("configuration: unsupported type %v at %q", ty, key))
	}
}

func fillMap(ty reflect.Type, val reflect.Value, config IConfiguration, key string) {
	section := config
	if len(key) > 0 {
		section = config.GetSection(key)
	}
	children := section.GetChildren()
	if len(children) == 0 {
		return
	}

	m := reflect.MakeMapWithSize(ty, len(children))
	for _, child := range children {
		mKey := child.GetKey()
		k := reflect.New(ty.Key()).Elem()
		switch ty.Key().Kind() {
		case reflect.String:
			k.SetString(mKey)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			v, err := strconv.ParseInt(mKey, 10, 64)
			if err != nil || k.OverflowInt(v) {
				continue
			}
			k.SetInt(v)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			v, err := strconv.ParseUint(mKey, 10, 64)
			if err != nil || k.OverflowUint(v) {
				continue
			}
			k.SetUint(v)
		default:
			panic(fmt.Sprintf("configuration: unsupported map key type %v at %q", ty.Key(), key))
		}

		v := reflect.New(ty.Elem()).Elem()
		fillValue(v, section, mKey)
		m.SetMapIndex(k, v)
	}
	val.Set(m)
}

func fillStruct(ty reflect.Type, val reflect.Value, config IConfiguration, key string) {
	section := config
	if len(key) > 0 {
		section = config.GetSection(key)
	}

	for i := 0; i < ty.NumField(); i++ {
		ft := ty.Field(i)
		if !ft.IsExported() {
			continue
		}

		fName := ft.Tag.Get("snow")
		if fName == "-" {
			continue
		}
		if fName == "" {
			fName = ft.Name
		}
		fillValue(val.Field(i), section, fName)
	}
}
