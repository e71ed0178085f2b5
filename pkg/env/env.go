// Package env fills struct fields from environment variables described by
// `env:"NAME[,required]"` and `env-default:"value"` tags.
package env

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const (
	TagValue   = "env"
	TagDefault = "env-default"

	separator = ","
)

var (
	ErrRequired    = errors.New("required environment variable is not set")
	ErrUnsupported = errors.New("unsupported field type")
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// Read fills root, a pointer to a struct, from the process environment.
func Read(root any) error {
	return ReadWith(root, os.LookupEnv)
}

// ReadWith fills root using lookup. Every missing required variable is
// reported, not only the first one.
func ReadWith(root any, lookup LookupFunc) error {
	rootValue := reflect.ValueOf(root)
	if rootValue.Kind() != reflect.Ptr || rootValue.IsNil() {
		return fmt.Errorf("expected a non-nil pointer, got %T", root)
	}

	rootValue = rootValue.Elem()
	if rootValue.Kind() != reflect.Struct {
		return fmt.Errorf("unexpected type %v", rootValue.Kind())
	}

	var errs []error
	readStruct(rootValue, lookup, &errs)
	return errors.Join(errs...)
}

var durationType = reflect.TypeOf(time.Duration(0))

func readStruct(structValue reflect.Value, lookup LookupFunc, errs *[]error) {
	structType := structValue.Type()
	for i := 0; i < structValue.NumField(); i++ {
		fieldType := structType.Field(i)
		fieldValue := structValue.Field(i)
		if !fieldType.IsExported() {
			continue
		}

		tag, hasTag := fieldType.Tag.Lookup(TagValue)
		if !hasTag {
			if fieldValue.Kind() == reflect.Struct {
				readStruct(fieldValue, lookup, errs)
			}
			continue
		}

		name, options, _ := strings.Cut(tag, ",")
		raw, found := lookup(name)
		if !found {
			if hasOption(options, "required") {
				*errs = append(*errs, fmt.Errorf("%w: %s", ErrRequired, name))
				continue
			}

			def, hasDef := fieldType.Tag.Lookup(TagDefault)
			if !hasDef {
				continue
			}
			raw = def
		}

		if err := setValue(fieldValue, raw); err != nil {
			*errs = append(*errs, fmt.Errorf("can't parse environment variable %s: %w", name, err))
		}
	}
}

func setValue(fieldValue reflect.Value, raw string) error {
	if fieldValue.Kind() == reflect.Ptr {
		if fieldValue.IsNil() {
			fieldValue.Set(reflect.New(fieldValue.Type().Elem()))
		}
		return setValue(fieldValue.Elem(), raw)
	}

	if u, ok := fieldValue.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(raw))
	}

	fieldType := fieldValue.Type()
	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(raw)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fieldValue.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if fieldType == durationType {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			fieldValue.SetInt(int64(d))
			return nil
		}

		n, err := strconv.ParseInt(raw, 0, fieldType.Bits())
		if err != nil {
			return err
		}
		fieldValue.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 0, fieldType.Bits())
		if err != nil {
			return err
		}
		fieldValue.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, fieldType.Bits())
		if err != nil {
			return err
		}
		fieldValue.SetFloat(f)

	case reflect.Slice:
		var items []string
		if strings.TrimSpace(raw) != "" {
			items = strings.Split(raw, separator)
		}

		slice := reflect.MakeSlice(fieldType, len(items), len(items))
		for i, item := range items {
			if err := setValue(slice.Index(i), strings.TrimSpace(item)); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		fieldValue.Set(slice)

	default:
		return fmt.Errorf("%w %s", ErrUnsupported, fieldValue.Kind())
	}
	return nil
}

func hasOption(options, want string) bool {
	for options != "" {
		var name string
		name, options, _ = strings.Cut(options, ",")
		if name == want {
			return true
		}
	}
	return false
}
