package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/iudanet/jobcache/internal/models"
)

// parseFields разбирает аргументы вида key=value в patch для записи типа T.
// Ключи совпадают с JSON-именами полей, значения приводятся к типу поля.
func parseFields[T any](args []string) (models.Patch, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no fields given, expected key=value")
	}

	kinds := fieldKinds(reflect.TypeFor[T]())
	patch := make(models.Patch, len(args))

	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q, expected key=value", arg)
		}

		kind, known := kinds[key]
		if !known {
			return nil, fmt.Errorf("unknown field %q", key)
		}

		value, err := convertValue(kind, raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		patch[key] = value
	}

	return patch, nil
}

// fieldKinds возвращает JSON-имена полей структуры и их типы
func fieldKinds(t reflect.Type) map[string]reflect.Kind {
	kinds := make(map[string]reflect.Kind)
	if t.Kind() != reflect.Struct {
		return kinds
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		kinds[name] = f.Type.Kind()
	}

	return kinds
}

func convertValue(kind reflect.Kind, raw string) (any, error) {
	switch kind {
	case reflect.String:
		return raw, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", raw)
		}
		return v, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", raw)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expected number, got %q", raw)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("field cannot be set from the command line")
	}
}
