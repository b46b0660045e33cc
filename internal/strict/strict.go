// Package strict decodes JSON documents into revision structs, rejecting
// missing keys, nulls in required positions, type mismatches and values
// outside closed enumerations.
package strict

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/simonhull/beatmap/internal/types"
)

// enumerated is implemented by every closed enumeration in internal/types.
type enumerated interface {
	Valid() bool
}

var (
	validateOnce sync.Once
	validate     *validator.Validate

	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		// "enum" delegates to the type's own Valid method.
		if err := v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
			e, ok := fl.Field().Interface().(enumerated)
			return ok && e.Valid()
		}); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// Decode strictly unmarshals data into v, which must be a non-nil pointer to
// a struct. Struct fields of pointer type are optional; every other field
// tagged with a JSON name must be present and non-null. Unknown keys are
// ignored, except keys that match a field name only when case is ignored,
// which are rejected. document names the input in returned errors.
func Decode(document string, data []byte, v any) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return &types.FieldDecodeError{Document: document, Reason: "malformed JSON", Err: err}
	}
	if raw == nil {
		return &types.FieldDecodeError{Document: document, Reason: "document is null"}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("strict: Decode requires a non-nil pointer, got %T", v)
	}
	if err := checkPresence(document, "", raw, rv.Type().Elem()); err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return convertUnmarshalError(document, err)
	}

	if err := validatorInstance().Struct(v); err != nil {
		return convertValidationError(document, err)
	}
	return nil
}

// Validate runs the enumeration checks on an already populated value.
func Validate(document string, v any) error {
	if err := validatorInstance().Struct(v); err != nil {
		return convertValidationError(document, err)
	}
	return nil
}

func checkPresence(document, path string, raw any, t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if decodesItself(t) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := raw.(map[string]any)
		if !ok {
			// Shape mismatch; json.Unmarshal reports it with a better message.
			return nil
		}
		if err := checkKeyCase(document, path, obj, t); err != nil {
			return err
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name, ok := jsonName(f)
			if !ok {
				continue
			}
			fieldPath := joinPath(path, name)

			val, present := obj[name]
			if !present || val == nil {
				if f.Type.Kind() == reflect.Pointer {
					continue
				}
				reason := "missing required key"
				if present {
					reason = "null value for required key"
				}
				return &types.FieldDecodeError{Document: document, Field: fieldPath, Reason: reason}
			}
			if err := checkPresence(document, fieldPath, val, f.Type); err != nil {
				return err
			}
		}

	case reflect.Slice:
		arr, ok := raw.([]any)
		if !ok {
			return nil
		}
		elem := t.Elem()
		for i, item := range arr {
			itemPath := path + "[" + strconv.Itoa(i) + "]"
			if item == nil {
				if elem.Kind() == reflect.Pointer {
					continue
				}
				return &types.FieldDecodeError{Document: document, Field: itemPath, Reason: "null element"}
			}
			if err := checkPresence(document, itemPath, item, elem); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkKeyCase rejects keys that match a field name only when case is
// ignored. encoding/json would otherwise assign them to that field.
func checkKeyCase(document, path string, obj map[string]any, t reflect.Type) error {
	var names []string
	for i := 0; i < t.NumField(); i++ {
		if name, ok := jsonName(t.Field(i)); ok {
			names = append(names, name)
		}
	}

	keys := slices.Sorted(maps.Keys(obj))
	for _, key := range keys {
		if slices.Contains(names, key) {
			continue
		}
		for _, name := range names {
			if strings.EqualFold(key, name) {
				return &types.FieldDecodeError{
					Document: document,
					Field:    joinPath(path, key),
					Reason:   fmt.Sprintf("key differs only in case from %q", name),
				}
			}
		}
	}
	return nil
}

func jsonName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return "", false
	}
	if name == "" {
		name = f.Name
	}
	return name, true
}

func decodesItself(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(textUnmarshalerType) || pt.Implements(jsonUnmarshalerType)
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func convertUnmarshalError(document string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &types.FieldDecodeError{
			Document: document,
			Field:    typeErr.Field,
			Reason:   fmt.Sprintf("cannot use %s as %s", typeErr.Value, typeErr.Type),
			Err:      err,
		}
	}

	var versionErr *types.SchemaVersionError
	if errors.As(err, &versionErr) {
		out := *versionErr
		out.Document = document
		return &out
	}

	return &types.FieldDecodeError{Document: document, Reason: "decode failed", Err: err}
}

func convertValidationError(document string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &types.FieldDecodeError{Document: document, Reason: "validation failed", Err: err}
	}

	fe := verrs[0]
	field := fe.Namespace()
	// Drop the root struct name; keep the JSON key path.
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return &types.FieldDecodeError{
		Document: document,
		Field:    field,
		Reason:   fmt.Sprintf("value %v is not a valid %s", fe.Value(), fe.Type()),
		Err:      fe,
	}
}
