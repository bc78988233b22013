package core

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/ygrebnov/errorc"

	"github.com/timecoach/instance/constants"
	"github.com/timecoach/instance/errors"
)

// SetDefaultsStruct walks the struct value and fills zero fields according to
// `default` and `defaultElem` tags. Values set by a factory are left untouched.
func (tb *TypeBinding) SetDefaultsStruct(rv reflect.Value) error {
	typ := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)

		if dtag := field.Tag.Get(constants.TagDefault); dtag != "" && dtag != constants.TagSkip {
			if err := tb.applyDefaultTag(fv, dtag, field.Name); err != nil {
				return err
			}
		}
		if etag := field.Tag.Get(constants.TagDefaultElem); etag == constants.TagDive {
			if err := tb.diveElements(fv); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyDefaultTag handles "dive", "alloc", or a literal.
func (tb *TypeBinding) applyDefaultTag(fv reflect.Value, tag, fieldName string) error {
	switch tag {
	case constants.TagDive:
		return tb.diveInto(fv)
	case constants.TagAlloc:
		switch {
		case fv.Kind() == reflect.Slice && fv.IsNil():
			fv.Set(reflect.MakeSlice(fv.Type(), 0, 0))
		case fv.Kind() == reflect.Map && fv.IsNil():
			fv.Set(reflect.MakeMap(fv.Type()))
		}
		return nil
	default:
		if err := setLiteralDefault(fv, tag); err != nil {
			return errorc.With(
				errors.ErrSetDefault,
				errorc.String(errors.ErrorFieldTypeName, tb.typ.String()),
				errorc.String(errors.ErrorFieldPropertyName, fieldName),
				errorc.Error(errors.ErrorFieldCause, err),
			)
		}
		return nil
	}
}

// diveInto recurses into a struct or *struct field; a nil *struct is allocated first.
func (tb *TypeBinding) diveInto(fv reflect.Value) error {
	switch fv.Kind() {
	case reflect.Ptr:
		if fv.Type().Elem().Kind() != reflect.Struct {
			return nil
		}
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return tb.SetDefaultsStruct(fv.Elem())
	case reflect.Struct:
		return tb.SetDefaultsStruct(fv)
	default:
		return nil
	}
}

// diveElements applies defaults to struct elements of slices, arrays and maps.
func (tb *TypeBinding) diveElements(fv reflect.Value) error {
	cont := fv
	if cont.Kind() == reflect.Ptr && !cont.IsNil() {
		cont = cont.Elem()
	}
	switch cont.Kind() {
	case reflect.Slice, reflect.Array:
		for j := 0; j < cont.Len(); j++ {
			ev := cont.Index(j)
			if ev.Kind() == reflect.Ptr && !ev.IsNil() {
				ev = ev.Elem()
			}
			if ev.Kind() == reflect.Struct {
				if err := tb.SetDefaultsStruct(ev); err != nil {
					return err
				}
			}
		}
	case reflect.Map:
		for _, key := range cont.MapKeys() {
			val := cont.MapIndex(key)
			if val.Kind() == reflect.Ptr {
				if !val.IsNil() && val.Elem().Kind() == reflect.Struct {
					if err := tb.SetDefaultsStruct(val.Elem()); err != nil {
						return err
					}
				}
				continue
			}
			// Map values are not addressable: copy, fill, write back.
			if val.Kind() == reflect.Struct {
				cp := reflect.New(val.Type()).Elem()
				cp.Set(val)
				if err := tb.SetDefaultsStruct(cp); err != nil {
					return err
				}
				cont.SetMapIndex(key, cp)
			}
		}
	}
	return nil
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// setLiteralDefault sets lit into fv if fv is zero. Nil pointers to scalars are allocated.
//
//nolint:gocyclo // one case per supported kind
func setLiteralDefault(fv reflect.Value, lit string) error {
	target := fv
	if target.Kind() == reflect.Ptr {
		if target.IsNil() {
			switch target.Type().Elem().Kind() {
			case reflect.Map, reflect.Slice, reflect.Array:
				// complex types are never allocated by a literal
			case reflect.Struct:
				if target.Type().Elem() != timeType {
					break
				}
				target.Set(reflect.New(target.Type().Elem()))
			default:
				target.Set(reflect.New(target.Type().Elem()))
			}
		}
		if !target.IsNil() {
			target = target.Elem()
		}
	}

	if !target.CanSet() || !target.IsZero() {
		return nil
	}

	switch target.Type() {
	case durationType:
		d, err := time.ParseDuration(strings.TrimSpace(lit))
		if err != nil {
			return fmt.Errorf("parse duration: %w", err)
		}
		target.SetInt(int64(d))
		return nil
	case timeType:
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(lit))
		if err != nil {
			return fmt.Errorf("parse time: %w", err)
		}
		target.Set(reflect.ValueOf(ts))
		return nil
	}

	switch target.Kind() {
	case reflect.String:
		target.SetString(lit)
	case reflect.Bool:
		switch strings.ToLower(strings.TrimSpace(lit)) {
		case "1", "true", "t", "yes", "y", "on":
			target.SetBool(true)
		case "0", "false", "f", "no", "n", "off":
			target.SetBool(false)
		default:
			return fmt.Errorf("parse bool: %q", lit)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		iv, err := strconv.ParseInt(strings.TrimSpace(lit), 10, target.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse int: %w", err)
		}
		target.SetInt(iv)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		uv, err := strconv.ParseUint(strings.TrimSpace(lit), 10, target.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse uint: %w", err)
		}
		target.SetUint(uv)
	case reflect.Float32, reflect.Float64:
		fv, err := strconv.ParseFloat(strings.TrimSpace(lit), target.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse float: %w", err)
		}
		target.SetFloat(fv)
	default:
		return errorc.With(
			errors.ErrDefaultLiteralUnsupportedKind,
			errorc.String(errors.ErrorFieldDefaultLiteralKind, target.Kind().String()),
		)
	}
	return nil
}
