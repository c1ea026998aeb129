// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagBinder is implemented by parameter types that register their
// own flags. [BindFlags] calls AddFlags instead of reflecting over the
// type's fields.
type FlagBinder interface {
	AddFlags(flagSet *pflag.FlagSet)
}

// FlagsFromParams creates a [pflag.FlagSet] with flags bound to the
// tagged fields of params, which must be a pointer to a struct. Panics
// on invalid input: a malformed parameter struct is a programming
// error.
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers a flag for each tagged field of params, which
// must be a pointer to a struct.
//
// Three struct tags control binding:
//
//   - flag:"name" or flag:"name,n" gives the long name and an optional
//     one-letter shorthand. Fields without it are skipped.
//   - desc:"text" is the help text.
//   - default:"value" is parsed according to the field type; slices
//     split it on commas. Omitted means the zero value.
//
// Supported field types are string, bool, int, int64, float64,
// [time.Duration] and []string. Embedded structs are bound
// recursively unless they implement [FlagBinder].
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStruct(value.Elem(), flagSet)
}

func bindStruct(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()
	for i := range structType.NumField() {
		field := structType.Field(i)
		fieldValue := structValue.Field(i)

		if field.Type.Kind() == reflect.Struct && field.IsExported() && fieldValue.CanAddr() {
			if binder, ok := fieldValue.Addr().Interface().(FlagBinder); ok {
				binder.AddFlags(flagSet)
				continue
			}
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStruct(fieldValue, flagSet); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}

		tag := field.Tag.Get("flag")
		if tag == "" {
			continue
		}
		if !fieldValue.CanAddr() {
			return fmt.Errorf("field %s: not addressable", field.Name)
		}
		name, shorthand, _ := strings.Cut(tag, ",")
		if err := bindField(fieldValue.Addr().Interface(), flagSet, name, shorthand,
			field.Tag.Get("desc"), field.Tag.Get("default")); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

func bindField(pointer any, flagSet *pflag.FlagSet, name, shorthand, description, defaultString string) error {
	var err error
	switch target := pointer.(type) {
	case *string:
		flagSet.StringVarP(target, name, shorthand, defaultString, description)
	case *bool:
		var value bool
		if value, err = parseDefault(defaultString, strconv.ParseBool); err == nil {
			flagSet.BoolVarP(target, name, shorthand, value, description)
		}
	case *int:
		var value int
		if value, err = parseDefault(defaultString, strconv.Atoi); err == nil {
			flagSet.IntVarP(target, name, shorthand, value, description)
		}
	case *int64:
		var value int64
		if value, err = parseDefault(defaultString, parseInt64); err == nil {
			flagSet.Int64VarP(target, name, shorthand, value, description)
		}
	case *float64:
		var value float64
		if value, err = parseDefault(defaultString, parseFloat64); err == nil {
			flagSet.Float64VarP(target, name, shorthand, value, description)
		}
	case *time.Duration:
		var value time.Duration
		if value, err = parseDefault(defaultString, time.ParseDuration); err == nil {
			flagSet.DurationVarP(target, name, shorthand, value, description)
		}
	case *[]string:
		var value []string
		if defaultString != "" {
			value = strings.Split(defaultString, ",")
		}
		flagSet.StringSliceVarP(target, name, shorthand, value, description)
	default:
		return fmt.Errorf("unsupported type %T for flag --%s", pointer, name)
	}
	if err != nil {
		return fmt.Errorf("default for --%s: %w", name, err)
	}
	return nil
}

// parseDefault parses a default tag, mapping the empty string to the
// zero value.
func parseDefault[T any](s string, parse func(string) (T, error)) (T, error) {
	if s == "" {
		var zero T
		return zero, nil
	}
	return parse(s)
}

func parseInt64(s string) (int64, error)     { return strconv.ParseInt(s, 10, 64) }
func parseFloat64(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// FlagTracker records which flags the user set explicitly. Embed it
// in a parameter struct when flags override values from another
// source, such as a configuration file, only when given.
type FlagTracker struct {
	flagSet *pflag.FlagSet
}

type flagTracker interface {
	trackFlags(flagSet *pflag.FlagSet)
}

func (t *FlagTracker) trackFlags(flagSet *pflag.FlagSet) { t.flagSet = flagSet }

// Changed reports whether the named flag appeared on the command line.
func (t *FlagTracker) Changed(name string) bool {
	return t.flagSet != nil && t.flagSet.Changed(name)
}
