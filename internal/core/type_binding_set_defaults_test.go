package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	instanceerrors "github.com/timecoach/instance/errors"
)

type defaultsInner struct {
	Msg string        `default:"hi"`
	D   time.Duration `default:"2s"`
}

type defaultsOuter struct {
	Name     string                    `default:"timer"`
	Enabled  bool                      `default:"on"`
	Rounds   int8                      `default:"4"`
	Ticks    uint16                    `default:"60"`
	Ratio    float32                   `default:"0.5"`
	Wait     time.Duration             `default:"25m"`
	Start    time.Time                 `default:"2023-07-31T09:00:00Z"`
	Limit    *int                      `default:"3"`
	Inner    defaultsInner             `default:"dive"`
	InnerPtr *defaultsInner            `default:"dive"`
	Tags     []string                  `default:"alloc"`
	Meta     map[string]string         `default:"alloc"`
	Items    []defaultsInner           `defaultElem:"dive"`
	ByName   map[string]defaultsInner  `defaultElem:"dive"`
	ByRef    map[string]*defaultsInner `defaultElem:"dive"`
	Skipped  string                    `default:"-"`
	private  string                    `default:"nope"`
}

func TestTypeBinding_SetDefaultsStruct(t *testing.T) {
	t.Parallel()

	tb := newBinding(t, reflect.TypeOf(defaultsOuter{}), Config{Defaults: true})

	t.Run("all supported kinds", func(t *testing.T) {
		t.Parallel()
		obj := defaultsOuter{
			Items:  []defaultsInner{{}, {Msg: "kept"}},
			ByName: map[string]defaultsInner{"a": {}},
			ByRef:  map[string]*defaultsInner{"b": {}, "nil": nil},
		}
		if err := tb.SetDefaultsStruct(reflect.ValueOf(&obj).Elem()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		start := time.Date(2023, time.July, 31, 9, 0, 0, 0, time.UTC)
		switch {
		case obj.Name != "timer", !obj.Enabled, obj.Rounds != 4, obj.Ticks != 60, obj.Ratio != 0.5:
			t.Fatalf("scalar defaults not applied: %+v", obj)
		case obj.Wait != 25*time.Minute, !obj.Start.Equal(start):
			t.Fatalf("time defaults not applied: %v %v", obj.Wait, obj.Start)
		case obj.Limit == nil || *obj.Limit != 3:
			t.Fatalf("pointer default not applied: %v", obj.Limit)
		case obj.Inner.Msg != "hi" || obj.Inner.D != 2*time.Second:
			t.Fatalf("dive default not applied: %+v", obj.Inner)
		case obj.InnerPtr == nil || obj.InnerPtr.Msg != "hi":
			t.Fatalf("pointer dive default not applied: %+v", obj.InnerPtr)
		case obj.Tags == nil || obj.Meta == nil:
			t.Fatalf("alloc defaults not applied")
		case obj.Items[0].Msg != "hi" || obj.Items[1].Msg != "kept":
			t.Fatalf("slice element defaults wrong: %+v", obj.Items)
		case obj.ByName["a"].Msg != "hi" || obj.ByRef["b"].Msg != "hi" || obj.ByRef["nil"] != nil:
			t.Fatalf("map element defaults wrong: %+v %+v", obj.ByName, obj.ByRef)
		case obj.Skipped != "" || obj.private != "":
			t.Fatalf("skipped fields were set")
		}
	})

	t.Run("non-zero values are kept", func(t *testing.T) {
		t.Parallel()
		limit := 9
		obj := defaultsOuter{Name: "custom", Rounds: 1, Limit: &limit}
		if err := tb.SetDefaultsStruct(reflect.ValueOf(&obj).Elem()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if obj.Name != "custom" || obj.Rounds != 1 || *obj.Limit != 9 {
			t.Fatalf("defaults overwrote values: %+v", obj)
		}
	})
}

func TestSetLiteralDefault_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		target        any
		literal       string
		expectedError error
		needle        string
	}{
		{name: "bad int", target: new(int), literal: "x", needle: "parse int"},
		{name: "int overflow", target: new(int8), literal: "300", needle: "parse int"},
		{name: "bad uint", target: new(uint), literal: "-1", needle: "parse uint"},
		{name: "bad float", target: new(float64), literal: "f", needle: "parse float"},
		{name: "bad bool", target: new(bool), literal: "maybe", needle: "parse bool"},
		{name: "bad duration", target: new(time.Duration), literal: "soon", needle: "parse duration"},
		{name: "bad time", target: new(time.Time), literal: "yesterday", needle: "parse time"},
		{
			name:          "unsupported kind",
			target:        new([]int),
			literal:       "1",
			expectedError: instanceerrors.ErrDefaultLiteralUnsupportedKind,
			needle:        "slice",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := setLiteralDefault(reflect.ValueOf(test.target).Elem(), test.literal)
			if err == nil {
				t.Fatalf("expected error")
			}
			if test.expectedError != nil && !errors.Is(err, test.expectedError) {
				t.Fatalf("expected %v, got %v", test.expectedError, err)
			}
			if !strings.Contains(err.Error(), test.needle) {
				t.Fatalf("expected %q in error, got %q", test.needle, err)
			}
		})
	}
}

func TestTypeBinding_New_defaultsError(t *testing.T) {
	t.Parallel()

	type bad struct {
		Rounds int `default:"many"`
	}
	tb := newBinding(t, reflect.TypeOf(bad{}), Config{Defaults: true})
	v, err := tb.New()
	if v.IsValid() {
		t.Fatalf("expected no instance")
	}
	if !errors.Is(err, instanceerrors.ErrSetDefault) || !strings.Contains(err.Error(), "Rounds") {
		t.Fatalf("expected ErrSetDefault naming the field, got %v", err)
	}
}
