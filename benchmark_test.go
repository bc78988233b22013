package instance

import (
	"testing"
	"time"
)

type benchStruct struct {
	S string
	I int
	D time.Duration
	T time.Time
}

func BenchmarkCreate(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Create[benchStruct](); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCreateWith(b *testing.B) {
	props := Properties{
		"s": "label",
		"i": 42,
		"d": time.Second,
		"t": referenceDate,
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := CreateWith[benchStruct](props); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBinding_NewWith_setters(b *testing.B) {
	binding, err := NewBinding[benchStruct](
		WithSetter("s", func(o *benchStruct, v string) { o.S = v }),
		WithSetter("i", func(o *benchStruct, v int) { o.I = v }),
		WithSetter("d", func(o *benchStruct, v time.Duration) { o.D = v }),
	)
	if err != nil {
		b.Fatal(err)
	}
	props := Properties{"s": "label", "i": 42, "d": time.Second}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := binding.NewWith(props); err != nil {
			b.Fatal(err)
		}
	}
}
