// Package instancetest wraps the instance helpers for use inside tests: any failure
// to build a fixture stops the test immediately.
package instancetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/timecoach/instance"
)

// Create returns a new T or fails t.
func Create[T any](t testing.TB) *T {
	t.Helper()

	obj, err := instance.Create[T]()
	require.NoError(t, err, "create %T", obj)
	require.NotNil(t, obj)
	return obj
}

// CreateWith returns a new T with props applied or fails t.
func CreateWith[T any](t testing.TB, props instance.Properties) *T {
	t.Helper()

	obj, err := instance.CreateWith[T](props)
	require.NoError(t, err, "create %T with %v", obj, props)
	require.NotNil(t, obj)
	return obj
}

// New returns a new T built through b with props applied, or fails t.
func New[T any](t testing.TB, b *instance.Binding[T], props instance.Properties) *T {
	t.Helper()

	obj, err := b.NewWith(props)
	require.NoError(t, err)
	require.NotNil(t, obj)
	return obj
}

// RequireProperties reads every property in props back from obj and fails t with a diff
// when any of them differs. Every name must be readable through b.
func RequireProperties[T any](t testing.TB, b *instance.Binding[T], obj *T, props instance.Properties) {
	t.Helper()

	got := make(instance.Properties, len(props))
	for _, name := range props.Names() {
		v, ok := b.Property(obj, name)
		require.Truef(t, ok, "property %q is not readable", name)
		got[name] = v
	}
	if diff := cmp.Diff(props, got); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
}
