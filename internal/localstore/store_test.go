package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)

	_, ok := s.Get("records.v2")
	require.False(t, ok)

	require.NoError(t, s.Put("records.v2", []byte(`[]`)))
	got, ok := s.Get("records.v2")
	require.True(t, ok)
	require.Equal(t, []byte(`[]`), got)

	// Put replaces.
	require.NoError(t, s.Put("records.v2", []byte(`[1]`)))
	got, _ = s.Get("records.v2")
	require.Equal(t, []byte(`[1]`), got)
}

func TestPutRejectsEmptyKey(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	require.Error(t, s.Put("", []byte("x")))
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("settings.v2", []byte(`{"nickname":"Nico"}`)))

	reopened, err := Open(path)
	require.NoError(t, err)
	got, ok := reopened.Get("settings.v2")
	require.True(t, ok)
	require.JSONEq(t, `{"nickname":"Nico"}`, string(got))
}
