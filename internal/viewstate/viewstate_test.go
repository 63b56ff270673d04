package viewstate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "view.sqlite")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSaveLoadLayout(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)

	_, ok, err := s.LoadLayout(ctx, "ternary")
	require.NoError(t, err)
	assert.False(t, ok)

	want := State{
		Kind:        "ternary",
		Expressions: []string{"Fe", "Ca", "Si"},
		Regions:     []string{"AllPoints", "rock"},
		ExcludeMode: true,
		ScaleX:      2,
		ScaleY:      2,
		PanX:        -10,
		PanY:        -3.5,
	}
	require.NoError(t, s.SaveLayout(ctx, "ternary", want))
	got, ok, err := s.LoadLayout(ctx, "ternary")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	want.Expressions[0] = "Mg"
	require.NoError(t, s.SaveLayout(ctx, "ternary", want))
	got, _, err = s.LoadLayout(ctx, "ternary")
	require.NoError(t, err)
	assert.Equal(t, "Mg", got.Expressions[0])

	require.NoError(t, s.SaveLayout(ctx, "binary", State{Kind: "binary"}))
	ids, err := s.Widgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"binary", "ternary"}, ids)
}

func TestSaveLayoutKeepsNewestRevision(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)

	require.NoError(t, s.SaveLayout(ctx, "binary", State{Kind: "binary", ScaleX: 3, Rev: 2}))
	require.NoError(t, s.SaveLayout(ctx, "binary", State{Kind: "binary", ScaleX: 1.5, Rev: 1}))
	got, ok, err := s.LoadLayout(ctx, "binary")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3.0, got.ScaleX)
	assert.Equal(t, int64(2), got.Rev)

	require.NoError(t, s.SaveLayout(ctx, "binary", State{Kind: "binary", ScaleX: 6, Rev: 3}))
	got, _, err = s.LoadLayout(ctx, "binary")
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.ScaleX)
}

func TestLayoutSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openStore(t)
	require.NoError(t, s.SaveLayout(ctx, "variogram", State{Kind: "variogram", BestFit: true}))
	require.NoError(t, s.Close())

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer s2.Close()
	got, ok, err := s2.LoadLayout(ctx, "variogram")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.BestFit)
}
