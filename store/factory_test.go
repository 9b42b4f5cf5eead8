package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ivalid/config"
)

func TestNewSourceFactory(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		cfg     config.SourceConfig
		wantErr bool
	}{
		{"memory", config.SourceConfig{Kind: "memory"}, false},
		{"mem alias", config.SourceConfig{Kind: "mem"}, false},
		{"empty", config.SourceConfig{Kind: "empty"}, false},
		{"file", config.SourceConfig{Kind: "file", Path: filepath.Join(t.TempDir(), "catalog.json")}, false},
		{"file without path", config.SourceConfig{Kind: "file"}, true},
		{"firestore without project", config.SourceConfig{Kind: "firestore"}, true},
		{"unknown", config.SourceConfig{Kind: "sqlite"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src, err := NewSource(ctx, tc.cfg, zerolog.Nop())
			if tc.wantErr {
				require.Error(t, err)
				assert.Nil(t, src, "no typed-nil source on error")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, src)
		})
	}
}

func TestNewSourceMemoryServesFixtures(t *testing.T) {
	src, err := NewSource(context.Background(), config.SourceConfig{Kind: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	products, err := src.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, len(FixtureProducts()))
}
