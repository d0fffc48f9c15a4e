package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

func TestPathFilter_Match(t *testing.T) {
	cfg := m.DefaultConfig()

	f, err := NewPathFilter("/project", cfg.Include, cfg.Exclude)
	require.NoError(t, err)

	tests := []struct {
		path m.Path
		want bool
	}{
		{"/project/src/app.lua", true},
		{"/project/app.lua", true},
		{"src/app.lua", true},
		{"./app.lua", true},
		{"/project/spec/app_spec.lua", false},
		{"/project/app_test.lua", false},
		{"/project/README.md", false},
		{"/elsewhere/lib.lua", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Match(tt.path), string(tt.path))
	}
}

func TestPathFilter_EmptyInclude(t *testing.T) {
	f, err := NewPathFilter("", nil, []string{"vendor/**"})
	require.NoError(t, err)

	assert.True(t, f.Match("anything.txt"))
	assert.False(t, f.Match("vendor/x/y.lua"))
}

func TestPathFilter_InvalidGlob(t *testing.T) {
	_, err := NewPathFilter("", []string{"[unclosed"}, nil)
	assert.Error(t, err)
}
