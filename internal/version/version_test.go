package version

import (
	"testing"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    semver.Version
		wantErr bool
	}{
		"full":              {input: "1.2.3", want: semver.Version{Major: 1, Minor: 2, Patch: 3}},
		"trailing newline":  {input: "0.1.0\n", want: Initial},
		"major-minor tag":   {input: "1.2", wantErr: true},
		"major tag":         {input: "1", wantErr: true},
		"latest tag":        {input: "latest", wantErr: true},
		"empty":             {input: "", wantErr: true},
		"prerelease parses": {input: "2.0.0-rc1", want: semver.Version{Major: 2, Pre: []semver.PRVersion{{VersionStr: "rc1"}}}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.EQ(got), "got %s", got)
		})
	}
}

func TestBump(t *testing.T) {
	t.Parallel()

	v := semver.MustParse("1.2.3")
	assert.Equal(t, "1.2.4", BumpPatch(v).String())
	assert.Equal(t, "1.3.0", BumpMinor(v).String())
	assert.Equal(t, "2.0.0", BumpMajor(v).String())
	assert.Equal(t, "1.2.3", v.String(), "bumping must not modify the receiver")
}

func TestNext(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		prev, current string
		want          string
		wantChange    bool
	}{
		"patch bump kept":     {prev: "1.2.3", current: "1.2.4", want: "1.2.4"},
		"minor bump kept":     {prev: "1.2.3", current: "1.3.0", want: "1.3.0"},
		"major bump kept":     {prev: "1.2.3", current: "2.0.0", want: "2.0.0"},
		"same as released":    {prev: "1.2.3", current: "1.2.3", want: "1.2.4", wantChange: true},
		"behind released":     {prev: "1.2.3", current: "1.0.0", want: "1.2.4", wantChange: true},
		"skipped a version":   {prev: "1.2.3", current: "1.2.5", want: "1.2.4", wantChange: true},
		"minor without reset": {prev: "1.2.3", current: "1.3.3", want: "1.2.4", wantChange: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, changed := Next(semver.MustParse(tt.prev), semver.MustParse(tt.current))
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.wantChange, changed)
		})
	}
}
