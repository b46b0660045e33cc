package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		major   uint64
		wantErr bool
	}{
		{in: "2.0.0", major: 2},
		{in: "1.5.0", major: 1},
		{in: "2.1.0-beta.1", major: 2},
		{in: "3.0.0+build.7", major: 3},
		{in: "", wantErr: true},
		{in: "2", wantErr: true},
		{in: "2.0", wantErr: true},
		{in: "v2.0.0", wantErr: true},
		{in: "two.zero.zero", wantErr: true},
		{in: "2.0.0.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseVersion(tt.in)
			if tt.wantErr {
				var versionErr *SchemaVersionError
				require.True(t, errors.As(err, &versionErr), "got %v", err)
				assert.Equal(t, tt.in, versionErr.Version)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.major, v.Major())
			assert.Equal(t, tt.in, v.String())
		})
	}
}

func TestVersion_JSON(t *testing.T) {
	var holder struct {
		V Version `json:"v"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"v":"2.0.0"}`), &holder))
	assert.Equal(t, uint64(2), holder.V.Major())

	out, err := json.Marshal(holder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"2.0.0"}`, string(out))

	err = json.Unmarshal([]byte(`{"v":"2.0"}`), &holder)
	var versionErr *SchemaVersionError
	assert.True(t, errors.As(err, &versionErr))
}

func TestVersion_Compare(t *testing.T) {
	assert.Equal(t, -1, MustParseVersion("1.9.0").Compare(MustParseVersion("2.0.0")))
	assert.Equal(t, 0, MustParseVersion("2.0.0").Compare(MustParseVersion("2.0.0")))
	assert.True(t, Version{}.IsZero())
	assert.Equal(t, uint64(0), Version{}.Major())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, LineFarRight.Valid())
	assert.False(t, LineIndex(4).Valid())
	assert.True(t, LayerTop.Valid())
	assert.False(t, LineLayer(3).Valid())
	assert.False(t, NoteType(2).Valid())
	assert.True(t, NoteBomb.Valid())
	assert.True(t, CutDot.Valid())
	assert.False(t, CutDirection(9).Valid())
	assert.False(t, ObstacleType(2).Valid())
	assert.False(t, RankEnum(2).Valid())
	assert.True(t, RankExpertPlus.Valid())
	assert.False(t, Characteristic("standard").Valid())
	assert.True(t, EnvironmentKDA.Valid())
	assert.Equal(t, "DownRight", CutDownRight.String())
	assert.Equal(t, "NoteType(2)", NoteType(2).String())
}
