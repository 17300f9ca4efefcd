package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"trails.json", FormatJSON, false},
		{"TRAILS.JSON", FormatJSON, false},
		{"trails.jsonl", FormatJSONL, false},
		{"trails.ndjson", FormatJSONL, false},
		{"trails.yaml", FormatYAML, false},
		{"trails.yml", FormatYAML, false},
		{"trails.csv", "", true},
		{"trails", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadTrails_TolerantJSON(t *testing.T) {
	in := `[
	  {"id": 1, "name": "甲", "length": "3.5", "difficulty": "hard", "rating": 4.2,
	   "seasons": "春", "terrain": null, "features": [1, 2], "lastUpdated": "2024-03-01"},
	  {"id": 2, "name": "乙", "rating": null, "lastUpdated": "2024-03-01T08:30:00Z"},
	  {"id": 3, "name": "丙", "rating": {"bad": true}, "lastUpdated": "2024-03-01 08:30:00"},
	  {"id": 4, "name": "丁", "lastUpdated": "yesterday"}
	]`

	got, err := ReadTrails(strings.NewReader(in), FormatJSON)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, 3.5, got[0].Length)
	assert.Equal(t, types.DifficultyHard, got[0].Difficulty, "English alias normalized")
	assert.Equal(t, []string{"春"}, got[0].Seasons, "scalar promoted to list")
	assert.Empty(t, got[0].Terrain)
	assert.Empty(t, got[0].Features, "non-string list dropped")
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got[0].LastUpdated)

	assert.Zero(t, got[1].Rating)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), got[1].LastUpdated)

	assert.Zero(t, got[2].Rating)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), got[2].LastUpdated)

	assert.True(t, got[3].LastUpdated.IsZero())
}

func TestReadTrails_JSONLSkipsMalformedLines(t *testing.T) {
	in := strings.Join([]string{
		`{"id": 1, "name": "甲"}`,
		``,
		`{"id": 2, "name": `,
		`{"id": "three"}`,
		`{"id": 4, "name": "丁"}`,
	}, "\n")

	got, err := ReadTrails(strings.NewReader(in), FormatJSONL)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 4, got[1].ID)
}

func TestReadTrails_YAML(t *testing.T) {
	in := `
- id: 7
  name: 象山步道
  length: 1.5
  difficulty: 簡單
  rating: 4.6
  seasons: [春, 秋]
  features: ~
  tags: 夜景
  lastUpdated: 2024-11-02
- id: 8
  name: 雪山主峰
  length: "21.8"
  difficulty: moderate
`
	got, err := ReadTrails(strings.NewReader(in), FormatYAML)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1.5, got[0].Length)
	assert.Equal(t, []string{"春", "秋"}, got[0].Seasons)
	assert.Empty(t, got[0].Features)
	assert.Equal(t, []string{"夜景"}, got[0].Tags)
	assert.Equal(t, 2024, got[0].LastUpdated.Year())

	assert.Equal(t, 21.8, got[1].Length)
	assert.Equal(t, types.DifficultyModerate, got[1].Difficulty)
}

func TestReadTrails_NonFiniteNumbersDecodeZero(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		in     string
	}{
		{
			name:   "json strings",
			format: FormatJSON,
			in:     `[{"id": 1, "rating": "NaN", "length": "-Inf", "latitude": "Inf", "longitude": "nan"}]`,
		},
		{
			name:   "yaml specials",
			format: FormatYAML,
			in:     "- id: 1\n  rating: .nan\n  length: -.inf\n  latitude: .inf\n  longitude: NaN\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadTrails(strings.NewReader(tt.in), tt.format)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Zero(t, got[0].Rating)
			assert.Zero(t, got[0].Length)
			assert.Zero(t, got[0].Latitude)
			assert.Zero(t, got[0].Longitude)
		})
	}
}

func TestReadTrails_EmptyInput(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatJSONL, FormatYAML} {
		got, err := ReadTrails(strings.NewReader(""), f)
		require.NoError(t, err, "format %s", f)
		assert.Empty(t, got)
	}
}

func TestLoad_FromFiles(t *testing.T) {
	dir := t.TempDir()
	trails := filepath.Join(dir, "trails.yaml")
	reviews := filepath.Join(dir, "reviews.jsonl")
	require.NoError(t, os.WriteFile(trails, []byte("- id: 1\n  name: 甲\n- id: 2\n  name: 乙\n"), 0o644))
	require.NoError(t, os.WriteFile(reviews, []byte(
		`{"trailId": 2, "user": "a", "rating": 3, "date": "2024-01-01"}`+"\n"+
			`{"trailId": 2, "user": "b", "rating": 5, "date": "2024-06-01"}`+"\n"), 0o644))

	c, err := Load(Source{TrailsPath: trails, ReviewsPath: reviews})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	sum, err := c.Reviews(2)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, "b", sum.Reviews[0].User, "newest first")
	assert.InDelta(t, 4.0, sum.AverageRating, 1e-9)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	dup := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(dup, []byte(`[{"id":1},{"id":1}]`), 0o644))
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`[{"id":1},`), 0o644))

	tests := []struct {
		name string
		src  Source
		want error
	}{
		{"duplicate ids", Source{TrailsPath: dup}, types.ErrDuplicateID},
		{"unsupported extension", Source{TrailsPath: filepath.Join(dir, "trails.txt")}, ErrUnsupportedFormat},
		{"missing file", Source{TrailsPath: filepath.Join(dir, "missing.json")}, os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.src)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Load(Source{TrailsPath: broken})
	assert.Error(t, err, "truncated JSON array")
}

func TestLoadBundled_WithOverriddenReviews(t *testing.T) {
	dir := t.TempDir()
	reviews := filepath.Join(dir, "reviews.json")
	require.NoError(t, os.WriteFile(reviews, []byte(`[]`), 0o644))

	c, err := Load(Source{ReviewsPath: reviews})
	require.NoError(t, err)

	sum, err := c.Reviews(1)
	require.NoError(t, err)
	assert.Zero(t, sum.Count)
	assert.NotNil(t, sum.Reviews)
}
