package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
)

func TestPrepare(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		rows    []analysis.Activity
		kept    int
		wantErr bool
		fields  []string
	}{
		{
			name: "valid rows",
			rows: []analysis.Activity{
				{Name: "Hiking", Category: "Outdoors", Price: "Free", LoveVotes: 3},
				{Name: "Opera", Category: "Culture", Price: "$80", WebsiteLink: "https://opera.example.com"},
			},
			kept: 2,
		},
		{
			name: "blank rows dropped",
			rows: []analysis.Activity{
				{Name: "Hiking", Category: "Outdoors", Price: "Free"},
				{Price: "N/A"},
			},
			kept: 1,
		},
		{
			name:    "only blank rows",
			rows:    []analysis.Activity{{Price: "N/A"}},
			wantErr: true,
		},
		{
			name: "missing category and bad url",
			rows: []analysis.Activity{
				{Name: "Hiking", Category: "Outdoors"},
				{Name: "Opera", WebsiteLink: "not a url"},
			},
			wantErr: true,
			fields:  []string{"row 3 category", "row 3 website_link"},
		},
		{
			name: "negative votes",
			rows: []analysis.Activity{
				{Name: "Opera", Category: "Culture", PassVotes: -1},
			},
			wantErr: true,
			fields:  []string{"row 2 pass_votes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, err := v.Prepare(tt.rows)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, kept, tt.kept)
				return
			}
			require.Error(t, err)
			appErr := errors.ToAppError(err)
			assert.Equal(t, errors.CategoryValidation, appErr.Category)
			for _, f := range tt.fields {
				assert.Contains(t, appErr.Fields, f)
			}
		})
	}
}

func TestRecordActivity(t *testing.T) {
	r := Record{Name: "Tacos", Category: "Food", LoveVotes: 2, LikeVotes: 1}
	a := r.Activity()
	assert.Equal(t, 5.0, a.Score)
	assert.Equal(t, "N/A", a.Price)

	override := 42.0
	r.Score = &override
	assert.Equal(t, 42.0, r.Activity().Score)

	back := RecordOf(a)
	require.NotNil(t, back.Score)
	assert.Equal(t, 5.0, *back.Score)
}
