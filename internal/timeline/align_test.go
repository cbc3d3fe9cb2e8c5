package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/showcut/internal/domain"
)

func TestAlign(t *testing.T) {
	keepmarks := []Interval{{Start: 0, End: 1_000}, {Start: 3_000, End: 4_000}}

	tests := []struct {
		name     string
		chapter  domain.Chapter
		expected *Interval
	}{
		{
			name:     "straddles the gap",
			chapter:  chapter("chp1", "M", 500, 3_500),
			expected: &Interval{Start: 500, End: 1_500},
		},
		{
			name:     "inside first keepmark",
			chapter:  chapter("chp1", "M", 100, 900),
			expected: &Interval{Start: 100, End: 900},
		},
		{
			name:     "inside second keepmark",
			chapter:  chapter("chp1", "M", 3_200, 3_800),
			expected: &Interval{Start: 1_200, End: 1_800},
		},
		{
			name:     "entirely in the gap",
			chapter:  chapter("chp1", "M", 1_500, 2_500),
			expected: nil,
		},
		{
			name:     "after the last keepmark",
			chapter:  chapter("chp1", "M", 4_500, 5_000),
			expected: nil,
		},
		{
			name:     "covers everything",
			chapter:  chapter("chp1", "M", 0, 5_000),
			expected: &Interval{Start: 0, End: 2_000},
		},
		{
			name:     "touching a keepmark end has no positive overlap",
			chapter:  chapter("chp1", "M", 1_000, 2_000),
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Align([]domain.Chapter{tt.chapter}, keepmarks)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.expected.Start, got[0].Start)
			assert.Equal(t, tt.expected.End, got[0].End)
			assert.Equal(t, tt.chapter.ID, got[0].ID)
		})
	}
}

func TestAlign_LeadingGap(t *testing.T) {
	keepmarks := []Interval{{Start: 2_000, End: 5_000}}
	got := Align([]domain.Chapter{chapter("chp1", "M", 1_000, 3_000)}, keepmarks)

	require.Len(t, got, 1)
	assert.Equal(t, int64(0), got[0].Start)
	assert.Equal(t, int64(1_000), got[0].End)
}

func TestAlign_DurationLaw(t *testing.T) {
	keepmarks := []Interval{{Start: 0, End: 1_000}, {Start: 2_000, End: 2_500}, {Start: 4_000, End: 9_000}}
	chapters := []domain.Chapter{
		chapter("chp1", "M", 0, 1_200),
		chapter("chp2", "M", 1_200, 2_200),
		chapter("chp3", "M", 2_200, 4_500),
		chapter("chp4", "M", 4_500, 8_000),
		chapter("chp5", "M", 8_000, 12_000),
	}

	got := Align(chapters, keepmarks)
	retained := TotalDuration(keepmarks)

	var sum int64
	for _, c := range got {
		assert.Less(t, c.Start, c.End)
		assert.LessOrEqual(t, c.End, retained)
		sum += c.Duration()
	}
	assert.LessOrEqual(t, sum, retained)
	assert.Len(t, got, 5)
}

func TestAlign_PreservesOtherFields(t *testing.T) {
	c := domain.Chapter{ID: "chp7", Start: 3_100, End: 3_300, Title: "Song", Hidden: true, Type: "M"}
	got := Align([]domain.Chapter{c}, []Interval{{Start: 0, End: 1_000}, {Start: 3_000, End: 4_000}})

	require.Len(t, got, 1)
	assert.Equal(t, "chp7", got[0].ID)
	assert.Equal(t, "Song", got[0].Title)
	assert.True(t, got[0].Hidden)
	assert.Equal(t, int64(3_100), c.Start)
}
