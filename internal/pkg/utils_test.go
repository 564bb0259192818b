package pkg_test

import (
	"testing"
	"time"

	"chadder/internal/pkg"
)

func TestStartOfToday(t *testing.T) {
	now := time.Date(2025, 3, 12, 17, 45, 30, 0, time.UTC)
	got := pkg.StartOfToday(now)
	want := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfToday = %v, want %v", got, want)
	}
}

func TestStartOfTodayConvertsZone(t *testing.T) {
	zone := time.FixedZone("UTC+7", 7*60*60)
	// 02:00 on the 13th in UTC+7 is still the 12th in UTC
	now := time.Date(2025, 3, 13, 2, 0, 0, 0, zone)
	got := pkg.StartOfToday(now)
	want := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfToday = %v, want %v", got, want)
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "wednesday rolls back to sunday",
			now:  time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday is its own week start",
			now:  time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC),
			want: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "saturday is the last day of the week",
			now:  time.Date(2025, 3, 15, 0, 0, 1, 0, time.UTC),
			want: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pkg.StartOfWeek(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("StartOfWeek(%v) = %v, want %v", tt.now, got, tt.want)
			}
			if got.Weekday() != time.Sunday {
				t.Errorf("StartOfWeek(%v) falls on %v, want Sunday", tt.now, got.Weekday())
			}
		})
	}
}

func TestEndOfWeek(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	got := pkg.EndOfWeek(now)
	want := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("EndOfWeek = %v, want %v", got, want)
	}
}

func TestChunkStrings(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		size  int
		want  [][]string
	}{
		{
			name:  "empty input",
			items: nil,
			size:  100,
			want:  nil,
		},
		{
			name:  "under one chunk",
			items: []string{"a", "b"},
			size:  3,
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "exact multiple",
			items: []string{"a", "b", "c", "d"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "remainder in last chunk",
			items: []string{"a", "b", "c", "d", "e"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		},
		{
			name:  "non-positive size",
			items: []string{"a"},
			size:  0,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pkg.ChunkStrings(tt.items, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("ChunkStrings = %v, want %v", got, tt.want)
			}
			for i := range got {
				if len(got[i]) != len(tt.want[i]) {
					t.Fatalf("chunk %d = %v, want %v", i, got[i], tt.want[i])
				}
				for j := range got[i] {
					if got[i][j] != tt.want[i][j] {
						t.Errorf("chunk %d item %d = %q, want %q", i, j, got[i][j], tt.want[i][j])
					}
				}
			}
		})
	}
}
