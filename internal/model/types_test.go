package model

import (
	"testing"
	"time"
)

func TestSourceTier_String(t *testing.T) {
	tests := []struct {
		tier SourceTier
		want string
	}{
		{Tier1, "tier1"},
		{Tier2, "tier2"},
		{Tier3, "tier3"},
		{TierUnknown, "unknown"},
		{SourceTier(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("SourceTier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestRawItem_AgeMinutes(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item RawItem
		want int
	}{
		{"two minutes old", RawItem{PublishedAt: now.Add(-2 * time.Minute)}, 2},
		{"rounds down", RawItem{PublishedAt: now.Add(-90 * time.Second)}, 1},
		{"future timestamp clamps to zero", RawItem{PublishedAt: now.Add(5 * time.Minute)}, 0},
		{"missing timestamp", RawItem{}, AgeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.AgeMinutes(now); got != tt.want {
				t.Errorf("AgeMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}
