package services

import (
	"testing"
	"time"

	"secmaster/internal/models"
	"secmaster/internal/testutil"
)

type obs struct {
	date     time.Time
	sourceID uint
	value    float64
}

func runSelectBest(observations []obs, sources map[uint]models.DataSource) []obs {
	return selectBest(observations,
		func(o obs) time.Time { return o.date },
		func(o obs) uint { return o.sourceID },
		sources)
}

func TestSelectBestLowestPriorityWins(t *testing.T) {
	sources := map[uint]models.DataSource{
		1: {ID: 1, Code: "YFINANCE", Priority: 10, Active: true},
		2: {ID: 2, Code: "MANUAL_ENTRY", Priority: 100, Active: true},
	}
	day := testutil.Date(2024, time.March, 1)

	got := runSelectBest([]obs{
		{date: day, sourceID: 2, value: 101},
		{date: day, sourceID: 1, value: 100},
	}, sources)

	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].sourceID != 1 {
		t.Errorf("expected source 1 (priority 10) to win, got source %d", got[0].sourceID)
	}
}

func TestSelectBestTieBreaksOnSourceCode(t *testing.T) {
	sources := map[uint]models.DataSource{
		1: {ID: 1, Code: "BRAVO", Priority: 50, Active: true},
		2: {ID: 2, Code: "ALPHA", Priority: 50, Active: true},
	}
	day := testutil.Date(2024, time.March, 1)
	input := []obs{
		{date: day, sourceID: 1, value: 1},
		{date: day, sourceID: 2, value: 2},
	}

	// Deterministic regardless of input order.
	for i := 0; i < 2; i++ {
		got := runSelectBest(input, sources)
		if len(got) != 1 || got[0].sourceID != 2 {
			t.Fatalf("expected ALPHA (source 2) to win the tie, got %+v", got)
		}
		input[0], input[1] = input[1], input[0]
	}
}

func TestSelectBestSkipsInactiveSources(t *testing.T) {
	sources := map[uint]models.DataSource{
		1: {ID: 1, Code: "YFINANCE", Priority: 10, Active: false},
		2: {ID: 2, Code: "MANUAL_ENTRY", Priority: 100, Active: true},
	}
	day := testutil.Date(2024, time.March, 1)

	got := runSelectBest([]obs{
		{date: day, sourceID: 1, value: 100},
		{date: day, sourceID: 2, value: 101},
	}, sources)

	if len(got) != 1 || got[0].sourceID != 2 {
		t.Fatalf("expected inactive source to lose, got %+v", got)
	}
}

func TestSelectBestDropsKeysWithNoActiveSource(t *testing.T) {
	sources := map[uint]models.DataSource{
		1: {ID: 1, Code: "YFINANCE", Priority: 10, Active: false},
	}

	got := runSelectBest([]obs{
		{date: testutil.Date(2024, time.March, 1), sourceID: 1},
		{date: testutil.Date(2024, time.March, 2), sourceID: 99}, // unknown source
	}, sources)

	if len(got) != 0 {
		t.Errorf("expected no rows, got %d", len(got))
	}
}

func TestSelectBestOrdersByTimeAscending(t *testing.T) {
	sources := map[uint]models.DataSource{
		1: {ID: 1, Code: "YFINANCE", Priority: 10, Active: true},
	}

	got := runSelectBest([]obs{
		{date: testutil.Date(2024, time.March, 3), sourceID: 1},
		{date: testutil.Date(2024, time.March, 1), sourceID: 1},
		{date: testutil.Date(2024, time.March, 2), sourceID: 1},
	}, sources)

	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].date.Before(got[i].date) {
			t.Errorf("rows not in ascending date order: %v before %v", got[i-1].date, got[i].date)
		}
	}
}

func TestSelectBestEmptyInput(t *testing.T) {
	got := runSelectBest(nil, map[uint]models.DataSource{})
	if len(got) != 0 {
		t.Errorf("expected empty output for empty input, got %d rows", len(got))
	}
}
