package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/mealscan/nutrition"
	"github.com/leofalp/mealscan/providers/store/pgstore"
)

type fakeHistory struct {
	records  []pgstore.Record
	gotUser  string
	gotLimit int
}

func (f *fakeHistory) ListAnalyses(_ context.Context, userID string, limit int) ([]pgstore.Record, error) {
	f.gotUser = userID
	f.gotLimit = limit
	return f.records, nil
}

func (f *fakeHistory) GetAnalysis(_ context.Context, id int64) (pgstore.Record, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return pgstore.Record{}, pgstore.ErrNotFound
}

func historyFixture() *fakeHistory {
	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return &fakeHistory{records: []pgstore.Record{
		{
			ID: 7, UserID: "u1", Mode: nutrition.ModeText, Source: "a banana",
			Succeeded: true, CreatedAt: created,
			Analysis: nutrition.FoodAnalysis{
				FoodItems:   []nutrition.FoodItem{{Name: "banana", Quantity: "1 medium"}},
				TotalMacros: nutrition.MacroSet{Calories: 105},
			},
		},
		{
			ID: 6, UserID: "u1", Mode: nutrition.ModeImage, Source: "/inbox/lunch.jpg",
			Succeeded: false, CreatedAt: created.Add(-time.Hour),
		},
	}}
}

func TestPrintHistory(t *testing.T) {
	store := historyFixture()
	var out bytes.Buffer

	if err := printHistory(context.Background(), &out, store, "u1", 5); err != nil {
		t.Fatalf("printHistory() error = %v", err)
	}
	if store.gotUser != "u1" || store.gotLimit != 5 {
		t.Errorf("ListAnalyses called with %q/%d", store.gotUser, store.gotLimit)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[1], "7 ") || !strings.Contains(lines[1], "ok") || !strings.Contains(lines[1], "105") || !strings.Contains(lines[1], "a banana") {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.Contains(lines[2], "fallback") || !strings.Contains(lines[2], "image") {
		t.Errorf("unexpected second row %q", lines[2])
	}
}

func TestPrintHistory_Empty(t *testing.T) {
	var out bytes.Buffer
	if err := printHistory(context.Background(), &out, &fakeHistory{}, "u2", 5); err != nil {
		t.Fatalf("printHistory() error = %v", err)
	}
	if !strings.Contains(out.String(), "no stored analyses for u2") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestPrintAnalysis(t *testing.T) {
	store := historyFixture()
	var out bytes.Buffer

	if err := printAnalysis(context.Background(), &out, store, 7); err != nil {
		t.Fatalf("printAnalysis() error = %v", err)
	}
	if !strings.Contains(out.String(), `"name": "banana"`) {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	if err := printAnalysis(context.Background(), &out, store, 99); !errors.Is(err, pgstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
