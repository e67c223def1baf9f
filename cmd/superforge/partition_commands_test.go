package main

import (
	"encoding/json"
	"testing"

	"superforge/internal/partition"
)

func TestLocateCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"locate", "1700"}, "")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	requireContains(t, out, "Chapter 1700: section 5, book 4, part 2")

	out, _, err = runCLI(t, []string{"locate", "100", "--output", "json"}, "")
	if err != nil {
		t.Fatalf("locate json: %v", err)
	}
	var loc partition.Location
	if err := json.Unmarshal([]byte(out), &loc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loc.Section != 1 || loc.Book != 1 || loc.Part != 0 {
		t.Fatalf("unexpected location %+v", loc)
	}

	_, _, err = runCLI(t, []string{"locate", "3117"}, "")
	if err == nil {
		t.Fatal("expected error for skipped chapter")
	}
	requireContains(t, err.Error(), "never published")

	if _, _, err := runCLI(t, []string{"locate", "twelve"}, ""); err == nil {
		t.Fatal("expected error for non-numeric chapter")
	}
}

func TestSectionsCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"sections"}, "")
	if err != nil {
		t.Fatalf("sections: %v", err)
	}
	requireContains(t, out, "3034")
	requireContains(t, out, "268")
	requireContains(t, out, "skipped: 3095, 3117")

	out, _, err = runCLI(t, []string{"sections", "-o", "yaml"}, "")
	if err != nil {
		t.Fatalf("sections yaml: %v", err)
	}
	requireContains(t, out, "section: 17")

	if _, _, err := runCLI(t, []string{"sections", "-o", "xml"}, ""); err == nil {
		t.Fatal("expected error for unsupported output format")
	}
}

func TestCompactRanges(t *testing.T) {
	got := compactRanges([]int{1, 2, 3, 5, 7, 8})
	want := []string{"1-3", "5", "7-8"}
	if len(got) != len(want) {
		t.Fatalf("compactRanges = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("compactRanges = %v, want %v", got, want)
		}
	}
}
