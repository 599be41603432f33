package models

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"Active", StatusActive, true},
		{"Updated", StatusUpdated, true},
		{"Added", StatusAdded, true},
		{"Removed", StatusRemoved, true},
		{" Removed (Not Found) ", StatusRemoved, true},
		{"", StatusActive, false},
		{"bogus", StatusActive, false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatus(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSnapshotLastWriteWins(t *testing.T) {
	s := NewSnapshot([]FileRecord{
		{FullPath: "/a", FileName: "a", ManualNotes: "first"},
		{FullPath: "/b", FileName: "b"},
		{FullPath: "/a", FileName: "a", ManualNotes: "second"},
	})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	records := s.Records()
	if records[0].FullPath != "/a" || records[1].FullPath != "/b" {
		t.Fatalf("order = %v, want /a then /b", []string{records[0].FullPath, records[1].FullPath})
	}
	got, ok := s.Get("/a")
	if !ok || got.ManualNotes != "second" {
		t.Fatalf("Get(/a) = %+v, %v; want last write", got, ok)
	}
}

func TestSnapshotSetNotes(t *testing.T) {
	s := NewSnapshot([]FileRecord{{FullPath: "/a"}})

	if !s.SetNotes("/a", "kept") {
		t.Fatal("SetNotes(/a) = false, want true")
	}
	if got, _ := s.Get("/a"); got.ManualNotes != "kept" {
		t.Fatalf("notes = %q, want %q", got.ManualNotes, "kept")
	}
	if s.SetNotes("/missing", "x") {
		t.Fatal("SetNotes(/missing) = true, want false")
	}
}
