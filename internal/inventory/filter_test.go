package inventory

import (
	"testing"

	"github.com/starford/othala/internal/models"
)

func filterFixture() *models.Snapshot {
	return models.NewSnapshot([]models.FileRecord{
		{
			FolderPath:   "/data",
			FileName:     "x.txt",
			FullPath:     "/data/x.txt",
			LastModified: "2026-03-01T10:00:00Z",
			ContentHint:  "First 2 lines: manuscript draft...",
			Topics:       "PET",
			Status:       models.StatusActive,
		},
		{
			FolderPath:   "/data/old",
			FileName:     "y.txt",
			FullPath:     "/data/old/y.txt",
			LastModified: "2026-03-01T10:00:00Z",
			ContentHint:  "First 2 lines: archived notes...",
			Topics:       models.NoTopics,
			Status:       models.StatusUpdated,
			ManualNotes:  "manuscript revision two",
		},
		{
			FolderPath:   "/archive",
			FileName:     "z.docx",
			FullPath:     "/archive/z.docx",
			LastModified: "2026-03-02T09:00:00Z",
			ContentHint:  "First para: cohort summary....",
			Topics:       "PET, AD",
			Status:       models.StatusRemoved,
			ManualNotes:  "final",
		},
	})
}

func names(records []models.FileRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.FileName)
	}
	return out
}

func assertNames(t *testing.T, got []models.FileRecord, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Fatalf("names = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("names = %v, want %v", g, want)
		}
	}
}

func TestFilterNoCriteria(t *testing.T) {
	assertNames(t, Filter(filterFixture(), Criteria{}), "x.txt", "y.txt", "z.docx")
	assertNames(t, Filter(filterFixture(), Criteria{Status: StatusAll}), "x.txt", "y.txt", "z.docx")
}

func TestFilterNilSnapshot(t *testing.T) {
	got := Filter(nil, Criteria{})
	if got == nil || len(got) != 0 {
		t.Fatalf("Filter(nil) = %v, want empty non-nil slice", got)
	}
}

func TestFilterStatus(t *testing.T) {
	assertNames(t, Filter(filterFixture(), Criteria{Status: "Updated"}), "y.txt")
	assertNames(t, Filter(filterFixture(), Criteria{Status: "Removed"}), "z.docx")
}

func TestFilterFolderExclude(t *testing.T) {
	// "folder:old" drops rows whose folder path contains "old".
	assertNames(t, Filter(filterFixture(), Criteria{Text: "folder:old"}), "x.txt", "z.docx")
}

func TestFilterFolderInclude(t *testing.T) {
	// "incfolder:data" keeps both /data and /data/old rows.
	assertNames(t, Filter(filterFixture(), Criteria{Text: "incfolder:data"}), "x.txt", "y.txt")
}

func TestFilterFolderIncludeOrExclude(t *testing.T) {
	// Inclusions OR together; exclusions apply after inclusions.
	assertNames(t, Filter(filterFixture(), Criteria{Text: "incfolder:data, incfolder:archive"}),
		"x.txt", "y.txt", "z.docx")
	assertNames(t, Filter(filterFixture(), Criteria{Text: "incfolder:data, folder:old"}), "x.txt")
}

func TestFilterFreeText(t *testing.T) {
	// "manuscript" hits x.txt via its content hint and y.txt via its note.
	assertNames(t, Filter(filterFixture(), Criteria{Text: "manuscript"}), "x.txt", "y.txt")
	// Terms AND together.
	assertNames(t, Filter(filterFixture(), Criteria{Text: "manuscript, revision"}), "y.txt")
	// Mixed free text and folder exclusion.
	assertNames(t, Filter(filterFixture(), Criteria{Text: "manuscript, folder:old"}), "x.txt")
}

func TestFilterFreeTextMatchesPathAndTimestamp(t *testing.T) {
	assertNames(t, Filter(filterFixture(), Criteria{Text: "/archive"}), "z.docx")
	assertNames(t, Filter(filterFixture(), Criteria{Text: "2026-03-02"}), "z.docx")
}

func TestFilterTopics(t *testing.T) {
	assertNames(t, Filter(filterFixture(), Criteria{Topics: "pet"}), "x.txt", "z.docx")
	assertNames(t, Filter(filterFixture(), Criteria{Topics: "PET, AD"}), "z.docx")
}

func TestFilterCaseInsensitive(t *testing.T) {
	assertNames(t, Filter(filterFixture(), Criteria{Text: "MANUSCRIPT, FOLDER:OLD"}), "x.txt")
}

func TestFilterBlankTokensIgnored(t *testing.T) {
	assertNames(t, Filter(filterFixture(), Criteria{Text: " , folder: , "}), "x.txt", "y.txt", "z.docx")
}

func TestParseTextQuery(t *testing.T) {
	includes, excludes, terms := parseTextQuery("incfolder:Data, folder:Old, Draft, notes")
	if len(includes) != 1 || includes[0] != "data" {
		t.Fatalf("includes = %v", includes)
	}
	if len(excludes) != 1 || excludes[0] != "old" {
		t.Fatalf("excludes = %v", excludes)
	}
	if len(terms) != 2 || terms[0] != "draft" || terms[1] != "notes" {
		t.Fatalf("terms = %v", terms)
	}
}
