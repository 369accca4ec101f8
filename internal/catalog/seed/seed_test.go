package seed_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/afrolearn/afrolearn/internal/catalog"
	"github.com/afrolearn/afrolearn/internal/catalog/seed"
)

const validManifest = `{
  "grades": [{"name": "Primary 1"}, {"name": "Primary 2"}],
  "subjects": [{"name": "Mathematics", "icon": "math"}, {"name": "Science", "icon": "flask"}]
}`

const additionUnit = `subject: Mathematics
grade: Primary 1
name: Addition
lessons:
  - name: Adding to 10
    video_url: https://videos.example.com/adding-to-10.mp4
    content: |
      Start with counters and number lines.
  - name: Adding to 20
    content: Practice with two-digit sums.
`

func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}
	return dir
}

func TestImporter_Import(t *testing.T) {
	dir := writeContent(t, map[string]string{
		"catalog.json":                   validManifest,
		"mathematics/addition.unit.yaml": additionUnit,
	})

	store := catalog.NewMemoryStore()
	if err := seed.NewImporter(store).Import(t.Context(), dir); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	subjects, err := store.ListSubjects(t.Context())
	if err != nil {
		t.Fatalf("ListSubjects() error = %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("subjects count = %d, want 2", len(subjects))
	}
	if subjects[0].Name != "Mathematics" || subjects[0].Icon != "math" {
		t.Errorf("subjects[0] = %+v, want Mathematics/math", subjects[0])
	}

	units, err := store.ListUnits(t.Context(), subjects[0].ID, 1)
	if err != nil {
		t.Fatalf("ListUnits() error = %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("units count = %d, want 1", len(units))
	}

	lessons, err := store.ListLessons(t.Context(), units[0].ID)
	if err != nil {
		t.Fatalf("ListLessons() error = %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("lessons count = %d, want 2", len(lessons))
	}
	if lessons[0].Name != "Adding to 10" {
		t.Errorf("lessons[0].Name = %q, want Adding to 10", lessons[0].Name)
	}
	if lessons[0].VideoURL == "" {
		t.Error("lessons[0].VideoURL is empty")
	}
	if lessons[1].VideoURL != "" {
		t.Errorf("lessons[1].VideoURL = %q, want empty", lessons[1].VideoURL)
	}
}

func TestImporter_Import_InvalidManifest(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantErr  string
	}{
		{
			name:     "missing subjects",
			manifest: `{"grades": [{"name": "Primary 1"}]}`,
			wantErr:  "manifest invalid",
		},
		{
			name:     "empty grade name",
			manifest: `{"grades": [{"name": ""}], "subjects": [{"name": "Mathematics"}]}`,
			wantErr:  "manifest invalid",
		},
		{
			name:     "not json",
			manifest: `grades: []`,
			wantErr:  "validate manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeContent(t, map[string]string{"catalog.json": tt.manifest})

			err := seed.NewImporter(catalog.NewMemoryStore()).Import(t.Context(), dir)
			if err == nil {
				t.Fatal("Import() error = nil, want validation failure")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Import() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestImporter_Import_UnknownSubject(t *testing.T) {
	dir := writeContent(t, map[string]string{
		"catalog.json": validManifest,
		"geography.unit.yaml": `subject: Geography
grade: Primary 1
name: Maps
lessons: []
`,
	})

	err := seed.NewImporter(catalog.NewMemoryStore()).Import(t.Context(), dir)
	if err == nil {
		t.Fatal("Import() error = nil, want unknown subject failure")
	}
	if !strings.Contains(err.Error(), "unknown subject") {
		t.Errorf("Import() error = %v, want unknown subject", err)
	}
}

func TestImporter_Import_MissingManifest(t *testing.T) {
	dir := t.TempDir()

	err := seed.NewImporter(catalog.NewMemoryStore()).Import(t.Context(), dir)
	if err == nil {
		t.Fatal("Import() error = nil, want read failure")
	}
}
