package knowledge

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsDataFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/data/courses.json", true},
		{"/data/fees.json", true},
		{"/data/scholarships.json", true},
		{"/data/notes.txt", false},
		{"/data/courses.json.swp", false},
	}

	for _, tt := range tests {
		if got := isDataFile(tt.path); got != tt.want {
			t.Errorf("isDataFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_ReloadsOnFileChange(t *testing.T) {
	if testing.Short() {
		t.Skip("debounce wait in short mode")
	}

	dir := writeDataDir(t, testCourses, testFees, testScholarships)
	b, err := NewBase(dir)
	if err != nil {
		t.Fatalf("NewBase() error = %v", err)
	}

	w, err := NewWatcher(b)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	updated := `{
  "courses": [
    {
      "id": "BBA",
      "name": "BBA",
      "level": "undergraduate",
      "department": "Management",
      "description": "Undergraduate business program.",
      "duration_years": 3,
      "seats": 80
    }
  ]
}`
	if err := os.WriteFile(filepath.Join(dir, coursesFile), []byte(updated), 0644); err != nil {
		t.Fatalf("rewrite courses.json: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if c := b.CourseByID("BBA"); c != nil {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("watcher did not reload the knowledge base")
}

func TestWatcher_StopIsClean(t *testing.T) {
	b := newTestBase(t)

	w, err := NewWatcher(b)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.Stop()

	// Stopping released the watcher; the base still serves lookups.
	if c := b.CourseByID("BTECH_CSE"); c == nil {
		t.Error("base unusable after watcher stop")
	}
}
