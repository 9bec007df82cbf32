package knowledge

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// File names expected inside the data directory.
const (
	coursesFile      = "courses.json"
	feesFile         = "fees.json"
	scholarshipsFile = "scholarships.json"
)

// Base is the in-memory knowledge base. All reads go through an RWMutex so
// a hot reload can swap the data without racing in-flight handler lookups.
type Base struct {
	dataDir string

	mu      sync.RWMutex
	courses []*Course
	fees    []*FeeStructure
	tiers   []ScholarshipTier
	index   bleve.Index
}

// NewBase loads the knowledge base from dataDir.
func NewBase(dataDir string) (*Base, error) {
	b := &Base{dataDir: dataDir}
	if err := b.Load(); err != nil {
		return nil, err
	}
	return b, nil
}

// Load reads, validates, and indexes all data files. Safe to call again for
// hot reload; readers see either the old snapshot or the new one, never a
// mix.
func (b *Base) Load() error {
	courses, err := loadCourses(filepath.Join(b.dataDir, coursesFile))
	if err != nil {
		return err
	}

	fees, err := loadFees(filepath.Join(b.dataDir, feesFile))
	if err != nil {
		return err
	}

	tiers, err := loadScholarshipTiers(filepath.Join(b.dataDir, scholarshipsFile))
	if err != nil {
		return err
	}

	index, err := buildCourseIndex(courses)
	if err != nil {
		// Search degrades to substring matching without an index.
		log.Printf("knowledge: course index unavailable: %v", err)
		index = nil
	}

	b.mu.Lock()
	old := b.index
	b.courses = courses
	b.fees = fees
	b.tiers = tiers
	b.index = index
	b.mu.Unlock()

	if old != nil {
		old.Close()
	}

	log.Printf("knowledge: loaded %d courses, %d fee structures, %d scholarship tiers",
		len(courses), len(fees), len(tiers))
	return nil
}

func loadCourses(path string) ([]*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := validateDocument(coursesSchema, data); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	var doc struct {
		Courses []*Course `json:"courses"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return doc.Courses, nil
}

func loadFees(path string) ([]*FeeStructure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := validateDocument(feesSchema, data); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	var doc struct {
		FeeStructure []*FeeStructure `json:"fee_structure"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return doc.FeeStructure, nil
}

func loadScholarshipTiers(path string) ([]ScholarshipTier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := validateDocument(scholarshipsSchema, data); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	var doc struct {
		ScholarshipRules struct {
			MeritBased struct {
				Tiers []ScholarshipTier `json:"tiers"`
			} `json:"merit_based"`
		} `json:"scholarship_rules"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return doc.ScholarshipRules.MeritBased.Tiers, nil
}
