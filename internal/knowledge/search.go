package knowledge

import (
	"log"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildCourseIndex builds an in-memory full-text index over the course
// catalog. The catalog is small, so the index is rebuilt from scratch on
// every load.
func buildCourseIndex(courses []*Course) (bleve.Index, error) {
	index, err := bleve.NewMemOnly(buildCourseMapping())
	if err != nil {
		return nil, err
	}

	for _, c := range courses {
		doc := map[string]interface{}{
			"id":          c.ID,
			"name":        c.Name,
			"description": c.Description,
			"department":  c.Department,
		}
		if err := index.Index(c.ID, doc); err != nil {
			index.Close()
			return nil, err
		}
	}
	return index, nil
}

func buildCourseMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	courseMapping := bleve.NewDocumentMapping()

	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	idField.Store = true
	idField.Index = true
	courseMapping.AddFieldMappingsAt("id", idField)

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	textField.Store = false
	textField.Index = true
	courseMapping.AddFieldMappingsAt("name", textField)
	courseMapping.AddFieldMappingsAt("description", textField)
	courseMapping.AddFieldMappingsAt("department", textField)

	indexMapping.DefaultMapping = courseMapping
	return indexMapping
}

// Courses returns the full course catalog.
func (b *Base) Courses() []*Course {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.courses
}

// CourseByID returns the course with the given id, or nil when absent.
func (b *Base) CourseByID(id string) *Course {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.courses {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CourseByName returns the first course whose name contains name
// (case-insensitive), or nil.
func (b *Base) CourseByName(name string) *Course {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lower := strings.ToLower(name)
	for _, c := range b.courses {
		if strings.Contains(strings.ToLower(c.Name), lower) {
			return c
		}
	}
	return nil
}

// SearchCourses runs a free-text search over course names, descriptions, and
// departments, best match first. When the full-text index is unavailable it
// degrades to substring matching.
func (b *Base) SearchCourses(query string) []*Course {
	b.mu.RLock()
	index := b.index
	b.mu.RUnlock()

	if index != nil {
		req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
		req.Size = 10
		result, err := index.Search(req)
		if err != nil {
			log.Printf("knowledge: course search failed: %v", err)
		} else if len(result.Hits) > 0 {
			var out []*Course
			for _, hit := range result.Hits {
				if c := b.CourseByID(hit.ID); c != nil {
					out = append(out, c)
				}
			}
			return out
		}
	}

	return b.substringSearch(query)
}

func (b *Base) substringSearch(query string) []*Course {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lower := strings.ToLower(query)
	var out []*Course
	for _, c := range b.courses {
		if strings.Contains(strings.ToLower(c.Name), lower) ||
			strings.Contains(strings.ToLower(c.Description), lower) ||
			strings.Contains(strings.ToLower(c.Department), lower) {
			out = append(out, c)
		}
	}
	return out
}

// CoursesByLevel returns courses at the given level (undergraduate or
// postgraduate).
func (b *Base) CoursesByLevel(level string) []*Course {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*Course
	for _, c := range b.courses {
		if c.Level == level {
			out = append(out, c)
		}
	}
	return out
}

// CoursesByDepartment returns courses in the given department
// (case-insensitive).
func (b *Base) CoursesByDepartment(department string) []*Course {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*Course
	for _, c := range b.courses {
		if strings.EqualFold(c.Department, department) {
			out = append(out, c)
		}
	}
	return out
}

// FeesByCourseID returns the fee structure for a course, or nil when absent.
func (b *Base) FeesByCourseID(courseID string) *FeeStructure {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, f := range b.fees {
		if f.CourseID == courseID {
			return f
		}
	}
	return nil
}

// Scholarship computes merit-scholarship eligibility for a 12th-standard
// percentage against a course's tuition. The applicable tier is the one whose
// inclusive [min, max] range contains the score; no matching tier means not
// eligible, reported explicitly rather than omitted.
func (b *Base) Scholarship(percentage float64, courseID string) ScholarshipResult {
	var result ScholarshipResult

	fee := b.FeesByCourseID(courseID)
	if fee == nil {
		return result
	}

	tuition := float64(fee.Tuition())
	result.OriginalTuition = tuition

	b.mu.RLock()
	tiers := b.tiers
	b.mu.RUnlock()

	for _, tier := range tiers {
		if tier.MinPercentage <= percentage && percentage <= tier.MaxPercentage {
			result.Eligible = true
			result.ScholarshipName = "Merit Scholarship"
			result.DiscountPercentage = tier.DiscountPercentage
			result.DiscountAmount = tuition * tier.DiscountPercentage / 100
			result.FinalTuition = tuition - result.DiscountAmount
			break
		}
	}
	return result
}
