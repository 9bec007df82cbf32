package engine

import "github.com/admitdesk/admitdesk/internal/knowledge"

// Knowledge is the read-only knowledge-base surface the specialist handlers
// consume. Lookups return nil (or a zero result) for absent records; they
// never fail a turn.
type Knowledge interface {
	Courses() []*knowledge.Course
	CourseByID(id string) *knowledge.Course
	SearchCourses(query string) []*knowledge.Course
	FeesByCourseID(courseID string) *knowledge.FeeStructure
	Scholarship(percentage float64, courseID string) knowledge.ScholarshipResult
}
