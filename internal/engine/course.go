package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/admitdesk/admitdesk/internal/knowledge"
)

// courseKeywords maps course ids to the phrases users actually say for them.
// Checked before falling back to free-text search so that common abbreviations
// ("cse", "mech") resolve deterministically. Order matters: phrases shared
// between courses ("business administration") resolve to the earlier entry.
var courseKeywords = []struct {
	id       string
	keywords []string
}{
	{"BTECH_CSE", []string{"computer science", "cse", "cs", "software", "it", "information technology", "btech cse", "b.tech cse"}},
	{"BTECH_MECH", []string{"mechanical", "mech", "automobile", "manufacturing", "btech mech", "b.tech mech"}},
	{"MBA", []string{"mba", "master of business", "business administration", "management"}},
	{"BBA", []string{"bba", "bachelor of business", "business administration"}},
	{"BPHARMA", []string{"pharmacy", "pharma", "b.pharma", "b pharmacy", "pharmaceutical"}},
}

// CourseHandler answers questions about courses, programs, eligibility, and
// syllabus. When it cannot tell which course the user means it lists the
// catalog instead of guessing.
type CourseHandler struct {
	kb Knowledge
}

// NewCourseHandler creates a course handler over the given knowledge base.
func NewCourseHandler(kb Knowledge) *CourseHandler {
	return &CourseHandler{kb: kb}
}

func (h *CourseHandler) Name() string { return string(StageCourse) }

func (h *CourseHandler) Handle(_ context.Context, st *State) error {
	st.MarkVisited(h.Name())

	last := st.LastMessage()
	if last == nil || last.Role != RoleUser {
		return nil
	}
	query := strings.ToLower(last.Content)

	course := identifyCourse(h.kb, query)
	var response string
	if course != nil {
		response = h.courseResponse(course, query)
		st.SetContext(KeySelectedCourse, course.ID)
		st.AddTopic(course.Name)
	} else {
		response = h.listCourses()
	}

	st.AppendMessage(RoleAssistant, response)
	return nil
}

// identifyCourse resolves a lowercased query to a course, first by keyword
// match, then by free-text search. Shared with the fees handler, which needs
// to resolve a course mentioned inline in a fee question.
func identifyCourse(kb Knowledge, query string) *knowledge.Course {
	for _, entry := range courseKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(query, kw) {
				if c := kb.CourseByID(entry.id); c != nil {
					return c
				}
			}
		}
	}

	if results := kb.SearchCourses(query); len(results) > 0 {
		return results[0]
	}
	return nil
}

func (h *CourseHandler) courseResponse(course *knowledge.Course, query string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**%s**\n\n%s\n\n", course.Name, course.Description)
	fmt.Fprintf(&b, "**Duration:** %d years (%d semesters)\n", course.DurationYears, course.DurationSemesters)
	fmt.Fprintf(&b, "**Seats Available:** %d\n\n", course.Seats)
	fmt.Fprintf(&b, "**Eligibility:**\n- Education: %s", course.Eligibility.Education)

	if len(course.Eligibility.Subjects) > 0 {
		fmt.Fprintf(&b, "\n- Required Subjects: %s", strings.Join(course.Eligibility.Subjects, ", "))
	}
	if course.Eligibility.MinimumPercentage > 0 {
		fmt.Fprintf(&b, "\n- Minimum Percentage: %g%%", course.Eligibility.MinimumPercentage)
	}

	if strings.Contains(query, "specialization") || strings.Contains(query, "branch") {
		if len(course.Specializations) > 0 {
			b.WriteString("\n\n**Specializations Available:**\n")
			for _, spec := range course.Specializations {
				fmt.Fprintf(&b, "- %s\n", spec)
			}
		}
	}

	if strings.Contains(query, "subject") || strings.Contains(query, "syllabus") || strings.Contains(query, "curriculum") {
		if len(course.Subjects) > 0 {
			b.WriteString("\n**Key Subjects:**\n")
			subjects := course.Subjects
			if len(subjects) > 6 {
				subjects = subjects[:6]
			}
			for _, subject := range subjects {
				fmt.Fprintf(&b, "- %s\n", subject)
			}
		}
	}

	if strings.Contains(query, "career") || strings.Contains(query, "job") || strings.Contains(query, "placement") {
		if len(course.CareerOptions) > 0 {
			b.WriteString("\n**Career Opportunities:**\n")
			for _, career := range course.CareerOptions {
				fmt.Fprintf(&b, "- %s\n", career)
			}
		}
	}

	fmt.Fprintf(&b, "\n\nWould you like to know about the fee structure, admission process, or scholarship options for %s?", course.Name)
	return b.String()
}

func (h *CourseHandler) listCourses() string {
	courses := h.kb.Courses()

	var b strings.Builder
	b.WriteString("We offer the following programs at Parul University:\n\n")

	var ug, pg []*knowledge.Course
	for _, c := range courses {
		switch c.Level {
		case "undergraduate":
			ug = append(ug, c)
		case "postgraduate":
			pg = append(pg, c)
		}
	}

	if len(ug) > 0 {
		b.WriteString("**Undergraduate Programs:**\n")
		for _, c := range ug {
			fmt.Fprintf(&b, "- %s (%d years)\n", c.Name, c.DurationYears)
		}
	}
	if len(pg) > 0 {
		b.WriteString("\n**Postgraduate Programs:**\n")
		for _, c := range pg {
			fmt.Fprintf(&b, "- %s (%d years)\n", c.Name, c.DurationYears)
		}
	}

	b.WriteString("\nWhich program would you like to know more about?")
	return b.String()
}
