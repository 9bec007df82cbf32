package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/admitdesk/admitdesk/internal/knowledge"
)

// stubKnowledge is a fixed in-memory knowledge base for handler tests.
type stubKnowledge struct {
	courses []*knowledge.Course
	fees    map[string]*knowledge.FeeStructure
	tiers   []knowledge.ScholarshipTier
}

func newStubKnowledge() *stubKnowledge {
	return &stubKnowledge{
		courses: []*knowledge.Course{
			{
				ID:                "BTECH_CSE",
				Name:              "B.Tech Computer Science Engineering",
				Level:             "undergraduate",
				Department:        "Engineering",
				Description:       "Four-year program in computing.",
				DurationYears:     4,
				DurationSemesters: 8,
				Seats:             120,
				Eligibility: knowledge.Eligibility{
					Education:         "12th with PCM",
					Subjects:          []string{"Physics", "Chemistry", "Mathematics"},
					MinimumPercentage: 60,
				},
				Specializations: []string{"AI", "Data Science"},
				Subjects:        []string{"C", "DSA", "OS", "DBMS", "Networks", "ML", "SE"},
				CareerOptions:   []string{"Software Developer"},
			},
			{
				ID:            "MBA",
				Name:          "MBA",
				Level:         "postgraduate",
				Department:    "Management",
				Description:   "Two-year management program.",
				DurationYears: 2,
				Seats:         90,
				Eligibility:   knowledge.Eligibility{Education: "Any bachelor's degree"},
			},
			{
				ID:            "BBA",
				Name:          "BBA",
				Level:         "undergraduate",
				Department:    "Management",
				Description:   "Three-year business program.",
				DurationYears: 3,
				Seats:         80,
				Eligibility:   knowledge.Eligibility{Education: "12th in any stream"},
			},
		},
		fees: map[string]*knowledge.FeeStructure{
			"BTECH_CSE": {
				CourseID:  "BTECH_CSE",
				AnnualFee: 150000,
				Breakdown: map[string]int{
					"tuition":     120000,
					"development": 15000,
					"exam":        5000,
					"library":     5000,
					"sports":      5000,
				},
				PaymentOptions: []knowledge.PaymentOption{
					{Type: "annual", Description: "Pay full year fee at once", DiscountPercentage: 5},
					{Type: "semester", Description: "Pay in two installments", AmountPerInstallment: 75000},
				},
				AdditionalCosts: knowledge.AdditionalCosts{Hostel: 80000, BooksApprox: 10000},
			},
		},
		tiers: []knowledge.ScholarshipTier{
			{MinPercentage: 80, MaxPercentage: 100, DiscountPercentage: 20},
			{MinPercentage: 70, MaxPercentage: 79.99, DiscountPercentage: 10},
		},
	}
}

func (s *stubKnowledge) Courses() []*knowledge.Course { return s.courses }

func (s *stubKnowledge) CourseByID(id string) *knowledge.Course {
	for _, c := range s.courses {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *stubKnowledge) SearchCourses(query string) []*knowledge.Course {
	var results []*knowledge.Course
	lower := strings.ToLower(query)
	for _, c := range s.courses {
		if strings.Contains(lower, strings.ToLower(c.Name)) {
			results = append(results, c)
		}
	}
	return results
}

func (s *stubKnowledge) FeesByCourseID(courseID string) *knowledge.FeeStructure {
	return s.fees[courseID]
}

func (s *stubKnowledge) Scholarship(percentage float64, courseID string) knowledge.ScholarshipResult {
	fee := s.fees[courseID]
	if fee == nil {
		return knowledge.ScholarshipResult{}
	}
	tuition := float64(fee.Tuition())
	for _, tier := range s.tiers {
		if tier.MinPercentage <= percentage && percentage <= tier.MaxPercentage {
			discount := tuition * tier.DiscountPercentage / 100
			return knowledge.ScholarshipResult{
				Eligible:           true,
				ScholarshipName:    "Merit Scholarship",
				DiscountPercentage: tier.DiscountPercentage,
				OriginalTuition:    tuition,
				DiscountAmount:     discount,
				FinalTuition:       tuition - discount,
			}
		}
	}
	return knowledge.ScholarshipResult{OriginalTuition: tuition}
}

func userTurn(st *State, content string) {
	st.AppendMessage(RoleUser, content)
}

func lastReply(t *testing.T, st *State) string {
	t.Helper()
	last := st.LastMessage()
	if last == nil || last.Role != RoleAssistant {
		t.Fatalf("expected an assistant reply, got %+v", last)
	}
	return last.Content
}

func TestGreetingHandler_FirstEncounter(t *testing.T) {
	h := &GreetingHandler{}
	st := NewState("s1")
	userTurn(st, "hello")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	reply := lastReply(t, st)
	if !strings.Contains(reply, "May I know your name?") {
		t.Errorf("welcome reply missing name prompt: %q", reply)
	}
	if !st.UserInfoBool(InfoGreeted) {
		t.Error("greeted flag not set")
	}
	if !st.ContextBool(KeyWaitingForName) {
		t.Error("waiting_for_name flag not set")
	}
	if st.ContextBool(KeyReadyForInquiry) {
		t.Error("ready_for_inquiry should not be set yet")
	}
}

func TestGreetingHandler_NameCaptured(t *testing.T) {
	h := &GreetingHandler{}
	st := NewState("s1")
	st.SetUserInfo(InfoGreeted, true)
	st.SetUserInfo(InfoName, "Kapil")
	userTurn(st, "kapil")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	reply := lastReply(t, st)
	if !strings.Contains(reply, "Nice to meet you, Kapil!") {
		t.Errorf("menu reply missing personalized greeting: %q", reply)
	}
	if !st.ContextBool(KeyReadyForInquiry) {
		t.Error("ready_for_inquiry not set after name capture")
	}
	if st.ContextBool(KeyWaitingForName) {
		t.Error("waiting_for_name should be cleared")
	}
}

func TestGreetingHandler_NoOpOnceRouted(t *testing.T) {
	h := &GreetingHandler{}
	st := NewState("s1")
	st.SetUserInfo(InfoGreeted, true)
	st.SetUserInfo(InfoName, "Kapil")
	st.SetContext(KeyReadyForInquiry, true)
	userTurn(st, "tell me about fees")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if last := st.LastMessage(); last.Role != RoleUser {
		t.Errorf("greeting should be a no-op once routed, got reply %q", last.Content)
	}
}

func TestGreetingHandler_SeededNameMarksGreeted(t *testing.T) {
	h := &GreetingHandler{}
	st := NewState("s1")
	st.SetUserInfo(InfoName, "Kapil") // seeded from a stored profile
	userTurn(st, "hi")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !st.UserInfoBool(InfoGreeted) {
		t.Error("menu must set the greeted flag")
	}
	if !st.ContextBool(KeyReadyForInquiry) {
		t.Error("ready_for_inquiry not set")
	}

	// The next turn's greeting pass must be a no-op so routing proceeds.
	userTurn(st, "how do I apply?")
	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if last := st.LastMessage(); last.Role != RoleUser {
		t.Errorf("greeting replied again instead of no-op: %q", last.Content)
	}
}

func TestIdentifyCourse_SharedKeywordPrecedence(t *testing.T) {
	kb := newStubKnowledge()

	// "business administration" appears in both the MBA and BBA keyword
	// lists; resolution must always take the earlier entry.
	for i := 0; i < 100; i++ {
		c := identifyCourse(kb, "tell me about business administration")
		if c == nil || c.ID != "MBA" {
			t.Fatalf("identifyCourse resolved %+v, want MBA", c)
		}
	}

	if c := identifyCourse(kb, "bba course details"); c == nil || c.ID != "BBA" {
		t.Errorf("identifyCourse(bba) = %+v, want BBA", c)
	}
}

func TestCourseHandler_KeywordMatch(t *testing.T) {
	h := NewCourseHandler(newStubKnowledge())
	st := NewState("s1")
	userTurn(st, "tell me about cse syllabus")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	reply := lastReply(t, st)
	if !strings.Contains(reply, "B.Tech Computer Science Engineering") {
		t.Errorf("reply missing course name: %q", reply)
	}
	if !strings.Contains(reply, "Key Subjects") {
		t.Errorf("syllabus query should list subjects: %q", reply)
	}
	if got := st.ContextString(KeySelectedCourse); got != "BTECH_CSE" {
		t.Errorf("selected_course = %q, want BTECH_CSE", got)
	}
	if len(st.TopicsDiscussed) != 1 || st.TopicsDiscussed[0] != "B.Tech Computer Science Engineering" {
		t.Errorf("topics = %v", st.TopicsDiscussed)
	}
}

func TestCourseHandler_ListsCatalogWhenUnknown(t *testing.T) {
	h := NewCourseHandler(newStubKnowledge())
	st := NewState("s1")
	userTurn(st, "what do you offer")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	reply := lastReply(t, st)
	if !strings.Contains(reply, "Undergraduate Programs") || !strings.Contains(reply, "Postgraduate Programs") {
		t.Errorf("catalog reply missing level grouping: %q", reply)
	}
	if st.ContextString(KeySelectedCourse) != "" {
		t.Error("no course should be selected for a catalog query")
	}
}

func TestFeesHandler_AsksForCourseWhenUnknown(t *testing.T) {
	h := NewFeesHandler(newStubKnowledge())
	st := NewState("s1")
	userTurn(st, "how much are the fees")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	reply := lastReply(t, st)
	if !strings.Contains(reply, "Which course are you interested in?") {
		t.Errorf("expected clarifying question, got %q", reply)
	}
	if len(st.TopicsDiscussed) != 1 || st.TopicsDiscussed[0] != "Fees" {
		t.Errorf("topics = %v", st.TopicsDiscussed)
	}
}

func TestFeesHandler_BreakdownAndPaymentOptions(t *testing.T) {
	h := NewFeesHandler(newStubKnowledge())
	st := NewState("s1")
	userTurn(st, "cse fees and payment options")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	reply := lastReply(t, st)
	if !strings.Contains(reply, "**Annual Fee:** ₹150,000") {
		t.Errorf("reply missing annual fee: %q", reply)
	}
	if !strings.Contains(reply, "Tuition: ₹120,000") {
		t.Errorf("reply missing tuition line: %q", reply)
	}
	if !strings.Contains(reply, "Payment Options") {
		t.Errorf("payment query should list options: %q", reply)
	}
	if got := st.ContextString(KeySelectedCourse); got != "BTECH_CSE" {
		t.Errorf("selected_course = %q, want BTECH_CSE", got)
	}
}

func TestFeesHandler_ScholarshipEligible(t *testing.T) {
	h := NewFeesHandler(newStubKnowledge())
	st := NewState("s1")
	st.SetContext(KeySelectedCourse, "BTECH_CSE")
	userTurn(st, "i scored 85% what will my fees be")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	reply := lastReply(t, st)
	if !strings.Contains(reply, "eligible for Merit Scholarship") {
		t.Errorf("85%% should be eligible: %q", reply)
	}
	if !strings.Contains(reply, "Scholarship Amount: ₹24,000") {
		t.Errorf("discount should be 20%% of 1,20,000: %q", reply)
	}
	if !strings.Contains(reply, "**Your Tuition: ₹96,000**") {
		t.Errorf("final tuition wrong: %q", reply)
	}
	if got, _ := st.Context[KeyScholarshipPercentage].(float64); got != 85 {
		t.Errorf("scholarship_percentage = %v, want 85", got)
	}
}

func TestFeesHandler_ScholarshipIneligible(t *testing.T) {
	h := NewFeesHandler(newStubKnowledge())
	st := NewState("s1")
	st.SetContext(KeySelectedCourse, "BTECH_CSE")
	userTurn(st, "i got 60% in 12th")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	reply := lastReply(t, st)
	if !strings.Contains(reply, "Not eligible for merit scholarship") {
		t.Errorf("60%% should be ineligible: %q", reply)
	}
	if !strings.Contains(reply, "70%+ in 12th standard") {
		t.Errorf("ineligible reply should explain threshold: %q", reply)
	}
}

func TestAdmissionHandler_KeywordDispatch(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"what documents are required", "Required Documents for Admission"},
		{"what is the last date", "Important Admission Dates"},
		{"is there an entrance exam", "Entrance Test Options"},
		{"how to apply step by step", "Detailed Admission Process"},
		{"tell me about admission", "Parul University Admission Process"},
	}

	for _, tt := range tests {
		h := &AdmissionHandler{}
		st := NewState("s1")
		userTurn(st, tt.query)

		if err := h.Handle(context.Background(), st); err != nil {
			t.Fatalf("Handle(%q) error = %v", tt.query, err)
		}
		reply := lastReply(t, st)
		if !strings.Contains(reply, tt.want) {
			t.Errorf("query %q: reply missing %q", tt.query, tt.want)
		}
		if len(st.TopicsDiscussed) != 1 || st.TopicsDiscussed[0] != "Admission Process" {
			t.Errorf("topics = %v", st.TopicsDiscussed)
		}
	}
}

func TestFollowupHandler_CapturesContact(t *testing.T) {
	h := NewFollowupHandler(newStubKnowledge())
	st := NewState("s1")
	st.SetUserInfo(InfoName, "Kapil")
	userTurn(st, "test@example.com or 9876543210")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if got := st.UserInfoString(InfoEmail, ""); got != "test@example.com" {
		t.Errorf("email = %q", got)
	}
	if got := st.UserInfoString(InfoPhone, ""); got != "9876543210" {
		t.Errorf("phone = %q", got)
	}
	reply := lastReply(t, st)
	if !strings.Contains(reply, "Thank you for sharing your details, Kapil!") {
		t.Errorf("expected contact acknowledgment: %q", reply)
	}
}

func TestFollowupHandler_CampusVisit(t *testing.T) {
	h := NewFollowupHandler(newStubKnowledge())
	st := NewState("s1")
	st.SetUserInfo(InfoName, "Priya")
	userTurn(st, "i want to visit the campus")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	reply := lastReply(t, st)
	if !strings.Contains(reply, "Campus Visit Booking") {
		t.Errorf("expected campus visit reply: %q", reply)
	}
	if !strings.Contains(reply, "Please share your contact details") {
		t.Errorf("missing contact ask without details: %q", reply)
	}
}

func TestFollowupHandler_DefaultOptions(t *testing.T) {
	h := NewFollowupHandler(newStubKnowledge())
	st := NewState("s1")
	userTurn(st, "thank you")

	if err := h.Handle(context.Background(), st); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	reply := lastReply(t, st)
	if !strings.Contains(reply, "How Can I Help You Further, there?") {
		t.Errorf("expected default options with placeholder name: %q", reply)
	}
	if !strings.Contains(reply, "1800-123-4567") {
		t.Errorf("default options should include helpline: %q", reply)
	}
}
