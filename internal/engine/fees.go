package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// FeesHandler answers fee-structure and payment questions and computes
// merit-scholarship discounts when the user mentions a 12th-standard
// percentage.
type FeesHandler struct {
	kb Knowledge
}

// NewFeesHandler creates a fees handler over the given knowledge base.
func NewFeesHandler(kb Knowledge) *FeesHandler {
	return &FeesHandler{kb: kb}
}

func (h *FeesHandler) Name() string { return string(StageFees) }

func (h *FeesHandler) Handle(_ context.Context, st *State) error {
	st.MarkVisited(h.Name())

	last := st.LastMessage()
	if last == nil || last.Role != RoleUser {
		return nil
	}
	query := strings.ToLower(last.Content)

	courseID := st.ContextString(KeySelectedCourse)
	if courseID == "" {
		if course := identifyCourse(h.kb, query); course != nil {
			courseID = course.ID
			st.SetContext(KeySelectedCourse, courseID)
		}
	}

	var response string
	switch {
	case courseID == "":
		response = "I'd be happy to help with fee information! Which course are you interested in? We offer B.Tech CSE, B.Tech Mechanical, MBA, BBA, and B.Pharma."
	default:
		if percentage, ok := ExtractPercentage(query); ok {
			response = h.feesWithScholarship(courseID, percentage)
			st.SetContext(KeyScholarshipPercentage, percentage)
		} else {
			response = h.feesResponse(courseID, query)
		}
	}

	st.AppendMessage(RoleAssistant, response)
	st.AddTopic("Fees")
	return nil
}

func (h *FeesHandler) feesResponse(courseID, query string) string {
	fee := h.kb.FeesByCourseID(courseID)
	course := h.kb.CourseByID(courseID)
	if fee == nil || course == nil {
		return "Sorry, I couldn't find fee information for that course."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Fee Structure for %s**\n\n", course.Name)
	fmt.Fprintf(&b, "**Annual Fee:** ₹%s\n\n**Breakdown:**", formatINR(fee.AnnualFee))

	for _, key := range breakdownKeys(fee.Breakdown) {
		fmt.Fprintf(&b, "\n- %s: ₹%s", titleWord(key), formatINR(fee.Breakdown[key]))
	}

	if strings.Contains(query, "payment") || strings.Contains(query, "installment") {
		b.WriteString("\n\n**Payment Options:**\n")
		for _, option := range fee.PaymentOptions {
			fmt.Fprintf(&b, "\n%s: %s", capitalize(option.Type), option.Description)
			if option.DiscountPercentage > 0 {
				fmt.Fprintf(&b, " - Save %g%% (₹%s)", option.DiscountPercentage, formatINR(option.Amount))
			} else {
				fmt.Fprintf(&b, " - ₹%s per installment", formatINR(option.AmountPerInstallment))
			}
		}
	}

	if strings.Contains(query, "hostel") || strings.Contains(query, "total") || strings.Contains(query, "additional") {
		b.WriteString("\n\n**Additional Costs (Optional):**")
		fmt.Fprintf(&b, "\n- Hostel (AC): ₹%s/year (includes mess)", formatINR(fee.AdditionalCosts.Hostel))
		if fee.AdditionalCosts.BooksApprox > 0 {
			fmt.Fprintf(&b, "\n- Books: ₹%s/year (approx.)", formatINR(fee.AdditionalCosts.BooksApprox))
		}
	}

	b.WriteString("\n\n💡 You may be eligible for scholarships based on your 12th percentage! Would you like me to calculate your scholarship?")
	return b.String()
}

func (h *FeesHandler) feesWithScholarship(courseID string, percentage float64) string {
	fee := h.kb.FeesByCourseID(courseID)
	course := h.kb.CourseByID(courseID)
	if fee == nil || course == nil {
		return "Sorry, I couldn't find fee information for that course."
	}

	scholarship := h.kb.Scholarship(percentage, courseID)

	var b strings.Builder
	fmt.Fprintf(&b, "**Fee Structure for %s with Scholarship**\n\n", course.Name)
	fmt.Fprintf(&b, "**Your 12th Percentage:** %g%%\n", percentage)

	if scholarship.Eligible {
		fmt.Fprintf(&b, "\n✅ **Congratulations! You're eligible for %s**\n\n", scholarship.ScholarshipName)
		b.WriteString("**Scholarship Details:**\n")
		fmt.Fprintf(&b, "- Discount: %g%% on tuition fees\n", scholarship.DiscountPercentage)
		fmt.Fprintf(&b, "- Original Tuition: ₹%s\n", formatINRf(scholarship.OriginalTuition))
		fmt.Fprintf(&b, "- Scholarship Amount: ₹%s\n", formatINRf(scholarship.DiscountAmount))
		fmt.Fprintf(&b, "- **Your Tuition: ₹%s**\n\n", formatINRf(scholarship.FinalTuition))

		otherFees := float64(fee.AnnualFee - fee.Tuition())
		totalWithScholarship := scholarship.FinalTuition + otherFees

		b.WriteString("**Total Annual Fee after Scholarship:**\n")
		fmt.Fprintf(&b, "- Tuition: ₹%s\n", formatINRf(scholarship.FinalTuition))
		fmt.Fprintf(&b, "- Other Fees: ₹%s\n", formatINRf(otherFees))
		fmt.Fprintf(&b, "- **Total: ₹%s**\n", formatINRf(totalWithScholarship))
		fmt.Fprintf(&b, "\n**You Save: ₹%s per year!**\n", formatINRf(scholarship.DiscountAmount))

		b.WriteString("\n**Additional Discounts Available:**")
		b.WriteString("\n- Early Bird (apply before 15th March): 5% extra")
		b.WriteString("\n- Sibling Discount: 10% if you have a sibling at Parul")
		fmt.Fprintf(&b, "\n\nWith all discounts, your fee could be as low as ₹%s/year!", formatINRf(totalWithScholarship*0.85))
	} else {
		b.WriteString("\n**Scholarship Status:** Not eligible for merit scholarship\n")
		b.WriteString("- Merit scholarships require 70%+ in 12th standard\n\n")
		fmt.Fprintf(&b, "**Your Fee:** ₹%s/year\n\n", formatINR(fee.AnnualFee))
		b.WriteString("**Other Scholarship Options:**\n")
		b.WriteString("- Sports Scholarship (if you're a state/national player)\n")
		b.WriteString("- EWS Scholarship (if family income < ₹3 lakhs/year)\n")
		b.WriteString("- Government schemes (Post-Matric, PM Scholarship)\n")
	}

	b.WriteString("\n\nWould you like to know about the admission process or payment options?")
	return b.String()
}

// breakdownKeys returns the fee-breakdown keys in stable order, tuition first.
func breakdownKeys(breakdown map[string]int) []string {
	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		if k != "tuition" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := breakdown["tuition"]; ok {
		keys = append([]string{"tuition"}, keys...)
	}
	return keys
}
