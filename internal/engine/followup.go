package engine

import (
	"context"
	"fmt"
	"strings"
)

// FollowupHandler collects contact details and handles engagement requests:
// campus visits, brochures, counselor callbacks. General queries land here
// too, so the session always ends on a way to stay in touch.
type FollowupHandler struct {
	kb Knowledge
}

// NewFollowupHandler creates a followup handler over the given knowledge base.
func NewFollowupHandler(kb Knowledge) *FollowupHandler {
	return &FollowupHandler{kb: kb}
}

func (h *FollowupHandler) Name() string { return string(StageFollowup) }

func (h *FollowupHandler) Handle(_ context.Context, st *State) error {
	st.MarkVisited(h.Name())

	last := st.LastMessage()
	if last == nil || last.Role != RoleUser {
		return nil
	}
	query := strings.ToLower(last.Content)

	email := ExtractEmail(query)
	phone := ExtractPhone(query)
	if email != "" {
		st.SetUserInfo(InfoEmail, email)
	}
	if phone != "" {
		st.SetUserInfo(InfoPhone, phone)
	}

	var response string
	switch {
	case containsAny(query, "campus", "visit", "tour", "see"):
		response = h.campusVisit(st)
	case containsAny(query, "brochure", "pdf", "document", "send", "share"):
		response = h.brochure(st)
	case containsAny(query, "call", "callback", "contact", "talk", "counselor"):
		response = h.callback(st)
	case email != "" || phone != "":
		response = h.acknowledgeContact(st)
	default:
		response = h.followupOptions(st)
	}

	st.AppendMessage(RoleAssistant, response)
	st.AddTopic("Follow-up")
	return nil
}

func (h *FollowupHandler) campusVisit(st *State) string {
	name := st.UserInfoString(InfoName, "there")
	email := st.UserInfoString(InfoEmail, "")
	phone := st.UserInfoString(InfoPhone, "")

	var b strings.Builder
	fmt.Fprintf(&b, `**Campus Visit Booking**

Great choice, %s! I'd love to arrange a campus tour for you.

**Our campus tour includes:**
- Department and lab visits
- Library and learning centers
- Hostel facilities
- Sports complex
- Interaction with faculty and students
- Admission guidance session

**Available Slots:**
- Monday to Saturday: 10:00 AM - 5:00 PM
- Duration: 2-3 hours

**To confirm your visit, I need:**`, name)

	if phone == "" {
		b.WriteString("\n- Your mobile number")
	}
	if email == "" {
		b.WriteString("\n- Your email address")
	}

	if phone != "" && email != "" {
		fmt.Fprintf(&b, `

✅ **Your Details:**
- Mobile: %s
- Email: %s

Your campus visit request has been noted! Our admission team will contact you within 2 hours to confirm the date and time.

You'll receive:
- Confirmation SMS
- Google Maps location link
- Visitor pass QR code
- Campus tour schedule`, phone, email)
	} else {
		b.WriteString("\n\nPlease share your contact details so we can confirm your visit.")
	}

	return b.String()
}

func (h *FollowupHandler) brochure(st *State) string {
	name := st.UserInfoString(InfoName, "there")
	email := st.UserInfoString(InfoEmail, "")
	phone := st.UserInfoString(InfoPhone, "")

	var b strings.Builder
	fmt.Fprintf(&b, "**Course Brochure & Information**\n\nPerfect, %s! I can send you detailed information about", name)

	selected := st.ContextString(KeySelectedCourse)
	if selected != "" && h.kb != nil {
		if course := h.kb.CourseByID(selected); course != nil {
			fmt.Fprintf(&b, " %s", course.Name)
		} else {
			b.WriteString(" our programs")
		}
	} else {
		b.WriteString(" our programs")
	}

	b.WriteString(".\n\n**What you'll receive:**")
	b.WriteString("\n- Detailed course brochure")
	b.WriteString("\n- Fee structure PDF")
	b.WriteString("\n- Placement statistics")
	b.WriteString("\n- Scholarship information")
	b.WriteString("\n- Application form link")

	if email != "" || phone != "" {
		b.WriteString("\n\n**Sending to:**")
		if email != "" {
			fmt.Fprintf(&b, "\n📧 Email: %s", email)
		}
		if phone != "" {
			fmt.Fprintf(&b, "\n📱 WhatsApp: %s", phone)
		}
		b.WriteString("\n\n✅ You'll receive all materials within 5 minutes!")
	} else {
		b.WriteString("\n\n**Where should I send it?**")
		b.WriteString("\nPlease provide your:")
		b.WriteString("\n- Email address, OR")
		b.WriteString("\n- WhatsApp number")
	}

	return b.String()
}

func (h *FollowupHandler) callback(st *State) string {
	name := st.UserInfoString(InfoName, "there")
	phone := st.UserInfoString(InfoPhone, "")

	var b strings.Builder
	fmt.Fprintf(&b, `**Callback Request**

Absolutely, %s! I'll connect you with our admission counselor.

**Our counselors can help with:**
- Detailed course guidance
- Career counseling
- Scholarship evaluation
- Application assistance
- Special admission cases

`, name)

	if phone != "" {
		fmt.Fprintf(&b, `✅ **Your Contact:** %s

**Callback Options:**
1. Within 30 minutes (9 AM - 6 PM on working days)
2. Schedule for later (choose your preferred time)

Our counselor will call you within 30 minutes during working hours (Mon-Sat, 9 AM - 6 PM).

**Meanwhile, is there anything else you'd like to know?**`, phone)
	} else {
		b.WriteString(`**To arrange a callback, I need:**
- Your mobile number
- Preferred time to call (optional)

Please share your number and I'll have our counselor reach out!`)
	}

	return b.String()
}

func (h *FollowupHandler) acknowledgeContact(st *State) string {
	name := st.UserInfoString(InfoName, "there")
	email := st.UserInfoString(InfoEmail, "")
	phone := st.UserInfoString(InfoPhone, "")

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for sharing your details, %s!\n\n", name)
	b.WriteString("**Your Contact Information:**\n")
	if email != "" {
		fmt.Fprintf(&b, "📧 Email: %s\n", email)
	}
	if phone != "" {
		fmt.Fprintf(&b, "📱 Phone: %s\n", phone)
	}

	b.WriteString("\n**What would you like me to do?**\n")
	b.WriteString("1. Send course brochure and fee details\n")
	b.WriteString("2. Schedule a campus visit\n")
	b.WriteString("3. Arrange a callback from admission counselor\n")
	b.WriteString("4. All of the above\n\n")
	b.WriteString("Just let me know your preference!")
	return b.String()
}

func (h *FollowupHandler) followupOptions(st *State) string {
	name := st.UserInfoString(InfoName, "there")

	return fmt.Sprintf(`**How Can I Help You Further, %s?**

I can assist you with:

📱 **Get in Touch:**
- Schedule a campus visit
- Arrange callback from admission counselor
- Send detailed brochure via Email/WhatsApp

📞 **Contact Information:**
- Helpline: 1800-123-4567 (Toll-free)
- WhatsApp: +91-98765-43210
- Email: admissions@paruluniversity.ac.in

🏛️ **Visit Us:**
Parul University
P.O. Limda, Waghodia
Vadodara - 391760, Gujarat

📝 **Quick Actions:**
- Apply Online: admissions.paruluniversity.ac.in
- Virtual Campus Tour: Available on website

What would you like to do next?`, name)
}
