// Package knowledge loads and serves the read-only admission knowledge base:
// courses, fee structures, scholarship rules. Data lives in JSON files that
// are schema-validated at load time and indexed for free-text search.
package knowledge

// Eligibility describes who may apply for a course.
type Eligibility struct {
	Education         string   `json:"education"`
	Subjects          []string `json:"subjects,omitempty"`
	MinimumPercentage float64  `json:"minimum_percentage,omitempty"`
}

// Course is one program offered by the university.
type Course struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Level             string      `json:"level"` // undergraduate | postgraduate
	Department        string      `json:"department"`
	Description       string      `json:"description"`
	DurationYears     int         `json:"duration_years"`
	DurationSemesters int         `json:"duration_semesters"`
	Seats             int         `json:"seats"`
	Eligibility       Eligibility `json:"eligibility"`
	Specializations   []string    `json:"specializations,omitempty"`
	Subjects          []string    `json:"subjects,omitempty"`
	CareerOptions     []string    `json:"career_options,omitempty"`
}

// PaymentOption is one way of paying the annual fee.
type PaymentOption struct {
	Type                 string  `json:"type"`
	Description          string  `json:"description"`
	DiscountPercentage   float64 `json:"discount_percentage,omitempty"`
	Amount               int     `json:"amount,omitempty"`
	AmountPerInstallment int     `json:"amount_per_installment,omitempty"`
}

// AdditionalCosts are optional yearly costs on top of the annual fee.
type AdditionalCosts struct {
	Hostel      int `json:"hostel"`
	BooksApprox int `json:"books_approx,omitempty"`
}

// FeeStructure is the annual fee breakdown for one course.
type FeeStructure struct {
	CourseID        string          `json:"course_id"`
	AnnualFee       int             `json:"annual_fee"`
	Breakdown       map[string]int  `json:"breakdown"`
	PaymentOptions  []PaymentOption `json:"payment_options,omitempty"`
	AdditionalCosts AdditionalCosts `json:"additional_costs"`
}

// Tuition returns the tuition component of the fee breakdown.
func (f *FeeStructure) Tuition() int {
	return f.Breakdown["tuition"]
}

// ScholarshipTier is one merit band: a score inside the inclusive
// [MinPercentage, MaxPercentage] range earns DiscountPercentage off tuition.
type ScholarshipTier struct {
	MinPercentage      float64 `json:"min_percentage"`
	MaxPercentage      float64 `json:"max_percentage"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// ScholarshipResult is the outcome of a scholarship calculation. The zero
// value means not eligible.
type ScholarshipResult struct {
	Eligible           bool    `json:"eligible"`
	ScholarshipName    string  `json:"scholarship_name,omitempty"`
	DiscountPercentage float64 `json:"discount_percentage"`
	OriginalTuition    float64 `json:"original_tuition"`
	DiscountAmount     float64 `json:"discount_amount"`
	FinalTuition       float64 `json:"final_tuition"`
}
