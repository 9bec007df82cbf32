package engine

import "testing"

func TestExtractName(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"My name is kapil", "Kapil"},
		{"my name is RAHUL sharma", "Rahul"},
		{"I am Priya", "Priya"},
		{"i'm arjun", "Arjun"},
		{"this is Sneha", "Sneha"},
		{"call me Dev", "Dev"},
		{"it's ananya", "Ananya"},
		{"its rohan", "Rohan"},
		{"Kapil", "Kapil"},
		{"kapil kumar", "Kapil"},
		{"", "Friend"},
		{"   ", "Friend"},
		{"my name is ", "My"},
	}

	for _, tt := range tests {
		if got := ExtractName(tt.message); got != tt.want {
			t.Errorf("ExtractName(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"my email is test@example.com", "test@example.com"},
		{"reach me at first.last+tag@sub.domain.co.in please", "first.last+tag@sub.domain.co.in"},
		{"no email here", ""},
		{"broken@", ""},
	}

	for _, tt := range tests {
		if got := ExtractEmail(tt.text); got != tt.want {
			t.Errorf("ExtractEmail(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"call me on 9876543210", "9876543210"},
		{"my number is +91 9876543210", "9876543210"},
		{"+91-9876543210", "9876543210"},
		{"+919876543210", "9876543210"},
		{"98765 43210 is wrong spacing", ""},
		{"1234567890", ""},
		{"no phone here", ""},
	}

	for _, tt := range tests {
		if got := ExtractPhone(tt.text); got != tt.want {
			t.Errorf("ExtractPhone(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractPercentage(t *testing.T) {
	tests := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"i got 85%", 85, true},
		{"i scored 92.5 percent", 92.5, true},
		{"scored 78 in boards", 78, true},
		{"got 88.25", 88.25, true},
		{"i have 91 in 12th", 91, true},
		{"tell me about fees", 0, false},
	}

	for _, tt := range tests {
		got, ok := ExtractPercentage(tt.text)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractPercentage(%q) = (%v, %v), want (%v, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExtractContactTogether(t *testing.T) {
	text := "test@example.com or 9876543210"
	if got := ExtractEmail(text); got != "test@example.com" {
		t.Errorf("ExtractEmail = %q", got)
	}
	if got := ExtractPhone(text); got != "9876543210" {
		t.Errorf("ExtractPhone = %q", got)
	}
}
