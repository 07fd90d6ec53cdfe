package form

import (
	"errors"
	"testing"
)

func TestRequiredValidator(t *testing.T) {
	v := Required("")

	if err := v.Validate(""); err == nil {
		t.Error("Expected error for empty string")
	}
	if err := v.Validate("   "); err == nil {
		t.Error("Expected error for whitespace-only string")
	}
	if err := v.Validate("hello"); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestMinLengthValidator(t *testing.T) {
	v := MinLength(2, "too short")

	if err := v.Validate("A"); err == nil {
		t.Error("Expected error for 'A'")
	}
	if err := v.Validate(" A "); err == nil {
		t.Error("Expected error for ' A ' (trimmed len 1)")
	}
	if err := v.Validate(""); err == nil {
		t.Error("Expected error for empty value")
	}
	if err := v.Validate("Al"); err != nil {
		t.Errorf("Expected no error for 'Al', got: %v", err)
	}
	// Length counts characters, not bytes
	if err := v.Validate("Я"); err == nil {
		t.Error("Expected error for single Cyrillic letter")
	}

	var ve ValidationError
	if err := v.Validate("A"); !errors.As(err, &ve) || ve.Message != "too short" {
		t.Errorf("Expected ValidationError with message, got %v", err)
	}
}

func TestPhoneValidator(t *testing.T) {
	v := Phone("bad phone")

	valid := []string{
		"+1 (234) 567-8901",
		"1234567",
		"+7(900)123-45-67",
		"  8 900 123 45 67 ",
	}
	for _, s := range valid {
		if err := v.Validate(s); err != nil {
			t.Errorf("Expected %q to be valid, got: %v", s, err)
		}
	}

	invalid := []string{
		"123",
		"",
		"123456",
		"++1234567",
		"1234567+",
		"phone1234567",
	}
	for _, s := range invalid {
		if err := v.Validate(s); err == nil {
			t.Errorf("Expected %q to be invalid", s)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone(" +1 (234)\t567-8901\n"); got != "+1(234)567-8901" {
		t.Errorf("NormalizePhone = %q", got)
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := map[string]string{
		"+1 (234) 567-8901": "+1 (234) 567-8901",
		"abc123":            "123",
		"+7-900.123_45":     "+7-90012345",
		"тел: 8 900":        " 8 900",
		"":                  "",
	}
	for in, want := range tests {
		if got := SanitizePhone(in); got != want {
			t.Errorf("SanitizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLengthCountsUTF16Units(t *testing.T) {
	tests := map[string]int{
		"":             0,
		"Al":           2,
		"Яна":          3,
		"\U0001F600":   2,
		"a\U0001F600b": 4,
		"e\u0301":      2,
	}
	for in, want := range tests {
		if got := Length(in); got != want {
			t.Errorf("Length(%q) = %d, want %d", in, got, want)
		}
	}

	// A single emoji is two units long, which satisfies a minimum of two.
	if err := MinLength(2, "too short").Validate("\U0001F600"); err != nil {
		t.Errorf("emoji name rejected: %v", err)
	}
}

func TestTrimSpaceMatchesBrowser(t *testing.T) {
	tests := map[string]string{
		"  Al  ":          "Al",
		"\uFEFFAl\uFEFF":  "Al",
		"\u00A0Al\u00A0":  "Al",
		"\t\r\n Al\u3000": "Al",
		"\u0085Al":        "\u0085Al",
	}
	for in, want := range tests {
		if got := TrimSpace(in); got != want {
			t.Errorf("TrimSpace(%q) = %q, want %q", in, got, want)
		}
	}

	if err := MinLength(2, "too short").Validate("\uFEFFA\uFEFF"); err == nil {
		t.Error("byte order marks should be trimmed before counting")
	}
	if got := NormalizePhone("\uFEFF+7 900\u00A0123 45 67"); got != "+79001234567" {
		t.Errorf("NormalizePhone = %q, want +79001234567", got)
	}
}
