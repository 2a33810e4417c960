package inputval

import "testing"

func TestValidate(t *testing.T) {
	type repairInput struct {
		Date   string `validate:"required,day" label:"Repair date"`
		KM     int    `validate:"gte=0" label:"Kilometers"`
		Profit string `validate:"amount,max=20" label:"Amount due"`
		Note   string `validate:"max=10" label:"Note"`
	}

	tests := []struct {
		name      string
		input     repairInput
		wantFirst string
	}{
		{"valid", repairInput{Date: "2024-03-15", KM: 1000, Profit: "12.50"}, ""},
		{"empty profit allowed", repairInput{Date: "2024-03-15"}, ""},
		{"missing date", repairInput{}, "Repair date is required."},
		{"bad date", repairInput{Date: "15.03.2024"}, "Repair date must be a date in YYYY-MM-DD form."},
		{"negative km", repairInput{Date: "2024-03-15", KM: -1}, "Kilometers must be 0 or more."},
		{"bad profit", repairInput{Date: "2024-03-15", Profit: "lots"}, "Amount due must be a number."},
		{"long note", repairInput{Date: "2024-03-15", Note: "far too long a note"}, "Note must be at most 10 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.input)
			if res.HasErrors() != (tt.wantFirst != "") {
				t.Fatalf("HasErrors = %v, errors %v", res.HasErrors(), res.Errors)
			}
			if res.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", res.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_ObjectIDAndOneOf(t *testing.T) {
	type in struct {
		ID   string `validate:"required,objectid" label:"User ID"`
		Lang string `validate:"oneof=en bg" label:"Locale"`
	}

	if res := Validate(in{ID: "507f1f77bcf86cd799439011", Lang: "bg"}); res.HasErrors() {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
	res := Validate(in{ID: "nope", Lang: "de"})
	if len(res.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(res.Errors))
	}
	if res.All() != "User ID must be a valid ID.; Locale must be one of: en, bg." {
		t.Errorf("All() = %q", res.All())
	}
	if res.Err() == nil {
		t.Error("Err() should be non-nil")
	}
}

func TestResult_Empty(t *testing.T) {
	r := &Result{}
	if r.First() != "" || r.All() != "" || r.Err() != nil {
		t.Error("empty result should have no messages")
	}
}

func TestHelpers(t *testing.T) {
	if !IsValidObjectID("507f1f77bcf86cd799439011") || IsValidObjectID("xyz") {
		t.Error("IsValidObjectID")
	}
	if !IsValidDay("") || !IsValidDay("2024-02-29") || IsValidDay("2023-02-29") {
		t.Error("IsValidDay")
	}
	if !IsValidAmount(" 10.5 ") || IsValidAmount("1,5") {
		t.Error("IsValidAmount")
	}
}
