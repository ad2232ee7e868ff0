package model

import "testing"

func TestDatasetNormalize(t *testing.T) {
	var d Dataset
	d.Normalize()
	if d.Users == nil || d.Couples == nil || d.Tasks == nil || d.Rewards == nil || d.Vouchers == nil || d.Activities == nil {
		t.Fatalf("expected all collections non-nil, got %+v", d)
	}
}

func TestDatasetLookupsReturnMutablePointers(t *testing.T) {
	d := Dataset{
		Users:   []User{{ID: "u1", Email: "a@x.com", UserCode: "ABC123"}},
		Couples: []Couple{{ID: "c1", InviteCode: "JOINME", Partner1ID: "u1"}},
	}

	u := d.UserByEmail("a@x.com")
	if u == nil {
		t.Fatal("expected user by email")
	}
	u.Points = 10
	if d.Users[0].Points != 10 {
		t.Errorf("points = %d, want 10", d.Users[0].Points)
	}

	if got := d.UserByCode("ABC123"); got == nil || got.ID != "u1" {
		t.Errorf("UserByCode = %v, want u1", got)
	}
	if got := d.UserByCode(""); got != nil {
		t.Errorf("UserByCode(\"\") = %v, want nil", got)
	}
	if got := d.CoupleByID(""); got != nil {
		t.Errorf("CoupleByID(\"\") = %v, want nil", got)
	}
	if got := d.TaskByID("missing"); got != nil {
		t.Errorf("TaskByID(missing) = %v, want nil", got)
	}
}

func TestCouplePartnerOf(t *testing.T) {
	c := Couple{Partner1ID: "a", Partner2ID: "b"}

	tests := []struct {
		user string
		want string
	}{
		{"a", "b"},
		{"b", "a"},
		{"x", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := c.PartnerOf(tt.user); got != tt.want {
			t.Errorf("PartnerOf(%q) = %q, want %q", tt.user, got, tt.want)
		}
	}

	open := Couple{Partner1ID: "a"}
	if open.Full() {
		t.Error("couple with one partner should not be full")
	}
	if got := open.PartnerOf("a"); got != "" {
		t.Errorf("PartnerOf on open couple = %q, want empty", got)
	}
	if open.HasMember("") {
		t.Error("empty id should never be a member")
	}
}

func TestEnumValidation(t *testing.T) {
	for _, c := range []Color{ColorGreen, ColorPink, ColorPurple, ColorBlue, ColorOrange} {
		if !c.Valid() {
			t.Errorf("color %q should be valid", c)
		}
	}
	if Color("red").Valid() {
		t.Error("red should not be valid")
	}
	if !RecurrenceMonthly.Valid() || Recurrence("yearly").Valid() {
		t.Error("recurrence validation mismatch")
	}
	if RecurrenceNone.Recurring() || !RecurrenceDaily.Recurring() {
		t.Error("recurring mismatch")
	}
}
