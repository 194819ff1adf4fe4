package domain

import (
	"testing"
	"time"
)

func TestClientProfile_Apply_Partial(t *testing.T) {
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	p := ClientProfile{
		Email:       "a@x.com",
		FirstName:   "Ann",
		LastName:    "Lee",
		Phone:       "+15551234567",
		City:        "Austin",
		DateOfBirth: &dob,
	}

	changed := p.Apply(ClientPatch{City: strPtr("Dallas"), Notes: strPtr("prefers firm pressure")})
	if !changed {
		t.Fatalf("expected change")
	}
	if p.City != "Dallas" || p.Notes != "prefers firm pressure" {
		t.Fatalf("patched fields not applied: %+v", p)
	}
	if p.FirstName != "Ann" || p.LastName != "Lee" || p.Phone != "+15551234567" || p.Email != "a@x.com" {
		t.Fatalf("untouched fields changed: %+v", p)
	}
	if p.DateOfBirth == nil || !p.DateOfBirth.Equal(dob) {
		t.Fatalf("date of birth changed: %v", p.DateOfBirth)
	}
}

func TestClientProfile_Apply_Idempotent(t *testing.T) {
	p := ClientProfile{FirstName: "Ann"}
	patch := ClientPatch{FirstName: strPtr("Anna"), ZipCode: strPtr("73301")}

	if !p.Apply(patch) {
		t.Fatalf("first apply should change the profile")
	}
	first := p
	if p.Apply(patch) {
		t.Fatalf("second apply should be a no-op")
	}
	if p.FirstName != first.FirstName || p.ZipCode != first.ZipCode {
		t.Fatalf("second apply altered profile: %+v", p)
	}
}

func TestClientProfile_Apply_EmptyStringClears(t *testing.T) {
	p := ClientProfile{Notes: "old"}
	p.Apply(ClientPatch{Notes: strPtr("")})
	if p.Notes != "" {
		t.Fatalf("expected notes cleared, got %q", p.Notes)
	}
}

func TestClientProfile_AdoptUser(t *testing.T) {
	p := ClientProfile{Email: "a@x.com", LastName: "Keep"}
	p.AdoptUser(&User{ID: "u1", FirstName: "Ann", LastName: "Lee", Phone: "+15551234567"})

	if !p.OwnedBy("u1") {
		t.Fatalf("expected profile linked to u1")
	}
	if p.FirstName != "Ann" || p.LastName != "Keep" || p.Phone != "+15551234567" {
		t.Fatalf("unexpected adopted fields: %+v", p)
	}
}
