package service

import (
	"testing"
	"time"

	"realite-api/modules/dating/entity"
)

var matchNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func birthYearForAge(age int) *int {
	y := matchNow.Year() - age
	return &y
}

func unlockedProfile(gender string, age int, sought ...string) *entity.DatingProfile {
	return &entity.DatingProfile{
		Enabled:       true,
		BirthYear:     birthYearForAge(age),
		Gender:        gender,
		IsSingle:      true,
		SoughtGenders: sought,
		SoughtAgeMin:  18,
		SoughtAgeMax:  99,
	}
}

func TestEvaluateCollectsAllMissingRequirements(t *testing.T) {
	status := Evaluate(&entity.DatingProfile{}, matchNow)
	if status.Unlocked {
		t.Fatal("empty profile must be locked")
	}

	want := map[string]bool{
		RequirementEnabled:       true,
		RequirementBirthYear:     true,
		RequirementGender:        true,
		RequirementSingle:        true,
		RequirementSoughtGenders: true,
		RequirementAgeRange:      true,
	}
	for _, code := range status.MissingRequirements {
		if !want[code] {
			t.Errorf("unexpected requirement %q", code)
		}
		delete(want, code)
	}
	for code := range want {
		t.Errorf("missing requirement %q not reported", code)
	}
}

func TestEvaluateAdultBoundary(t *testing.T) {
	seventeen := unlockedProfile(entity.GenderWoman, 17, entity.GenderMan)
	status := Evaluate(seventeen, matchNow)
	if status.Unlocked {
		t.Error("17 year old must stay locked")
	}
	found := false
	for _, code := range status.MissingRequirements {
		if code == RequirementAdult {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q in %v", RequirementAdult, status.MissingRequirements)
	}

	eighteen := unlockedProfile(entity.GenderWoman, 18, entity.GenderMan)
	if !Evaluate(eighteen, matchNow).Unlocked {
		t.Error("18 year old with a complete profile must be unlocked")
	}
}

func TestEvaluateNilProfileLocked(t *testing.T) {
	status := Evaluate(nil, matchNow)
	if status.Unlocked {
		t.Error("nil profile must be locked")
	}
	if len(status.MissingRequirements) == 0 {
		t.Error("nil profile should report missing requirements")
	}
}

func TestIsMutualMatchBidirectional(t *testing.T) {
	a := unlockedProfile(entity.GenderMan, 30, entity.GenderWoman)
	b := unlockedProfile(entity.GenderWoman, 28, entity.GenderMan)
	if !IsMutualMatch(a, b, matchNow) {
		t.Error("compatible profiles should match")
	}

	// b does not seek a's gender: no match in either direction.
	c := unlockedProfile(entity.GenderWoman, 28, entity.GenderWoman)
	if IsMutualMatch(a, c, matchNow) {
		t.Error("one-sided gender preference must not match")
	}
}

func TestIsMutualMatchSymmetric(t *testing.T) {
	cases := []struct {
		name string
		a, b *entity.DatingProfile
	}{
		{"compatible", unlockedProfile(entity.GenderMan, 30, entity.GenderWoman), unlockedProfile(entity.GenderWoman, 28, entity.GenderMan)},
		{"gender mismatch", unlockedProfile(entity.GenderMan, 30, entity.GenderWoman), unlockedProfile(entity.GenderWoman, 28, entity.GenderWoman)},
		{"age mismatch", func() *entity.DatingProfile {
			p := unlockedProfile(entity.GenderMan, 50, entity.GenderWoman)
			return p
		}(), func() *entity.DatingProfile {
			p := unlockedProfile(entity.GenderWoman, 28, entity.GenderMan)
			p.SoughtAgeMax = 40
			return p
		}()},
	}

	for _, tc := range cases {
		ab := IsMutualMatch(tc.a, tc.b, matchNow)
		ba := IsMutualMatch(tc.b, tc.a, matchNow)
		if ab != ba {
			t.Errorf("%s: IsMutualMatch not symmetric (%v vs %v)", tc.name, ab, ba)
		}
	}
}

func TestIsMutualMatchAgeRange(t *testing.T) {
	a := unlockedProfile(entity.GenderMan, 45, entity.GenderWoman)
	b := unlockedProfile(entity.GenderWoman, 30, entity.GenderMan)
	b.SoughtAgeMin = 25
	b.SoughtAgeMax = 40

	if IsMutualMatch(a, b, matchNow) {
		t.Error("45 is outside b's 25-40 range, must not match")
	}

	b.SoughtAgeMax = 45
	if !IsMutualMatch(a, b, matchNow) {
		t.Error("45 is inside b's inclusive 25-45 range, should match")
	}
}

func TestIsMutualMatchOnlySingles(t *testing.T) {
	a := unlockedProfile(entity.GenderMan, 30, entity.GenderWoman)
	a.SoughtOnlySingles = true
	b := unlockedProfile(entity.GenderWoman, 28, entity.GenderMan)
	b.IsSingle = false

	if IsMutualMatch(a, b, matchNow) {
		t.Error("non-single profile must never match")
	}
}
