package service

import (
	"testing"
	"time"

	eventEntity "realite-api/modules/event/entity"
	"realite-api/modules/suggestion/entity"

	"github.com/google/uuid"
)

func testEvent(tags ...string) *eventEntity.Event {
	e := &eventEntity.Event{
		Tags:      tags,
		StartsAt:  time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC), // a Saturday
		EndsAt:    time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
		CreatedBy: uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7"),
	}
	return e
}

func weightsFor(userID uuid.UUID, pairs map[string]float64) map[string]entity.PreferenceWeight {
	weights := make(map[string]entity.PreferenceWeight, len(pairs))
	for tag, w := range pairs {
		weights[tag] = entity.PreferenceWeight{UserID: userID, TagKey: tag, Weight: w}
	}
	return weights
}

func TestScoreLearnedAndExplorationAndEveryone(t *testing.T) {
	// Tags ["sport", "#alle"], learned 0.8 for sport, nothing for #alle:
	// 1 + 0.8 + 0.35 + 0.2 = 2.35.
	params := defaultScoringParams()
	event := testEvent("sport", "#alle")
	weights := weightsFor(uuid.New(), map[string]float64{"sport": 0.8})

	if got := params.score(event, weights); got != 2.35 {
		t.Errorf("score: got %v, want 2.35", got)
	}
}

func TestScoreNoTags(t *testing.T) {
	params := defaultScoringParams()
	if got := params.score(testEvent(), nil); got != 1.0 {
		t.Errorf("score: got %v, want 1.0", got)
	}
}

func TestScoreEveryoneBonusAppliedOnce(t *testing.T) {
	params := defaultScoringParams()
	event := testEvent("#alle")
	// 1 + 0.35(exploration) + 0.2(everyone) = 1.55, not 1.75.
	if got := params.score(event, nil); got != 1.55 {
		t.Errorf("score: got %v, want 1.55", got)
	}
}

func TestScoreNegativeWeights(t *testing.T) {
	params := defaultScoringParams()
	event := testEvent("sport")
	weights := weightsFor(uuid.New(), map[string]float64{"sport": -0.75})

	if got := params.score(event, weights); got != 0.25 {
		t.Errorf("score: got %v, want 0.25", got)
	}
}

func TestScoreDerivedTagsContributeOnlyWhenLearned(t *testing.T) {
	params := defaultScoringParams()
	event := testEvent("sport")
	event.Location = "City Park"

	base := params.score(event, weightsFor(uuid.New(), map[string]float64{"sport": 0.5}))

	// Same event, but the user has also learned to like the creator.
	withPerson := weightsFor(uuid.New(), map[string]float64{
		"sport": 0.5,
		"person:" + event.CreatedBy.String(): 0.4,
	})
	if got := params.score(event, withPerson); got != base+0.4 {
		t.Errorf("score with learned person tag: got %v, want %v", got, base+0.4)
	}
}

func TestScoreMonotonicInPositiveWeights(t *testing.T) {
	params := defaultScoringParams()
	userID := uuid.New()

	prev := params.score(testEvent("a"), weightsFor(userID, map[string]float64{"a": 0.5}))
	for _, tags := range [][]string{{"a", "b"}, {"a", "b", "c"}} {
		pairs := make(map[string]float64, len(tags))
		for _, tag := range tags {
			pairs[tag] = 0.5
		}
		next := params.score(testEvent(tags...), weightsFor(userID, pairs))
		if next < prev {
			t.Errorf("score decreased from %v to %v when adding a positively-weighted tag", prev, next)
		}
		prev = next
	}
}

func TestScoreRoundsToTwoDecimals(t *testing.T) {
	params := defaultScoringParams()
	event := testEvent("x")
	weights := weightsFor(uuid.New(), map[string]float64{"x": 0.333})

	if got := params.score(event, weights); got != 1.33 {
		t.Errorf("score: got %v, want 1.33", got)
	}
}

func TestDerivedTags(t *testing.T) {
	event := testEvent("sport")
	event.Location = "City Park"

	tags := derivedTags(event)
	want := map[string]bool{
		"person:7c9e6679-7425-40de-944b-e07fc1f90ae7": true,
		"timeslot:saturday:19":                        true,
		"location:city-park":                          true,
	}
	if len(tags) != len(want) {
		t.Fatalf("derived tags: got %v", tags)
	}
	for _, tag := range tags {
		if !want[tag] {
			t.Errorf("unexpected derived tag %q", tag)
		}
	}
}

func TestDerivedTagsOmitEmptyLocation(t *testing.T) {
	tags := derivedTags(testEvent("sport"))
	for _, tag := range tags {
		if tag == "location:" {
			t.Error("empty location must not derive a tag")
		}
	}
	if len(tags) != 2 {
		t.Errorf("expected person and timeslot tags only, got %v", tags)
	}
}
