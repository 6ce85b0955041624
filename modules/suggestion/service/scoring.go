package service

import (
	"fmt"
	"math"
	"strings"

	"realite-api/core/config"
	"realite-api/core/constants"
	eventEntity "realite-api/modules/event/entity"
	"realite-api/modules/suggestion/entity"

	"github.com/gosimple/slug"
)

// scoringParams bundles the tuning values so a scorer is deterministic once
// constructed.
type scoringParams struct {
	explorationBonus    float64
	everyoneBonus       float64
	minRelevance        float64
	autoInsertThreshold float64
	learningRate        float64
}

func defaultScoringParams() scoringParams {
	p := scoringParams{
		explorationBonus:    constants.ScoreExplorationBonus,
		everyoneBonus:       constants.ScoreEveryoneBonus,
		minRelevance:        constants.ScoreMinRelevance,
		autoInsertThreshold: constants.ScoreAutoInsertThreshold,
		learningRate:        constants.ScoreLearningRate,
	}
	if cfg, ok := config.GetSafe(); ok {
		p.explorationBonus = cfg.Scoring.ExplorationBonus
		p.everyoneBonus = cfg.Scoring.EveryoneBonus
		p.minRelevance = cfg.Scoring.MinRelevance
		p.autoInsertThreshold = cfg.Scoring.AutoInsertThreshold
		p.learningRate = cfg.Scoring.LearningRate
	}
	return p
}

// derivedTags computes the contextual tag keys of an event used by the
// preference learner: creator, weekday/hour slot, and a slugged location
// when one is set.
func derivedTags(event *eventEntity.Event) []string {
	tags := []string{
		constants.TagKeyPersonPrefix + event.CreatedBy.String(),
		fmt.Sprintf("%s%s:%d", constants.TagKeyTimeslotPrefix, strings.ToLower(event.StartsAt.Weekday().String()), event.StartsAt.Hour()),
	}
	if event.Location != "" {
		tags = append(tags, constants.TagKeyLocationPrefix+slug.Make(event.Location))
	}
	return tags
}

// feedbackTags is the full set of tag keys a decision adjusts: the event's
// own tags plus the derived contextual ones.
func feedbackTags(event *eventEntity.Event) []string {
	tags := make([]string, 0, len(event.Tags)+3)
	tags = append(tags, event.Tags...)
	tags = append(tags, derivedTags(event)...)
	return tags
}

// score computes the relevance of an event for a user given their learned
// weights. Raw event tags without a learned row earn the exploration bonus;
// derived contextual tags only contribute once a weight has been learned.
// The "#alle" broadcast tag adds a flat bonus. Rounded to 2 decimals.
func (p scoringParams) score(event *eventEntity.Event, weights map[string]entity.PreferenceWeight) float64 {
	total := constants.ScoreBase

	for _, tag := range event.Tags {
		if w, ok := weights[tag]; ok {
			total += w.Weight
		} else {
			total += p.explorationBonus
		}
	}

	for _, tag := range derivedTags(event) {
		if w, ok := weights[tag]; ok {
			total += w.Weight
		}
	}

	for _, tag := range event.Tags {
		if tag == constants.EveryoneTag {
			total += p.everyoneBonus
			break
		}
	}

	return math.Round(total*100) / 100
}

// scoreReason renders the human-readable explanation stored alongside the
// score.
func scoreReason(event *eventEntity.Event, scoreValue float64) string {
	if len(event.Tags) == 0 {
		return fmt.Sprintf("Scored %.2f", scoreValue)
	}
	return fmt.Sprintf("Scored %.2f from tags %s", scoreValue, strings.Join(event.Tags, ", "))
}
