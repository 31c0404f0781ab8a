package models_test

import (
	"testing"

	"github.com/kmalikov/competition-system/models"
	"github.com/stretchr/testify/assert"
)

func TestCompetitionStatusCanTransitionTo(t *testing.T) {
	all := []models.CompetitionStatus{
		models.CompetitionStatusDraft,
		models.CompetitionStatusActive,
		models.CompetitionStatusClosed,
		models.CompetitionStatusInProgress,
		models.CompetitionStatusCompleted,
		models.CompetitionStatusCancelled,
	}

	allowed := map[models.CompetitionStatus][]models.CompetitionStatus{
		models.CompetitionStatusDraft:      {models.CompetitionStatusActive, models.CompetitionStatusCancelled},
		models.CompetitionStatusActive:     {models.CompetitionStatusClosed, models.CompetitionStatusCancelled},
		models.CompetitionStatusClosed:     {models.CompetitionStatusInProgress, models.CompetitionStatusCancelled},
		models.CompetitionStatusInProgress: {models.CompetitionStatusCompleted, models.CompetitionStatusCancelled},
		models.CompetitionStatusCompleted:  {},
		models.CompetitionStatusCancelled:  {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			got := from.CanTransitionTo(to)
			assert.Equalf(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

func TestCompetitionStatusSelfTransitionForbidden(t *testing.T) {
	statuses := []models.CompetitionStatus{
		models.CompetitionStatusDraft,
		models.CompetitionStatusActive,
		models.CompetitionStatusClosed,
		models.CompetitionStatusInProgress,
	}
	for _, s := range statuses {
		assert.Falsef(t, s.CanTransitionTo(s), "self transition for %s", s)
	}
}

func TestCompetitionStatusIsFinal(t *testing.T) {
	assert.True(t, models.CompetitionStatusCompleted.IsFinal())
	assert.True(t, models.CompetitionStatusCancelled.IsFinal())
	assert.False(t, models.CompetitionStatusDraft.IsFinal())
	assert.False(t, models.CompetitionStatusInProgress.IsFinal())
}

func TestCompetitionStatusAllowsModifications(t *testing.T) {
	assert.True(t, models.CompetitionStatusDraft.AllowsModifications())
	assert.False(t, models.CompetitionStatusActive.AllowsModifications())
	assert.False(t, models.CompetitionStatusClosed.AllowsModifications())
}

func TestCompetitionStatusIsValid(t *testing.T) {
	assert.True(t, models.CompetitionStatusDraft.IsValid())
	assert.False(t, models.CompetitionStatus("archived").IsValid())
	assert.False(t, models.CompetitionStatus("").IsValid())
}
