package models_test

import (
	"testing"

	"github.com/kmalikov/competition-system/models"
	"github.com/stretchr/testify/assert"
)

func TestEnrollmentStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from models.EnrollmentStatus
		to   models.EnrollmentStatus
		want bool
	}{
		{"requested to approved", models.EnrollmentStatusRequested, models.EnrollmentStatusApproved, true},
		{"requested to rejected", models.EnrollmentStatusRequested, models.EnrollmentStatusRejected, true},
		{"requested to cancelled", models.EnrollmentStatusRequested, models.EnrollmentStatusCancelled, true},
		{"requested to withdrawn", models.EnrollmentStatusRequested, models.EnrollmentStatusWithdrawn, false},
		{"invited to approved", models.EnrollmentStatusInvited, models.EnrollmentStatusApproved, true},
		{"invited to rejected", models.EnrollmentStatusInvited, models.EnrollmentStatusRejected, true},
		{"invited to cancelled", models.EnrollmentStatusInvited, models.EnrollmentStatusCancelled, true},
		{"invited to withdrawn", models.EnrollmentStatusInvited, models.EnrollmentStatusWithdrawn, false},
		{"approved to withdrawn", models.EnrollmentStatusApproved, models.EnrollmentStatusWithdrawn, true},
		{"approved to rejected", models.EnrollmentStatusApproved, models.EnrollmentStatusRejected, false},
		{"approved to cancelled", models.EnrollmentStatusApproved, models.EnrollmentStatusCancelled, false},
		{"rejected is terminal", models.EnrollmentStatusRejected, models.EnrollmentStatusApproved, false},
		{"cancelled is terminal", models.EnrollmentStatusCancelled, models.EnrollmentStatusRequested, false},
		{"withdrawn is terminal", models.EnrollmentStatusWithdrawn, models.EnrollmentStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestEnrollmentStatusPredicates(t *testing.T) {
	assert.True(t, models.EnrollmentStatusRequested.IsPending())
	assert.True(t, models.EnrollmentStatusInvited.IsPending())
	assert.False(t, models.EnrollmentStatusApproved.IsPending())

	assert.True(t, models.EnrollmentStatusApproved.IsActive())
	assert.False(t, models.EnrollmentStatusRequested.IsActive())

	assert.True(t, models.EnrollmentStatusRejected.IsFinal())
	assert.True(t, models.EnrollmentStatusCancelled.IsFinal())
	assert.True(t, models.EnrollmentStatusWithdrawn.IsFinal())
	assert.False(t, models.EnrollmentStatusApproved.IsFinal())
}
