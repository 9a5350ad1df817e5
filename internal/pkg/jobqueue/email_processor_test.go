package jobqueue

import (
	"strings"
	"testing"
	"time"

	"github.com/thejzagency/swfldines/app/models"
)

func TestUpsellEmailContent(t *testing.T) {
	subject, body, ok := upsellEmailContent(0, "Capri Pizza")
	if !ok {
		t.Fatal("step 0 should have a template")
	}
	if !strings.Contains(subject, "Capri Pizza") {
		t.Errorf("step 0 subject should mention the restaurant, got %q", subject)
	}
	if !strings.Contains(body, "Featured") || !strings.Contains(body, "$29") {
		t.Error("step 0 should pitch the featured tier at $29")
	}

	subject, body, ok = upsellEmailContent(1, "Capri Pizza")
	if !ok {
		t.Fatal("step 1 should have a template")
	}
	if !strings.Contains(body, "Premium") || !strings.Contains(body, "$59") {
		t.Error("step 1 should pitch the premium tier at $59")
	}
	if subject == "" {
		t.Error("step 1 subject should not be empty")
	}

	if _, _, ok := upsellEmailContent(2, "Capri Pizza"); ok {
		t.Error("step 2 has no template, sequence should be done")
	}
}

func TestAdvanceSequenceSchedulesNextStep(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sequence := &models.EmailSequence{
		CurrentStep: 0,
		TotalSteps:  2,
		Status:      models.SequenceStatusActive,
	}

	advanceSequence(sequence, now)

	if sequence.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d, want 1", sequence.CurrentStep)
	}
	if sequence.Status != models.SequenceStatusActive {
		t.Errorf("Status = %q, want active", sequence.Status)
	}
	if sequence.LastEmailSentAt == nil || !sequence.LastEmailSentAt.Equal(now) {
		t.Error("LastEmailSentAt should be set to now")
	}
	if sequence.NextEmailScheduledAt == nil {
		t.Fatal("NextEmailScheduledAt should be set")
	}
	if want := now.Add(UpsellStepInterval); !sequence.NextEmailScheduledAt.Equal(want) {
		t.Errorf("NextEmailScheduledAt = %v, want %v", sequence.NextEmailScheduledAt, want)
	}
}

func TestAdvanceSequenceCompletesFinalStep(t *testing.T) {
	now := time.Now()
	sequence := &models.EmailSequence{
		CurrentStep: 1,
		TotalSteps:  2,
		Status:      models.SequenceStatusActive,
	}

	advanceSequence(sequence, now)

	if sequence.Status != models.SequenceStatusCompleted {
		t.Errorf("Status = %q, want completed", sequence.Status)
	}
	if sequence.NextEmailScheduledAt != nil {
		t.Error("completed sequences must not have a next email scheduled")
	}
}

func TestJobRetryLifecycle(t *testing.T) {
	job := &Job{MaxRetries: DefaultMaxRetries}

	job.MarkAsProcessing()
	if job.Status != JobStatusProcessing || job.ProcessedAt == nil {
		t.Error("MarkAsProcessing should set status and timestamp")
	}

	job.MarkAsFailed("smtp timeout")
	if job.Status != JobStatusFailed || job.RetryCount != 1 {
		t.Error("MarkAsFailed should set status and bump retry count")
	}
	if !job.IsRetryable() {
		t.Error("first failure should be retryable")
	}

	job.RetryCount = DefaultMaxRetries
	if job.IsRetryable() {
		t.Error("job at max retries should not be retryable")
	}

	job.MarkAsCompleted()
	if job.Status != JobStatusCompleted || job.ErrorMsg != "" {
		t.Error("MarkAsCompleted should clear the error")
	}
}
