package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeUpsellEmail   JobType = "upsell_email"
	JobTypeClaimNotice   JobType = "claim_notice"
	JobTypeStatusNotice  JobType = "status_notice"
	JobTypeReviewRefresh JobType = "review_refresh"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// UpsellEmailJobPayload contains the payload for upsell email jobs
type UpsellEmailJobPayload struct {
	SequenceID uint `json:"sequence_id"`
}

// ToMap converts the payload to a map for storage
func (p UpsellEmailJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"sequence_id": p.SequenceID,
	}
}

// UpsellEmailJobPayloadFromMap creates a payload from a map
func UpsellEmailJobPayloadFromMap(data map[string]interface{}) (*UpsellEmailJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload UpsellEmailJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// ClaimNoticeJobPayload contains the payload for claim confirmation emails
type ClaimNoticeJobPayload struct {
	RestaurantID uint `json:"restaurant_id"`
	OwnerID      uint `json:"owner_id"`
}

// ToMap converts the payload to a map for storage
func (p ClaimNoticeJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"restaurant_id": p.RestaurantID,
		"owner_id":      p.OwnerID,
	}
}

// ClaimNoticeJobPayloadFromMap creates a payload from a map
func ClaimNoticeJobPayloadFromMap(data map[string]interface{}) (*ClaimNoticeJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload ClaimNoticeJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// StatusNoticeJobPayload contains the payload for moderation status emails
type StatusNoticeJobPayload struct {
	RestaurantID uint   `json:"restaurant_id"`
	NewStatus    string `json:"new_status"`
}

// ToMap converts the payload to a map for storage
func (p StatusNoticeJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"restaurant_id": p.RestaurantID,
		"new_status":    p.NewStatus,
	}
}

// StatusNoticeJobPayloadFromMap creates a payload from a map
func StatusNoticeJobPayloadFromMap(data map[string]interface{}) (*StatusNoticeJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload StatusNoticeJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// ReviewRefreshJobPayload contains the payload for Google review sync jobs
type ReviewRefreshJobPayload struct {
	RestaurantID uint `json:"restaurant_id"`
}

// ToMap converts the payload to a map for storage
func (p ReviewRefreshJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"restaurant_id": p.RestaurantID,
	}
}

// ReviewRefreshJobPayloadFromMap creates a payload from a map
func ReviewRefreshJobPayloadFromMap(data map[string]interface{}) (*ReviewRefreshJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload ReviewRefreshJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
