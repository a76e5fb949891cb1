package entity

import (
	"time"

	"github.com/google/uuid"
)

// InvocationStatus represents the outcome of a formula invocation
type InvocationStatus string

const (
	InvocationStatusSucceeded InvocationStatus = "succeeded"
	InvocationStatusFailed    InvocationStatus = "failed"
)

// InvocationLog records a single formula invocation. Input text is never stored.
type InvocationLog struct {
	ID           uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	RequestID    string           `json:"request_id" gorm:"type:varchar(64);index"`
	Formula      string           `json:"formula" gorm:"type:varchar(64);not null;index"`
	TextLength   int              `json:"text_length" gorm:"not null"`
	Status       InvocationStatus `json:"status" gorm:"type:varchar(20);not null"`
	ErrorMessage string           `json:"error_message,omitempty" gorm:"type:text"`
	LatencyMs    int64            `json:"latency_ms" gorm:"default:0"`
	CreatedAt    time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (InvocationLog) TableName() string {
	return "formula_invocations"
}

// NewInvocationLog creates a new InvocationLog
func NewInvocationLog(requestID, formula string, textLength int) *InvocationLog {
	return &InvocationLog{
		ID:         uuid.New(),
		RequestID:  requestID,
		Formula:    formula,
		TextLength: textLength,
	}
}

// SetResult sets the outcome of the invocation
func (l *InvocationLog) SetResult(err error, latencyMs int64) {
	l.LatencyMs = latencyMs
	if err != nil {
		l.Status = InvocationStatusFailed
		l.ErrorMessage = err.Error()
		return
	}
	l.Status = InvocationStatusSucceeded
	l.ErrorMessage = ""
}

// Succeeded returns true if the invocation completed without error
func (l *InvocationLog) Succeeded() bool {
	return l.Status == InvocationStatusSucceeded
}
