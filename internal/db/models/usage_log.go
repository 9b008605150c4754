package models

import (
	"time"
)

// UsageLog records one filtering event for a user. The statistics aggregator
// counts these rows over time windows; rows carry no category tag yet.
type UsageLog struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"index;not null"`
	// Endpoint is the API endpoint or resource the event was recorded for.
	Endpoint string `gorm:"size:255"`
	// Method is the HTTP method of the recorded request.
	Method string `gorm:"size:16"`
	// StatusCode is the response status of the recorded request.
	StatusCode int
	// ResponseTimeMs is the processing time of the recorded request.
	ResponseTimeMs float64
	// Metadata is an optional free form JSON string.
	Metadata  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}
