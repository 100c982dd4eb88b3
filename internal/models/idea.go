package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// DefaultIdeaTitle is the placeholder title until summarization (or the user)
// replaces it.
const DefaultIdeaTitle = "Untitled Idea"

// IdeaStatus represents where an idea is in the processing pipeline
type IdeaStatus string

const (
	IdeaStatusRecording    IdeaStatus = "recording"
	IdeaStatusTranscribing IdeaStatus = "transcribing"
	IdeaStatusSummarizing  IdeaStatus = "summarizing"
	IdeaStatusReady        IdeaStatus = "ready"
	IdeaStatusError        IdeaStatus = "error"
)

// Idea represents one recorded-and-processed voice memo
type Idea struct {
	ID            string     `json:"id" gorm:"primarykey"`
	Title         string     `json:"title" gorm:"not null;default:'Untitled Idea'"`
	RawTranscript *string    `json:"raw_transcript"`
	Summary       *string    `json:"summary"`
	KeyPoints     StringList `json:"key_points" gorm:"type:json"`
	Tags          StringList `json:"tags" gorm:"type:json"`
	AudioURI      string     `json:"audio_uri" gorm:"not null"`
	AudioCloudURL *string    `json:"audio_cloud_url"`
	DurationMs    int64      `json:"duration_ms" gorm:"default:0"`
	Status        IdeaStatus `json:"status" gorm:"default:'recording';index"`
	ErrorMessage  *string    `json:"error_message"`
	IsSynced      bool       `json:"is_synced" gorm:"default:false;index:idx_ideas_synced_status"`
	CreatedAt     time.Time  `json:"created_at" gorm:"index:idx_ideas_created_at,sort:desc"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Idea) TableName() string {
	return "ideas"
}

// IsTerminal returns true if the idea's pipeline run has finished
func (i *Idea) IsTerminal() bool {
	return i.Status == IdeaStatusReady || i.Status == IdeaStatusError
}

// CanRetry returns true if a new pipeline run may be started for the idea
func (i *Idea) CanRetry() bool {
	return i.Status == IdeaStatusError
}

// ValidStatus returns true for the known status values
func ValidStatus(s IdeaStatus) bool {
	switch s {
	case IdeaStatusRecording, IdeaStatusTranscribing, IdeaStatusSummarizing,
		IdeaStatusReady, IdeaStatusError:
		return true
	default:
		return false
	}
}

// StringList is a JSON-encoded list of strings stored in a single column
type StringList []string

// Value implements driver.Valuer interface for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for StringList
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	if len(data) == 0 {
		*l = StringList{}
		return nil
	}

	return json.Unmarshal(data, l)
}
