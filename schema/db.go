package schema

import (
	"time"

	"gorm.io/datatypes"
)

// ReportRecord is a stored validation run.
type ReportRecord struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	RunId      string         `gorm:"uniqueIndex;size:64" json:"id"`
	PayId      string         `gorm:"index;size:255" json:"payId"`
	Network    string         `gorm:"size:32" json:"network"`
	RequestUrl string         `json:"requestUrl"`
	Completed  bool           `json:"completed"`
	FailError  string         `json:"failError,omitempty"`
	Score      float64        `json:"score"`
	DurationMs int64          `json:"durationMs"`
	Verdicts   datatypes.JSON `json:"verdicts"`
}
