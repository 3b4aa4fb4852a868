package eventlog

import (
	"time"

	"github.com/google/uuid"
)

// Entry adalah satu baris audit trail. Append-only; tidak ada update/delete.
type Entry struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	EventType     string `gorm:"type:varchar(60);not null;index"`
	AggregateType string `gorm:"type:varchar(40);not null;index"`
	AggregateID   string `gorm:"type:varchar(60);not null;index"`

	ActorID *string `gorm:"type:varchar(60)"`
	Payload []byte  `gorm:"type:jsonb"`

	OccurredAt time.Time `gorm:"not null;index"`
	RecordedAt time.Time `gorm:"not null;autoCreateTime"`
}

func (Entry) TableName() string {
	return "event_log"
}
