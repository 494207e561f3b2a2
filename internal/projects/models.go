package projects

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Project is a named snapshot of a displayed-set membership, scoped to an
// owner. Filters holds the building ids; ids referencing buildings that no
// longer exist are tolerated on load.
type Project struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username    string         `gorm:"not null;index" json:"username"`
	ProjectName string         `gorm:"not null" json:"name"`
	Filters     pq.StringArray `gorm:"type:text[]" json:"filters"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Project) TableName() string {
	return "dashboard.projects"
}
