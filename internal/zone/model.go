package zone

import "time"

// Zone is one air-conditioned area feedback can be given for.
type Zone struct {
	ID        string    `gorm:"primaryKey" json:"id" yaml:"id"`
	Name      string    `gorm:"not null" json:"name" yaml:"name"`
	Building  string    `gorm:"index" json:"building,omitempty" yaml:"building"`
	Unit      string    `json:"unit,omitempty" yaml:"unit"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// DisplayName is the name used in replies.
func (z *Zone) DisplayName() string {
	if z.Name != "" {
		return z.Name
	}
	return z.ID
}
