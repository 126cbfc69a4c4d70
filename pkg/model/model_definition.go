package model

import "time"

// ModelDefinition is one stored declaration. The full document is kept as a
// single JSON value; the row exists to give it a unique name and timestamps.
type ModelDefinition struct {
	Name       string    `gorm:"column:name;primaryKey"`
	Definition []byte    `gorm:"column:definition;type:jsonb"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ModelDefinition) TableName() string {
	return "model_definitions"
}
