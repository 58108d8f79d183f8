package sqlite

import "time"

type valueModel struct {
	ID            string `gorm:"primaryKey"`
	OwnerID       string `gorm:"not null"`
	DefinitionKey string `gorm:"not null"`
	AttributeCode string `gorm:"not null"`
	Seq           int    `gorm:"not null;default:0"`
	Payload       string `gorm:"not null"`
	Confidential  bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (valueModel) TableName() string { return "eav_values" }
