package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_employee_number"`
	FullName       string    `gorm:"type:varchar(255);not null"`
	CredentialHash string    `gorm:"type:varchar(255);not null"`
	IsActive       bool      `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
