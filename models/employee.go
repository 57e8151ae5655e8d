package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 従業員マスタ。code は社員番号（登録後は変更不可）
type Employee struct {
	ID         uint                `json:"id" gorm:"primaryKey"`
	Code       string              `json:"code" gorm:"size:20;uniqueIndex;not null"`
	Name       string              `json:"name" gorm:"size:100"`
	HourlyRate decimal.NullDecimal `json:"hourly_rate" gorm:"type:numeric(7,2)"` // 時給（未設定なら null）
	IsActive   bool                `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
