package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nabenabe-code/kintai/config"
	"github.com/nabenabe-code/kintai/models"
)

var (
	ErrDuplicateCode      = errors.New("employee code already exists")
	ErrEmployeeReferenced = errors.New("employee still has attendance or shift records")
)

// EmployeeService covers the admin-side employee master operations. The
// deletion policy is the single configured switch deciding what Delete does.
type EmployeeService struct {
	db     *gorm.DB
	policy config.DeletionPolicy
}

func NewEmployeeService(db *gorm.DB, policy config.DeletionPolicy) *EmployeeService {
	return &EmployeeService{db: db, policy: policy}
}

func (s *EmployeeService) Register(code, name string, rate decimal.NullDecimal) (*models.Employee, error) {
	emp := models.Employee{
		Code:       strings.TrimSpace(code),
		Name:       strings.TrimSpace(name),
		HourlyRate: rate,
		IsActive:   true,
	}
	err := s.db.Create(&emp).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateCode
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// Update changes the mutable fields; the code is immutable after creation.
// A nil isActive keeps the stored flag, so an omitted field cannot silently
// reactivate a deactivated employee.
func (s *EmployeeService) Update(id uint, name string, rate decimal.NullDecimal, isActive *bool) (*models.Employee, error) {
	var emp models.Employee
	if err := s.db.First(&emp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	emp.Name = strings.TrimSpace(name)
	emp.HourlyRate = rate
	if isActive != nil {
		emp.IsActive = *isActive
	}
	if err := s.db.Save(&emp).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

// Delete applies the configured policy:
//   - deactivate: flip is_active off, keep every record
//   - cascade: remove the employee with all attendance and shifts
//   - protect: refuse while dependent records exist
func (s *EmployeeService) Delete(id uint) error {
	var emp models.Employee
	if err := s.db.First(&emp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	switch s.policy {
	case config.DeletionCascade:
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("employee_id = ?", emp.ID).Delete(&models.Attendance{}).Error; err != nil {
				return err
			}
			if err := tx.Where("employee_id = ?", emp.ID).Delete(&models.Shift{}).Error; err != nil {
				return err
			}
			return tx.Delete(&emp).Error
		})
	case config.DeletionProtect:
		var atts, shifts int64
		if err := s.db.Model(&models.Attendance{}).Where("employee_id = ?", emp.ID).Count(&atts).Error; err != nil {
			return err
		}
		if err := s.db.Model(&models.Shift{}).Where("employee_id = ?", emp.ID).Count(&shifts).Error; err != nil {
			return err
		}
		if atts > 0 || shifts > 0 {
			return ErrEmployeeReferenced
		}
		return s.db.Delete(&emp).Error
	default: // config.DeletionDeactivate
		return s.db.Model(&emp).Update("is_active", false).Error
	}
}

// List returns employees ordered by code. q matches code or name substrings.
func (s *EmployeeService) List(activeOnly bool, q string) ([]models.Employee, error) {
	tx := s.db.Order("code ASC")
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	var emps []models.Employee
	if err := tx.Find(&emps).Error; err != nil {
		return nil, err
	}
	return emps, nil
}
