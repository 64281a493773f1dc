package repository

import (
	"course_studio_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(module *model.CourseModule) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.CourseModule, error) {
	var m model.CourseModule
	err := r.DB.First(&m, id).Error
	return &m, err
}

func (r *ModuleRepository) ListByCourse(courseID uint) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.Where("course_id = ?", courseID).Order("`order` asc").Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) NextOrder(courseID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.CourseModule{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(`order`), 0)").
		Scan(&max).Error
	return max + 1, err
}

func (r *ModuleRepository) Update(module *model.CourseModule) error {
	return r.DB.Save(module).Error
}

// Delete removes the module and its lessons, then closes the order gap.
// Rows go away for real; a soft-deleted row would keep holding its slot in
// the (course_id, order) unique index.
func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var m model.CourseModule
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", id).Unscoped().Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&model.CourseModule{}, id).Error; err != nil {
			return err
		}
		return renumberModules(tx, m.CourseID)
	})
}

// Reorder assigns order 1..n following orderedIDs. Orders are parked on
// negative values first so the unique index never sees a duplicate
// mid-update.
func (r *ModuleRepository) Reorder(courseID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.CourseModule{}).
			Where("course_id = ?", courseID).
			Update("order", gorm.Expr("-`order`")).Error; err != nil {
			return err
		}
		for i, id := range orderedIDs {
			if err := tx.Model(&model.CourseModule{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("order", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func renumberModules(tx *gorm.DB, courseID uint) error {
	var modules []model.CourseModule
	if err := tx.Where("course_id = ?", courseID).Order("`order` asc").Find(&modules).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.CourseModule{}).
		Where("course_id = ?", courseID).
		Update("order", gorm.Expr("-`order`")).Error; err != nil {
		return err
	}
	for i, m := range modules {
		if err := tx.Model(&model.CourseModule{}).
			Where("id = ?", m.ID).
			Update("order", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
