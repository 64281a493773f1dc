package repository

import (
	"course_studio_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) ListByModule(moduleID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("module_id = ?", moduleID).Order("`order` asc").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) NextOrder(moduleID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.Lesson{}).
		Where("module_id = ?", moduleID).
		Select("COALESCE(MAX(`order`), 0)").
		Scan(&max).Error
	return max + 1, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lesson model.Lesson
		if err := tx.First(&lesson, id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&model.Lesson{}, id).Error; err != nil {
			return err
		}
		return renumberLessons(tx, lesson.ModuleID)
	})
}

// Reorder mirrors ModuleRepository.Reorder for lessons within a module.
func (r *LessonRepository) Reorder(moduleID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Lesson{}).
			Where("module_id = ?", moduleID).
			Update("order", gorm.Expr("-`order`")).Error; err != nil {
			return err
		}
		for i, id := range orderedIDs {
			if err := tx.Model(&model.Lesson{}).
				Where("id = ? AND module_id = ?", id, moduleID).
				Update("order", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Move reparents a lesson into targetModuleID at position (1-based,
// clamped), renumbering both modules.
func (r *LessonRepository) Move(lessonID, targetModuleID uint, position int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lesson model.Lesson
		if err := tx.First(&lesson, lessonID).Error; err != nil {
			return err
		}
		sourceModuleID := lesson.ModuleID

		var count int64
		if err := tx.Model(&model.Lesson{}).
			Where("module_id = ? AND id != ?", targetModuleID, lessonID).
			Count(&count).Error; err != nil {
			return err
		}
		if position < 1 {
			position = 1
		}
		if position > int(count)+1 {
			position = int(count) + 1
		}

		// Park the lesson outside both sequences, renumber the source,
		// open the slot in the target, then land it.
		if err := tx.Model(&model.Lesson{}).
			Where("id = ?", lessonID).
			Updates(map[string]interface{}{"module_id": targetModuleID, "order": -1000000}).Error; err != nil {
			return err
		}
		if sourceModuleID != targetModuleID {
			if err := renumberLessons(tx, sourceModuleID); err != nil {
				return err
			}
		}

		var targets []model.Lesson
		if err := tx.Where("module_id = ? AND `order` > 0", targetModuleID).
			Order("`order` asc").Find(&targets).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Lesson{}).
			Where("module_id = ? AND `order` > 0", targetModuleID).
			Update("order", gorm.Expr("-`order` - 1000")).Error; err != nil {
			return err
		}
		next := 1
		for i := range targets {
			if next == position {
				next++
			}
			if err := tx.Model(&model.Lesson{}).
				Where("id = ?", targets[i].ID).
				Update("order", next).Error; err != nil {
				return err
			}
			next++
		}
		return tx.Model(&model.Lesson{}).
			Where("id = ?", lessonID).
			Update("order", position).Error
	})
}

func renumberLessons(tx *gorm.DB, moduleID uint) error {
	var lessons []model.Lesson
	if err := tx.Where("module_id = ?", moduleID).Order("`order` asc").Find(&lessons).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Lesson{}).
		Where("module_id = ?", moduleID).
		Update("order", gorm.Expr("-`order`")).Error; err != nil {
		return err
	}
	for i, l := range lessons {
		if err := tx.Model(&model.Lesson{}).
			Where("id = ?", l.ID).
			Update("order", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
