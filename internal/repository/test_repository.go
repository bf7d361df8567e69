package repository

import (
	"time"

	"github.com/vuhoang/skillmint/internal/model"
	"gorm.io/gorm"
)

type TestRepository interface {
	Create(test *model.Test) error
	FindByID(id uint) (*model.Test, error)
	FindByIDWithQuestions(id uint) (*model.Test, error)
	FindAllWithQuestionCount() ([]TestWithQuestionCount, error)
	// SetRegistered writes the on-chain registry reference. It is a no-op when
	// the test already carries one, so a lost race still leaves a single write.
	SetRegistered(id uint, txHash, metadataCID string, at time.Time) error
	IncrementAttemptCount(id uint) error
}

type TestWithQuestionCount struct {
	model.Test
	QuestionCount int
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(test *model.Test) error {
	// Create with associations also inserts test.Questions when populated.
	return r.db.Create(test).Error
}

func (r *testRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.First(&test, id).Error
	return &test, err
}

func (r *testRepository) FindByIDWithQuestions(id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_in_test ASC")
	}).First(&test, id).Error
	return &test, err
}

func (r *testRepository) FindAllWithQuestionCount() ([]TestWithQuestionCount, error) {
	var results []TestWithQuestionCount
	err := r.db.Model(&model.Test{}).
		Select("tests.*, (SELECT COUNT(*) FROM questions WHERE questions.test_id = tests.id AND questions.deleted_at IS NULL) as question_count").
		Where("tests.deleted_at IS NULL").
		Order("tests.created_at DESC").
		Scan(&results).Error
	return results, err
}

func (r *testRepository) SetRegistered(id uint, txHash, metadataCID string, at time.Time) error {
	return r.db.Model(&model.Test{}).
		Where("id = ? AND registry_tx_hash IS NULL", id).
		Updates(map[string]interface{}{
			"registry_tx_hash":   txHash,
			"metadata_cid":       metadataCID,
			"registered_at":      at,
			"registration_count": gorm.Expr("registration_count + 1"),
		}).Error
}

func (r *testRepository) IncrementAttemptCount(id uint) error {
	return r.db.Model(&model.Test{}).
		Where("id = ?", id).
		UpdateColumn("attempt_count", gorm.Expr("attempt_count + 1")).Error
}
