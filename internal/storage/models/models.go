package models

import (
	"time"

	"gorm.io/datatypes"
)

// JobPosting 岗位源数据行，corpussync 从这里构建岗位语料库制品。
// 向量列保存最近一次计算结果及模型版本，模型升级后重新生成。
type JobPosting struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	JobID             string `gorm:"type:varchar(64);uniqueIndex;not null"`
	JobRole           string `gorm:"type:varchar(255)"`
	Company           string `gorm:"type:varchar(255)"`
	Location          string `gorm:"type:varchar(255)"`
	ContractType      string `gorm:"type:varchar(64)"`
	ExperienceLevel   string `gorm:"type:varchar(64)"`
	Salary            float64
	SkillsDescription string         `gorm:"type:text"`
	Embedding         datatypes.JSON `gorm:"type:json"`
	EmbeddingModel    string         `gorm:"type:varchar(64)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName 指定表名
func (JobPosting) TableName() string {
	return "job_postings"
}

// CourseListing 课程/认证源数据行
type CourseListing struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	CourseID       string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Title          string `gorm:"type:varchar(255)"`
	Provider       string `gorm:"type:varchar(255)"`
	Level          string `gorm:"type:varchar(64)"`
	Description    string `gorm:"type:text"`
	Skills         string `gorm:"type:text"`
	Embedding      datatypes.JSON `gorm:"type:json"`
	EmbeddingModel string         `gorm:"type:varchar(64)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName 指定表名
func (CourseListing) TableName() string {
	return "course_listings"
}
