package model

// ── 修读状态枚举 ──

const (
	CourseStatusCompleted = "completed" // 已修完
	CourseStatusOngoing   = "ongoing"   // 在修
	CourseStatusPlanned   = "planned"   // 已规划
	CourseStatusRemaining = "remaining" // 待修
)

// StudentProgress 学业进度表 — 对应 student_progress
// 由教务同步侧维护，对规划引擎只读。
type StudentProgress struct {
	ProgressID            string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"progress_id"`
	StudentID             string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"student_id"`
	ProgramCode           string `gorm:"type:varchar(50);not null"                      json:"program_code"`
	TotalCreditsCompleted int    `gorm:"not null;default:0"                             json:"total_credits_completed"`
	BaseModel
}

// TableName 指定表名
func (StudentProgress) TableName() string { return "student_progress" }

// CompletedCourse 修读记录表 — 对应 completed_courses
type CompletedCourse struct {
	CompletedCourseID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"completed_course_id"`
	StudentID         string `gorm:"type:varchar(50);not null;index"                json:"student_id"`
	CourseCode        string `gorm:"type:varchar(20);not null"                      json:"course_code"`
	Credits           int    `gorm:"not null;default:0"                             json:"credits"`
	Status            string `gorm:"type:varchar(20);not null;default:'completed'"  json:"status"` // completed | ongoing | planned | remaining
	BaseModel
}

// TableName 指定表名
func (CompletedCourse) TableName() string { return "completed_courses" }
