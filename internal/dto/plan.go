package dto

// ── 学期规划模块 DTO ──

// AddCourseRequest 向规划学期添加课程请求
// Version 为当前方案的 lock_version，并发冲突时返回 409
type AddCourseRequest struct {
	CourseCode string `json:"course_code" binding:"required,min=2,max=20"`
	IsRepeat   bool   `json:"is_repeat"`
	Notes      string `json:"notes"       binding:"omitempty,max=500"`
	Version    int    `json:"version"     binding:"required,min=1"`
}

// NewVersionRequest 创建方案新版本请求
// Semesters 为空时深拷贝当前版本的学期结构，非空时整体替换
type NewVersionRequest struct {
	Semesters []PlannedSemesterInput `json:"semesters" binding:"omitempty,dive"`
}

// PlannedSemesterInput 新版本的学期输入
type PlannedSemesterInput struct {
	Name           string               `json:"name"            binding:"required,min=2,max=100"`
	SemesterNumber int                  `json:"semester_number" binding:"required,min=1,max=12"`
	Year           int                  `json:"year"            binding:"required,min=2000,max=2100"`
	Season         string               `json:"season"          binding:"required,oneof=Spring Summer Fall"`
	CreditLimit    int                  `json:"credit_limit"    binding:"omitempty,min=1,max=30"`
	Courses        []PlannedCourseInput `json:"courses"         binding:"omitempty,dive"`
}

// PlannedCourseInput 新版本的课程输入
type PlannedCourseInput struct {
	CourseCode string `json:"course_code" binding:"required,min=2,max=20"`
	IsRepeat   bool   `json:"is_repeat"`
	Notes      string `json:"notes"       binding:"omitempty,max=500"`
}

// ── 响应 ──

// PlanResponse 学期规划方案响应
type PlanResponse struct {
	PlanID            string                `json:"plan_id"`
	StudentID         string                `json:"student_id"`
	ProgramCode       string                `json:"program_code"`
	Version           int                   `json:"version"`
	LockVersion       int                   `json:"lock_version"`
	IsActive          bool                  `json:"is_active"`
	PreviousVersionID *string               `json:"previous_version_id,omitempty"`
	Semesters         []PlannedSemesterView `json:"semesters"`
	CreatedAt         string                `json:"created_at"`
	UpdatedAt         string                `json:"updated_at"`
}

// PlannedSemesterView 规划学期视图
// TotalCredits 为读取时按课程目录汇总的计算值，不落库
type PlannedSemesterView struct {
	PlannedSemesterID string              `json:"planned_semester_id"`
	Name              string              `json:"name"`
	SemesterNumber    int                 `json:"semester_number"`
	Year              int                 `json:"year"`
	Season            string              `json:"season"`
	CreditLimit       int                 `json:"credit_limit"`
	TotalCredits      int                 `json:"total_credits"`
	Courses           []PlannedCourseView `json:"courses"`
}

// PlannedCourseView 规划课程视图（附目录解析出的学分与名称）
type PlannedCourseView struct {
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	Credits    int    `json:"credits"`
	Category   string `json:"category"`
	IsRepeat   bool   `json:"is_repeat"`
	Notes      string `json:"notes,omitempty"`
}

// MutatePlanResponse 方案变更响应（返回最新 lock_version 供下次请求携带）
type MutatePlanResponse struct {
	Plan     *PlanResponse `json:"plan"`
	Warnings []PlanWarning `json:"warnings"`
}

// PlanOverviewResponse 方案总览：方案 + 当前预警 + 当前时间线
// 预警与时间线为读取时重算的视图数据，永不落库
type PlanOverviewResponse struct {
	Plan     *PlanResponse       `json:"plan"`
	Warnings []PlanWarning       `json:"warnings"`
	Timeline *GraduationTimeline `json:"timeline"`
}
