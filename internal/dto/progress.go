package dto

// ── 学业进度模块 DTO ──

// ProgressResponse 学业进度响应
type ProgressResponse struct {
	StudentID             string                    `json:"student_id"`
	ProgramCode           string                    `json:"program_code"`
	TotalCreditsCompleted int                       `json:"total_credits_completed"`
	Courses               []CompletedCourseResponse `json:"courses"`
}

// CompletedCourseResponse 修读记录响应
type CompletedCourseResponse struct {
	CourseCode string `json:"course_code"`
	Credits    int    `json:"credits"`
	Status     string `json:"status"`
}
