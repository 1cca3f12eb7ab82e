package dto

// ── 毕业时间线 DTO ──

// 时间线计算方式
const (
	CalcMethodPlanProjection   = "plan_projection"   // 基于规划推算
	CalcMethodInsufficientData = "insufficient_data" // 数据不足，返回占位结果
)

// 推算锚点依据
const (
	AnchorLastPlannedSemester   = "last_planned_semester"
	AnchorCurrentCalendarSeason = "current_calendar_season"
)

// GraduationTimeline 毕业时间线响应
type GraduationTimeline struct {
	EstimatedGraduationSemester string             `json:"estimated_graduation_semester"`
	EstimatedGraduationYear     int                `json:"estimated_graduation_year"`
	TotalRemainingSemesters     int                `json:"total_remaining_semesters"`
	BottleneckCourses           []BottleneckCourse `json:"bottleneck_courses"`
	CalculationMethod           string             `json:"calculation_method"`
	Metadata                    TimelineMetadata   `json:"metadata"`
}

// BottleneckCourse 瓶颈课程（按影响分值降序）
type BottleneckCourse struct {
	CourseCode  string   `json:"course_code"`
	CourseName  string   `json:"course_name"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
	MissingHard []string `json:"missing_hard,omitempty"`
	MissingSoft []string `json:"missing_soft,omitempty"`
}

// TimelineMetadata 时间线推算过程数据（供前端展示推算依据）
type TimelineMetadata struct {
	CreditsCompleted          int     `json:"credits_completed"`
	NonRepeatPlannedCredits   int     `json:"non_repeat_planned_credits"`
	TotalPlannedCreditsForLoad int    `json:"total_planned_credits_for_load"`
	CreditsStillNeeded        int     `json:"credits_still_needed"`
	AverageLoad               float64 `json:"average_load"`
	AdditionalSemestersNeeded int     `json:"additional_semesters_needed"`
	PlannedSemesterCount      int     `json:"planned_semester_count"`
	AnchorBasis               string  `json:"anchor_basis"`
	AnchorDescription         string  `json:"anchor_description"`
}
