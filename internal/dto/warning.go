package dto

// ── 规划预警 DTO ──

// 预警类型
const (
	WarningLightOverload     = "light_overload"      // 超出学分上限
	WarningHeavyOverload     = "heavy_overload"      // 超出学分上限 3 分以上
	WarningMissingHardPrereq = "missing_hard_prereq" // 缺少硬先修
	WarningMissingSoftPrereq = "missing_soft_prereq" // 缺少软先修（建议先修）
	WarningRepeatCourse      = "repeat_course"       // 重修课程提示
)

// PlanWarning 单条规划预警
// 顺序约定：学期按时间先后，同学期内先超载预警、再按课程顺序逐课预警
type PlanWarning struct {
	Type           string   `json:"type"`
	SemesterID     string   `json:"semester_id"`
	SemesterName   string   `json:"semester_name"`
	SemesterNumber int      `json:"semester_number"`
	CourseCode     string   `json:"course_code,omitempty"`
	Message        string   `json:"message"`
	MissingCourses []string `json:"missing_courses,omitempty"`
}

// PrereqCheckRequest 先修检查查询参数
type PrereqCheckRequest struct {
	CourseCode     string `form:"course_code"     binding:"required,min=2,max=20"`
	SemesterNumber int    `form:"semester_number" binding:"required,min=1,max=12"`
}

// PrereqCheckResult 先修检查结果
type PrereqCheckResult struct {
	CourseCode  string   `json:"course_code"`
	Met         bool     `json:"met"`
	MissingHard []string `json:"missing_hard"`
	MissingSoft []string `json:"missing_soft"`
}
