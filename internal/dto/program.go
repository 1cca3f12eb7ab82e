package dto

// ── 培养方案模块 DTO ──

// ProgramResponse 培养方案响应
type ProgramResponse struct {
	Code                 string                     `json:"code"`
	Name                 string                     `json:"name"`
	TotalCreditsRequired int                        `json:"total_credits_required"`
	CatalogVersion       int                        `json:"catalog_version"`
	RequirementGroups    []RequirementGroupResponse `json:"requirement_groups"`
}

// RequirementGroupResponse 按类别分组的课程要求
type RequirementGroupResponse struct {
	Category string                   `json:"category"`
	Courses  []CourseDetailedResponse `json:"courses"`
}

// CourseDetailedResponse 课程定义详情
type CourseDetailedResponse struct {
	CourseCode        string   `json:"course_code"`
	CourseName        string   `json:"course_name"`
	Credits           int      `json:"credits"`
	Category          string   `json:"category"`
	IsRequired        bool     `json:"is_required"`
	HardPrerequisites []string `json:"hard_prerequisites"`
	SoftPrerequisites []string `json:"soft_prerequisites"`
}

// CacheInvalidateResponse 课程目录缓存失效响应
type CacheInvalidateResponse struct {
	ProgramCode string `json:"program_code"`
	Invalidated bool   `json:"invalidated"`
}
