package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"student-hub/backend/config"
	"student-hub/backend/internal/model"
	"student-hub/backend/internal/repository"
)

// ── 共享测试夹具 ──

// plannerTestConfig 测试用规划引擎配置（与生产默认值一致，另配模式权重表）
func plannerTestConfig() *config.PlannerConfig {
	return &config.PlannerConfig{
		DefaultCreditLimit: 12,
		DefaultAverageLoad: 12,
		MinAverageLoad:     3,
		BottleneckScoreCap: 40,
		BottleneckTopN:     5,
		PatternWeights: []config.PatternWeight{
			{Pattern: "CSE4", Weight: 6},
			{Pattern: "CSE", Weight: 2},
		},
		CategoryWeights: map[string]int{
			model.CategoryProgramCore:     6,
			model.CategorySchoolCore:      5,
			model.CategoryProjectThesis:   4,
			model.CategoryProgramElective: 2,
			model.CategoryGenEd:           1,
		},
	}
}

// testProgram 标准测试培养方案：计算机科学，136 总学分
func testProgram() *model.Program {
	return &model.Program{
		ProgramID:            "prog-cse",
		Code:                 "CSE",
		Name:                 "计算机科学与工程",
		TotalCreditsRequired: 136,
		CatalogVersion:       1,
		Courses: []model.CourseDefinition{
			{CourseCode: "CSE110", CourseName: "程序设计语言", Credits: 3, Category: model.CategoryProgramCore, IsRequired: true},
			{CourseCode: "CSE111", CourseName: "程序设计语言 II", Credits: 3, Category: model.CategoryProgramCore, IsRequired: true,
				HardPrerequisites: model.StringArray{"CSE110"}},
			{CourseCode: "CSE220", CourseName: "数据结构", Credits: 3, Category: model.CategoryProgramCore, IsRequired: true,
				HardPrerequisites: model.StringArray{"CSE111"}, SoftPrerequisites: model.StringArray{"MAT110"}},
			{CourseCode: "CSE221", CourseName: "算法设计", Credits: 3, Category: model.CategoryProgramCore, IsRequired: true,
				HardPrerequisites: model.StringArray{"CSE220"}},
			{CourseCode: "CSE400", CourseName: "毕业设计", Credits: 4, Category: model.CategoryProjectThesis, IsRequired: true,
				HardPrerequisites: model.StringArray{"CSE220", "CSE221"}},
			{CourseCode: "CSE250", CourseName: "数字电路", Credits: 3, Category: model.CategoryProgramElective,
				SoftPrerequisites: model.StringArray{"CSE110"}},
			{CourseCode: "MAT110", CourseName: "微积分 I", Credits: 3, Category: model.CategorySchoolCore, IsRequired: true},
			{CourseCode: "MAT120", CourseName: "微积分 II", Credits: 3, Category: model.CategorySchoolCore, IsRequired: true,
				HardPrerequisites: model.StringArray{"MAT110"}},
			{CourseCode: "PHY111", CourseName: "大学物理", Credits: 3, Category: model.CategorySchoolCore, IsRequired: true},
			{CourseCode: "ENG101", CourseName: "学术英语", Credits: 3, Category: model.CategoryGenEd},
		},
	}
}

// plannerFixture 打包全部服务与底层 mock，便于各用例按需取用
type plannerFixture struct {
	programRepo  *mockProgramRepo
	progressRepo *mockProgressRepo
	planRepo     *mockPlanRepo

	catalog    CatalogService
	prereq     PrereqService
	warning    WarningService
	bottleneck BottleneckService
	timeline   TimelineService
	plan       PlanService
	program    ProgramService
	export     ExportService
}

func setupPlannerFixture() *plannerFixture {
	programRepo := newMockProgramRepo()
	progressRepo := newMockProgressRepo()
	planRepo := newMockPlanRepo()

	programRepo.programs["CSE"] = testProgram()

	repo := &repository.Repository{
		Program:  programRepo,
		Progress: progressRepo,
		Plan:     planRepo,
	}
	logger := zap.NewNop()
	cfg := plannerTestConfig()

	catalog := NewCatalogService(repo, logger)
	bottleneck := NewBottleneckService(cfg, logger)
	warning := NewWarningService(catalog, logger)
	timeline := NewTimelineService(repo, catalog, bottleneck, cfg, logger)
	plan := NewPlanService(repo, catalog, warning, timeline, cfg, logger)

	return &plannerFixture{
		programRepo:  programRepo,
		progressRepo: progressRepo,
		planRepo:     planRepo,
		catalog:      catalog,
		prereq:       NewPrereqService(repo, catalog, logger),
		warning:      warning,
		bottleneck:   bottleneck,
		timeline:     timeline,
		plan:         plan,
		program:      NewProgramService(repo, catalog, logger),
		export:       NewExportService(repo, catalog, timeline, logger),
	}
}

// seedProgress 写入学生进度与修读记录
func (f *plannerFixture) seedProgress(studentID string, creditsCompleted int, completedCodes ...string) {
	f.progressRepo.progress[studentID] = &model.StudentProgress{
		ProgressID:            "prog-" + studentID,
		StudentID:             studentID,
		ProgramCode:           "CSE",
		TotalCreditsCompleted: creditsCompleted,
	}
	for _, code := range completedCodes {
		f.progressRepo.completed[studentID] = append(f.progressRepo.completed[studentID], model.CompletedCourse{
			StudentID:  studentID,
			CourseCode: code,
			Credits:    3,
			Status:     model.CourseStatusCompleted,
		})
	}
}

// seedPlan 写入在用方案并返回
func (f *plannerFixture) seedPlan(studentID string, semesters ...model.PlannedSemester) *model.SemesterPlan {
	plan := &model.SemesterPlan{
		StudentID:   studentID,
		ProgramCode: "CSE",
		Version:     1,
		LockVersion: 1,
		IsActive:    true,
		Semesters:   semesters,
	}
	_ = f.planRepo.Create(context.Background(), plan)
	return plan
}

// semester 构造规划学期
func semester(number int, season string, year int, creditLimit int, courses ...model.PlannedCourse) model.PlannedSemester {
	return model.PlannedSemester{
		Name:           season + " " + strconv.Itoa(year),
		SemesterNumber: number,
		Year:           year,
		Season:         season,
		CreditLimit:    creditLimit,
		Courses:        courses,
	}
}

// planned 构造规划课程
func planned(code string, isRepeat bool) model.PlannedCourse {
	return model.PlannedCourse{CourseCode: code, IsRepeat: isRepeat}
}
