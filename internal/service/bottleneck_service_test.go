package service

import (
	"testing"

	"go.uber.org/zap"

	"student-hub/backend/internal/model"
)

// ── Rank 测试 ──

// 零进度空方案下的完整排序：
//
//	CSE220: 18(硬缺1) + 6(软缺1) + 8(必修) + 3(学分) + 2(模式CSE) + 4(阻塞2门) + 6(类别) = 47 → 封顶 40
//	CSE400: 21(硬缺2) + 8 + 4 + 6(模式CSE4) + 0 + 4 = 43 → 封顶 40
//	CSE111: 18 + 8 + 3 + 2 + 2(阻塞1门) + 6 = 39
//	CSE221: 18 + 8 + 3 + 2 + 2 + 6 = 39
//	MAT120: 18 + 8 + 3 + 0 + 0 + 5 = 34
//
// 同分 40 的 CSE220/CSE400 与同分 39 的 CSE111/CSE221 均按课程代码升序。
func TestBottleneckService_RankFullOrdering(t *testing.T) {
	f := setupPlannerFixture()
	plan := &model.SemesterPlan{StudentID: "stu-001", ProgramCode: "CSE"}

	result := f.bottleneck.Rank(plan, testProgram(), nil)

	if len(result) != 5 {
		t.Fatalf("期望返回前 5 名，实际=%d", len(result))
	}

	wantOrder := []string{"CSE220", "CSE400", "CSE111", "CSE221", "MAT120"}
	wantScore := []int{40, 40, 39, 39, 34}
	for i, want := range wantOrder {
		if result[i].CourseCode != want {
			t.Errorf("第 %d 名期望 %s，实际=%s", i+1, want, result[i].CourseCode)
		}
		if result[i].Score != wantScore[i] {
			t.Errorf("%s 期望分值 %d，实际=%d", want, wantScore[i], result[i].Score)
		}
	}
}

func TestBottleneckService_CompletedExcluded(t *testing.T) {
	f := setupPlannerFixture()
	completed := []model.CompletedCourse{
		{CourseCode: "CSE110", Status: model.CourseStatusCompleted},
	}
	plan := &model.SemesterPlan{StudentID: "stu-001", ProgramCode: "CSE"}

	result := f.bottleneck.Rank(plan, testProgram(), completed)

	for _, bc := range result {
		if bc.CourseCode == "CSE110" {
			t.Error("已修完课程不应进入瓶颈候选")
		}
	}
}

// 方案内任意位置已规划即视为满足先修（建议性评估口径）
func TestBottleneckService_PlannedAnywhereSatisfies(t *testing.T) {
	f := setupPlannerFixture()
	plan := &model.SemesterPlan{
		StudentID:   "stu-001",
		ProgramCode: "CSE",
		Semesters: []model.PlannedSemester{
			semester(3, model.SeasonFall, 2026, 12, planned("CSE110", false)),
		},
	}

	result := f.bottleneck.Rank(plan, testProgram(), nil)

	for _, bc := range result {
		if bc.CourseCode == "CSE111" && len(bc.MissingHard) != 0 {
			t.Errorf("CSE110 已规划，CSE111 不应报缺失硬先修: %v", bc.MissingHard)
		}
	}
}

// 模式表命中首个即停，不跨条目累加
func TestBottleneckService_PatternFirstMatchOnly(t *testing.T) {
	program := &model.Program{
		Code:           "CSE",
		CatalogVersion: 1,
		Courses: []model.CourseDefinition{
			// 同时匹配 CSE4(+6) 与 CSE(+2)，只应计 6
			{CourseCode: "CSE450", CourseName: "样例课", Credits: 1, Category: model.CategoryGenEd},
		},
	}
	svc := NewBottleneckService(plannerTestConfig(), zap.NewNop())
	plan := &model.SemesterPlan{StudentID: "stu-001", ProgramCode: "CSE"}

	result := svc.Rank(plan, program, nil)

	if len(result) != 1 {
		t.Fatalf("期望 1 个候选，实际=%d", len(result))
	}
	// 1(学分) + 6(模式) + 1(类别) = 8；若累加两条模式则为 10
	if result[0].Score != 8 {
		t.Errorf("期望分值 8，实际=%d", result[0].Score)
	}
}

// 软先修关系不计入阻塞
func TestBottleneckService_SoftPrereqNotBlocking(t *testing.T) {
	program := &model.Program{
		Code:           "EEE",
		CatalogVersion: 1,
		Courses: []model.CourseDefinition{
			{CourseCode: "EEE101", CourseName: "基础课", Credits: 3, Category: model.CategoryGenEd},
			{CourseCode: "EEE201", CourseName: "软依赖课", Credits: 3, Category: model.CategoryGenEd,
				SoftPrerequisites: model.StringArray{"EEE101"}},
		},
	}
	svc := NewBottleneckService(plannerTestConfig(), zap.NewNop())
	plan := &model.SemesterPlan{StudentID: "stu-001", ProgramCode: "EEE"}

	result := svc.Rank(plan, program, nil)

	for _, bc := range result {
		if bc.CourseCode == "EEE101" {
			// 3(学分) + 1(类别) = 4；若软依赖计入阻塞会是 6
			if bc.Score != 4 {
				t.Errorf("EEE101 期望分值 4（软依赖不计阻塞），实际=%d", bc.Score)
			}
		}
	}
}

func TestBottleneckService_AllCompletedEmptyResult(t *testing.T) {
	f := setupPlannerFixture()
	var completed []model.CompletedCourse
	for _, c := range testProgram().Courses {
		completed = append(completed, model.CompletedCourse{
			CourseCode: c.CourseCode,
			Status:     model.CourseStatusCompleted,
		})
	}
	plan := &model.SemesterPlan{StudentID: "stu-001", ProgramCode: "CSE"}

	result := f.bottleneck.Rank(plan, testProgram(), completed)
	if len(result) != 0 {
		t.Errorf("全部修完时应无瓶颈课程，实际=%d", len(result))
	}
}

// 确定性：重复调用结果完全一致
func TestBottleneckService_Deterministic(t *testing.T) {
	f := setupPlannerFixture()
	plan := &model.SemesterPlan{StudentID: "stu-001", ProgramCode: "CSE"}

	first := f.bottleneck.Rank(plan, testProgram(), nil)
	for i := 0; i < 10; i++ {
		again := f.bottleneck.Rank(plan, testProgram(), nil)
		if len(again) != len(first) {
			t.Fatalf("第 %d 次排序长度不一致", i)
		}
		for j := range again {
			if again[j].CourseCode != first[j].CourseCode || again[j].Score != first[j].Score {
				t.Fatalf("第 %d 次排序第 %d 名不一致: %s != %s", i, j, again[j].CourseCode, first[j].CourseCode)
			}
		}
	}
}
