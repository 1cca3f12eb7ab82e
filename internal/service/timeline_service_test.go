package service

import (
	"context"
	"testing"
	"time"

	"student-hub/backend/internal/dto"
	"student-hub/backend/internal/model"
)

// withFixedNow 注入固定时钟
func withFixedNow(svc TimelineService, t time.Time) {
	svc.(*timelineService).now = func() time.Time { return t }
}

// ── Project 测试 ──

// 无缺口：方案覆盖全部剩余学分，毕业即最后规划学期
func TestTimelineService_NoGapAnchorsAtLastPlanned(t *testing.T) {
	f := setupPlannerFixture()
	f.seedProgress("stu-001", 130)
	plan := f.seedPlan("stu-001",
		semester(1, model.SeasonFall, 2026, 12,
			planned("CSE110", false), planned("CSE111", false)), // 6 学分
	)

	tl := f.timeline.Project(context.Background(), "stu-001", plan)

	if tl.CalculationMethod != dto.CalcMethodPlanProjection {
		t.Fatalf("期望 plan_projection，实际=%s", tl.CalculationMethod)
	}
	if tl.Metadata.CreditsStillNeeded != 0 {
		t.Errorf("学分缺口应为 0，实际=%d", tl.Metadata.CreditsStillNeeded)
	}
	if tl.Metadata.AdditionalSemestersNeeded != 0 {
		t.Errorf("不应追加学期，实际=%d", tl.Metadata.AdditionalSemestersNeeded)
	}
	if tl.EstimatedGraduationSemester != model.SeasonFall || tl.EstimatedGraduationYear != 2026 {
		t.Errorf("毕业学期应为 Fall 2026，实际=%s %d", tl.EstimatedGraduationSemester, tl.EstimatedGraduationYear)
	}
	if tl.TotalRemainingSemesters != 1 {
		t.Errorf("剩余学期应为 1，实际=%d", tl.TotalRemainingSemesters)
	}
	if tl.Metadata.AnchorBasis != dto.AnchorLastPlannedSemester {
		t.Errorf("锚点依据应为最后规划学期，实际=%s", tl.Metadata.AnchorBasis)
	}
}

// 有缺口：Fall 2025 + 追加 2 学季 → Summer 2026
func TestTimelineService_GapStepsForwardFromLastPlanned(t *testing.T) {
	f := setupPlannerFixture()
	f.seedProgress("stu-001", 100)
	plan := f.seedPlan("stu-001",
		semester(1, model.SeasonFall, 2025, 12,
			planned("CSE110", false), planned("CSE111", false),
			planned("MAT110", false), planned("PHY111", false)), // 12 学分
	)

	tl := f.timeline.Project(context.Background(), "stu-001", plan)

	if tl.Metadata.CreditsStillNeeded != 24 {
		t.Errorf("学分缺口应为 136-100-12=24，实际=%d", tl.Metadata.CreditsStillNeeded)
	}
	if tl.Metadata.AverageLoad != 12 {
		t.Errorf("平均负载应为 12，实际=%.1f", tl.Metadata.AverageLoad)
	}
	if tl.Metadata.AdditionalSemestersNeeded != 2 {
		t.Errorf("追加学期应为 2，实际=%d", tl.Metadata.AdditionalSemestersNeeded)
	}
	// Fall 2025 → Spring 2026 → Summer 2026
	if tl.EstimatedGraduationSemester != model.SeasonSummer || tl.EstimatedGraduationYear != 2026 {
		t.Errorf("毕业学期应为 Summer 2026，实际=%s %d", tl.EstimatedGraduationSemester, tl.EstimatedGraduationYear)
	}
	if tl.TotalRemainingSemesters != 3 {
		t.Errorf("剩余学期应为 1+2=3，实际=%d", tl.TotalRemainingSemesters)
	}
}

// 空方案：以当前日历学季为锚点，平均负载取默认 12
func TestTimelineService_EmptyPlanFallsBackToCalendarSeason(t *testing.T) {
	f := setupPlannerFixture()
	f.seedProgress("stu-001", 124)
	plan := f.seedPlan("stu-001")

	withFixedNow(f.timeline, time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC))

	tl := f.timeline.Project(context.Background(), "stu-001", plan)

	if tl.Metadata.AnchorBasis != dto.AnchorCurrentCalendarSeason {
		t.Fatalf("锚点依据应为当前日历学季，实际=%s", tl.Metadata.AnchorBasis)
	}
	if tl.Metadata.AverageLoad != 12 {
		t.Errorf("空方案平均负载应回退为 12，实际=%.1f", tl.Metadata.AverageLoad)
	}
	// 缺口 12 学分 → 1 个学期；2026 年 6 月为 Summer，顺延 1 学季 → Fall 2026
	if tl.EstimatedGraduationSemester != model.SeasonFall || tl.EstimatedGraduationYear != 2026 {
		t.Errorf("毕业学期应为 Fall 2026，实际=%s %d", tl.EstimatedGraduationSemester, tl.EstimatedGraduationYear)
	}
}

// 重修占负载但不冲抵学分缺口
func TestTimelineService_RepeatExcludedFromCreditNeed(t *testing.T) {
	f := setupPlannerFixture()
	f.seedProgress("stu-001", 100, "CSE110")
	plan := f.seedPlan("stu-001",
		semester(1, model.SeasonFall, 2025, 12,
			planned("CSE110", true), // 重修 3 学分
			planned("CSE111", false), planned("MAT110", false), planned("PHY111", false)),
	)

	tl := f.timeline.Project(context.Background(), "stu-001", plan)

	if tl.Metadata.TotalPlannedCreditsForLoad != 12 {
		t.Errorf("负载口径应含重修=12，实际=%d", tl.Metadata.TotalPlannedCreditsForLoad)
	}
	if tl.Metadata.NonRepeatPlannedCredits != 9 {
		t.Errorf("非重修学分应为 9，实际=%d", tl.Metadata.NonRepeatPlannedCredits)
	}
	if tl.Metadata.CreditsStillNeeded != 27 {
		t.Errorf("学分缺口应为 136-100-9=27，实际=%d", tl.Metadata.CreditsStillNeeded)
	}
}

// 近零方案：平均负载低于下限时回退默认值
func TestTimelineService_DegenerateLoadFallsBack(t *testing.T) {
	f := setupPlannerFixture()
	f.seedProgress("stu-001", 100)
	plan := f.seedPlan("stu-001",
		semester(1, model.SeasonFall, 2025, 12), // 空学期，均值 0
	)

	tl := f.timeline.Project(context.Background(), "stu-001", plan)

	if tl.Metadata.AverageLoad != 12 {
		t.Errorf("均值低于下限应回退 12，实际=%.1f", tl.Metadata.AverageLoad)
	}
	// 缺口 36 → 3 学季：Fall 2025 → Spring/Summer/Fall 2026
	if tl.EstimatedGraduationSemester != model.SeasonFall || tl.EstimatedGraduationYear != 2026 {
		t.Errorf("毕业学期应为 Fall 2026，实际=%s %d", tl.EstimatedGraduationSemester, tl.EstimatedGraduationYear)
	}
}

// 进度缺失：返回占位时间线，不报错
func TestTimelineService_SentinelOnMissingProgress(t *testing.T) {
	f := setupPlannerFixture()
	plan := &model.SemesterPlan{StudentID: "ghost", ProgramCode: "CSE"}

	tl := f.timeline.Project(context.Background(), "ghost", plan)

	if tl.CalculationMethod != dto.CalcMethodInsufficientData {
		t.Fatalf("期望 insufficient_data，实际=%s", tl.CalculationMethod)
	}
	if tl.EstimatedGraduationSemester != "Unknown" || tl.EstimatedGraduationYear != 0 {
		t.Errorf("占位结果学期应为 Unknown/0，实际=%s/%d", tl.EstimatedGraduationSemester, tl.EstimatedGraduationYear)
	}
	if len(tl.BottleneckCourses) != 0 {
		t.Errorf("占位结果不应有瓶颈课程: %d", len(tl.BottleneckCourses))
	}
}

// 方案缺失对应的培养方案：同样降级为占位结果
func TestTimelineService_SentinelOnMissingProgram(t *testing.T) {
	f := setupPlannerFixture()
	f.progressRepo.progress["stu-002"] = &model.StudentProgress{
		StudentID:   "stu-002",
		ProgramCode: "EEE", // 不存在的方案
	}
	plan := &model.SemesterPlan{StudentID: "stu-002", ProgramCode: "EEE"}

	tl := f.timeline.Project(context.Background(), "stu-002", plan)
	if tl.CalculationMethod != dto.CalcMethodInsufficientData {
		t.Errorf("期望 insufficient_data，实际=%s", tl.CalculationMethod)
	}
}

// 瓶颈清单随时间线返回
func TestTimelineService_IncludesBottlenecks(t *testing.T) {
	f := setupPlannerFixture()
	f.seedProgress("stu-001", 0)
	plan := f.seedPlan("stu-001")

	tl := f.timeline.Project(context.Background(), "stu-001", plan)
	if len(tl.BottleneckCourses) != 5 {
		t.Errorf("应返回 5 门瓶颈课程，实际=%d", len(tl.BottleneckCourses))
	}
}
