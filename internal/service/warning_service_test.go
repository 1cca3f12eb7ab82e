package service

import (
	"context"
	"testing"

	"student-hub/backend/internal/dto"
	"student-hub/backend/internal/model"
)

// ── 超载阈值测试 ──

// creditLimit=12：12 分不预警，15 分轻度（>12 且 ≤15），16 分重度（>15）
func TestWarningService_OverloadThresholds(t *testing.T) {
	base := []model.PlannedCourse{
		planned("CSE110", false), planned("MAT110", false),
		planned("PHY111", false), planned("ENG101", false), // 4 × 3 = 12 学分
	}

	cases := []struct {
		name      string
		courses   []model.PlannedCourse
		wantType  string
		wantCount int
	}{
		{"12分不预警", base, "", 0},
		// 合成课程默认 3 学分，总 15
		{"15分轻度超载", append(append([]model.PlannedCourse{}, base...), planned("UNKNOWN1", false)), dto.WarningLightOverload, 1},
		// CSE400 为 4 学分，总 16
		{"16分重度超载", append(append([]model.PlannedCourse{}, base...), planned("CSE400", false)), dto.WarningHeavyOverload, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupPlannerFixture()
			f.seedProgress("stu-001", 0)
			plan := f.seedPlan("stu-001", semester(1, model.SeasonSpring, 2026, 12, tc.courses...))

			warnings, err := f.warning.ComputeWarnings(context.Background(), plan, nil)
			if err != nil {
				t.Fatalf("ComputeWarnings 应成功: %v", err)
			}

			overloads := filterWarnings(warnings, dto.WarningLightOverload, dto.WarningHeavyOverload)
			if len(overloads) != tc.wantCount {
				t.Fatalf("期望 %d 条超载预警，实际=%d", tc.wantCount, len(overloads))
			}
			if tc.wantCount > 0 && overloads[0].Type != tc.wantType {
				t.Errorf("期望类型=%s，实际=%s", tc.wantType, overloads[0].Type)
			}
		})
	}
}

// ── 先修与重修预警 ──

func TestWarningService_MissingPrereqWarnings(t *testing.T) {
	f := setupPlannerFixture()
	f.seedProgress("stu-001", 0)
	plan := f.seedPlan("stu-001",
		semester(1, model.SeasonSpring, 2026, 12, planned("CSE220", false)),
	)

	warnings, err := f.warning.ComputeWarnings(context.Background(), plan, f.progressRepo.completed["stu-001"])
	if err != nil {
		t.Fatalf("ComputeWarnings 应成功: %v", err)
	}

	hard := filterWarnings(warnings, dto.WarningMissingHardPrereq)
	if len(hard) != 1 {
		t.Fatalf("期望 1 条硬先修预警，实际=%d", len(hard))
	}
	if hard[0].CourseCode != "CSE220" {
		t.Errorf("预警课程应为 CSE220，实际=%s", hard[0].CourseCode)
	}
	if len(hard[0].MissingCourses) != 1 || hard[0].MissingCourses[0] != "CSE111" {
		t.Errorf("缺失清单应为 [CSE111]，实际=%v", hard[0].MissingCourses)
	}

	soft := filterWarnings(warnings, dto.WarningMissingSoftPrereq)
	if len(soft) != 1 {
		t.Fatalf("期望 1 条软先修预警，实际=%d", len(soft))
	}
	if len(soft[0].MissingCourses) != 1 || soft[0].MissingCourses[0] != "MAT110" {
		t.Errorf("软先修缺失清单应为 [MAT110]，实际=%v", soft[0].MissingCourses)
	}
}

func TestWarningService_RepeatCourseWarning(t *testing.T) {
	f := setupPlannerFixture()
	f.seedProgress("stu-001", 3, "CSE110")
	plan := f.seedPlan("stu-001",
		semester(1, model.SeasonSpring, 2026, 12, planned("CSE110", true)),
	)

	warnings, err := f.warning.ComputeWarnings(context.Background(), plan, f.progressRepo.completed["stu-001"])
	if err != nil {
		t.Fatalf("ComputeWarnings 应成功: %v", err)
	}

	repeats := filterWarnings(warnings, dto.WarningRepeatCourse)
	if len(repeats) != 1 {
		t.Fatalf("期望 1 条重修预警，实际=%d", len(repeats))
	}
	if repeats[0].CourseCode != "CSE110" {
		t.Errorf("重修预警课程应为 CSE110，实际=%s", repeats[0].CourseCode)
	}
}

// ── 顺序契约 ──

// 学期按时间先后；同学期内先超载预警再逐课预警
func TestWarningService_OrderContract(t *testing.T) {
	f := setupPlannerFixture()
	f.seedProgress("stu-001", 0)
	// 学期故意乱序写入：Fall 2026 在前，Spring 2026 在后
	plan := f.seedPlan("stu-001",
		semester(2, model.SeasonFall, 2026, 12, planned("CSE220", false)),
		semester(1, model.SeasonSpring, 2026, 6,
			planned("CSE110", false), planned("MAT110", false), planned("PHY111", false)),
	)

	warnings, err := f.warning.ComputeWarnings(context.Background(), plan, nil)
	if err != nil {
		t.Fatalf("ComputeWarnings 应成功: %v", err)
	}
	if len(warnings) < 2 {
		t.Fatalf("预警数不足: %d", len(warnings))
	}

	// 第一条应来自时间更早的 Spring 2026（9 分 > 上限 6，轻度超载）
	if warnings[0].SemesterNumber != 1 {
		t.Errorf("首条预警应属第 1 学期，实际=%d", warnings[0].SemesterNumber)
	}
	if warnings[0].Type != dto.WarningLightOverload {
		t.Errorf("首条预警应为超载类，实际=%s", warnings[0].Type)
	}

	// 末条应来自 Fall 2026 的课程预警
	last := warnings[len(warnings)-1]
	if last.SemesterNumber != 2 {
		t.Errorf("末条预警应属第 2 学期，实际=%d", last.SemesterNumber)
	}
}

// ── 确定性 ──

func TestWarningService_Deterministic(t *testing.T) {
	f := setupPlannerFixture()
	f.seedProgress("stu-001", 0)
	plan := f.seedPlan("stu-001",
		semester(1, model.SeasonSpring, 2026, 6,
			planned("CSE220", false), planned("CSE221", false), planned("CSE400", false)),
	)

	first, err := f.warning.ComputeWarnings(context.Background(), plan, nil)
	if err != nil {
		t.Fatalf("ComputeWarnings 应成功: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := f.warning.ComputeWarnings(context.Background(), plan, nil)
		if len(again) != len(first) {
			t.Fatalf("第 %d 次重算预警数不一致: %d != %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j].Type != first[j].Type || again[j].CourseCode != first[j].CourseCode {
				t.Fatalf("第 %d 次重算第 %d 条预警不一致", i, j)
			}
		}
	}
}

// ── 辅助 ──

func filterWarnings(warnings []dto.PlanWarning, types ...string) []dto.PlanWarning {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var result []dto.PlanWarning
	for _, w := range warnings {
		if want[w.Type] {
			result = append(result, w)
		}
	}
	return result
}
