package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"student-hub/backend/internal/service"
	"student-hub/backend/pkg/response"
)

// ProgramHandler 培养方案模块 HTTP 处理器
type ProgramHandler struct {
	programSvc service.ProgramService
}

// NewProgramHandler 创建 ProgramHandler
func NewProgramHandler(programSvc service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programSvc: programSvc}
}

// GetProgram 获取培养方案（按课程类别分组）
// GET /api/v1/programs/:code
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, 10001, "方案代码不能为空")
		return
	}

	program, err := h.programSvc.GetProgram(c.Request.Context(), code)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.OK(c, program)
}

// GetMyProgress 获取当前学生的学业进度
// GET /api/v1/progress/me
func (h *ProgramHandler) GetMyProgress(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	progress, err := h.programSvc.GetMyProgress(c.Request.Context(), studentID)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.OK(c, progress)
}

// InvalidateCache 失效课程目录缓存（管理端，目录变更后调用）
// POST /api/v1/programs/:code/cache/invalidate
func (h *ProgramHandler) InvalidateCache(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, 10001, "方案代码不能为空")
		return
	}

	result := h.programSvc.InvalidateCatalog(code)
	response.OK(c, result)
}

func (h *ProgramHandler) handleProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 15101, "培养方案不存在")
	case errors.Is(err, service.ErrProgressNotFound):
		response.NotFound(c, 15102, "学业进度记录不存在")
	default:
		response.InternalError(c)
	}
}
