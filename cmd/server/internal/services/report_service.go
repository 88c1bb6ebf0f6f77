package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/houzhh15/weekly-report/cmd/server/internal/apperrors"
	"github.com/houzhh15/weekly-report/cmd/server/internal/audit"
	"github.com/houzhh15/weekly-report/cmd/server/internal/draft"
	"github.com/houzhh15/weekly-report/cmd/server/internal/export"
	"github.com/houzhh15/weekly-report/cmd/server/internal/llm"
	"github.com/houzhh15/weekly-report/cmd/server/internal/metrics"
	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
	"github.com/houzhh15/weekly-report/cmd/server/internal/report"
	"github.com/houzhh15/weekly-report/pkg/logger"
)

// ErrNoTasks 看板上没有任何非空任务，不能生成周报
var ErrNoTasks = errors.New("NO_TASKS")

// 忙碌闸门对应的操作名，同时用作指标标签
const (
	OperationGenerate = "generate"
	OperationRefine   = "refine"
	OperationExport   = "export"
)

// ReportExporter 生成 PDF 字节
type ReportExporter interface {
	Export(ctx context.Context, in export.Input) ([]byte, error)
}

// ReportView 当前周报、表头和生成状态
type ReportView struct {
	Data      *models.StructuredReportData `json:"data"`
	Meta      models.ReportMeta            `json:"meta"`
	Status    models.ReportStatus          `json:"status"`
	LastError string                       `json:"last_error,omitempty"`
}

// ReportService 周报流程：生成、编辑、润色、导出和草稿
type ReportService interface {
	// Generate 根据看板生成周报，已有生成进行中时返回 ErrBusy
	Generate(ctx context.Context) (*models.StructuredReportData, error)

	// LoadRaw 解析外部 AI 文本；失败时保留原有周报
	LoadRaw(ctx context.Context, raw string) (*models.StructuredReportData, error)

	// View 当前周报视图
	View() ReportView

	// Status 当前生成状态
	Status() models.ReportStatus

	// UpdateField 编辑单个字段，section 为 "meta" 时修改表头
	UpdateField(ctx context.Context, section string, index int, subField, value string) (ReportView, error)

	// SetMeta 整体替换表头
	SetMeta(ctx context.Context, meta models.ReportMeta) models.ReportMeta

	// Sheet 周报表格模型与主题样式
	Sheet(themeName, primary string) (render.Sheet, render.Styles, error)

	// PlainText 纯文本摘要
	PlainText() string

	// Refine 润色指定任务并写回看板；AI 失败时任务内容保持不变
	Refine(ctx context.Context, day models.DayKey, taskID string) (*models.Task, error)

	// Export 导出 PDF，同一时间只允许一个导出
	Export(ctx context.Context, themeName, primary string) ([]byte, error)

	// SaveDraft 保存看板草稿
	SaveDraft(ctx context.Context) error

	// LoadDraft 读取草稿并替换看板；失败时看板保持不变
	LoadDraft(ctx context.Context) (models.WeekData, error)

	// DraftExists 是否已有草稿
	DraftExists(ctx context.Context) (bool, error)

	// ClearAll 清空看板并重置周报
	ClearAll(ctx context.Context)
}

// ReportServiceDeps 构造 ReportService 的依赖
type ReportServiceDeps struct {
	Board    BoardService
	Store    *report.Store
	AI       llm.Client
	Exporter ReportExporter
	Drafts   draft.Store
	Palette  *render.Palette
	Audit    audit.AuditLogger
	Logger   *slog.Logger
}

// reportService ReportService 实现
type reportService struct {
	board    BoardService
	store    *report.Store
	ai       llm.Client
	exporter ReportExporter
	drafts   draft.Store
	palette  *render.Palette
	audit    audit.AuditLogger
	log      *slog.Logger

	generateGate *BusyGate
	refineGate   *BusyGate
	exportGate   *BusyGate

	mu      sync.RWMutex
	status  models.ReportStatus
	lastErr string
}

// NewReportService 创建周报服务，Palette / Audit 为空时使用默认值
func NewReportService(deps ReportServiceDeps) ReportService {
	palette := deps.Palette
	if palette == nil {
		palette = render.NewPalette()
	}
	auditLog := deps.Audit
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &reportService{
		board:        deps.Board,
		store:        deps.Store,
		ai:           deps.AI,
		exporter:     deps.Exporter,
		drafts:       deps.Drafts,
		palette:      palette,
		audit:        auditLog,
		log:          logger.OrDefault(deps.Logger).With("component", "report_service"),
		generateGate: NewBusyGate(),
		refineGate:   NewBusyGate(),
		exportGate:   NewBusyGate(),
		status:       models.ReportIdle,
	}
}

func (s *reportService) setStatus(status models.ReportStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.lastErr = ""
	if err != nil {
		s.lastErr = err.Error()
	}
}

// Status 当前生成状态
func (s *reportService) Status() models.ReportStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// View 当前周报视图
func (s *reportService) View() ReportView {
	s.mu.RLock()
	status, lastErr := s.status, s.lastErr
	s.mu.RUnlock()
	return ReportView{
		Data:      s.store.Current(),
		Meta:      s.store.Meta(),
		Status:    status,
		LastError: lastErr,
	}
}

func (s *reportService) enter(gate *BusyGate, operation string, action audit.AuditAction) (func(), error) {
	release, err := gate.TryEnter()
	if err != nil {
		metrics.RecordBusyRejection(operation)
		s.audit.Reject(action, err.Error())
		return nil, err
	}
	return release, nil
}

// generationStatus 生成结果对应的指标标签
func generationStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, report.ErrParse):
		return "parse_error"
	case apperrors.CodeOf(err) == apperrors.AI_TIMEOUT:
		return "timeout"
	default:
		return "error"
	}
}

// errorCode 日志使用的错误码，非 ReportError 时按哨兵错误归类
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case apperrors.CodeOf(err) != "":
		return string(apperrors.CodeOf(err))
	case errors.Is(err, report.ErrParse):
		return report.ErrParse.Error()
	default:
		return "UNKNOWN"
	}
}

// Generate 根据看板生成周报
func (s *reportService) Generate(ctx context.Context) (*models.StructuredReportData, error) {
	week := s.board.Week(ctx)
	if !week.HasContent() {
		return nil, ErrNoTasks
	}

	release, err := s.enter(s.generateGate, OperationGenerate, audit.ActionGenerate)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	s.setStatus(models.ReportLoading, nil)

	data, err := s.generate(ctx, week)
	elapsed := time.Since(start)

	metrics.RecordGeneration(generationStatus(err), elapsed.Seconds())
	s.audit.Record(audit.ActionGenerate, "", elapsed, err, fmt.Sprintf("tasks=%d", len(week.AllTasks())))
	logger.LogReportEvent(ctx, s.log, "report", "generate", elapsed.Milliseconds(), errorCode(err))

	if err != nil {
		s.setStatus(models.ReportError, err)
		return nil, err
	}
	s.setStatus(models.ReportSuccess, nil)
	return data, nil
}

func (s *reportService) generate(ctx context.Context, week models.WeekData) (*models.StructuredReportData, error) {
	raw, err := s.ai.GenerateReport(ctx, week)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Load(raw)
	if err != nil {
		s.log.Warn("generated report could not be parsed", "error", err, "length", len(raw))
		return nil, err
	}
	return data, nil
}

// LoadRaw 解析外部 AI 文本
func (s *reportService) LoadRaw(ctx context.Context, raw string) (*models.StructuredReportData, error) {
	data, err := s.store.Load(raw)
	if err != nil {
		s.setStatus(models.ReportError, err)
		return nil, err
	}
	s.setStatus(models.ReportSuccess, nil)
	s.log.InfoContext(ctx, "report loaded from raw text", "length", len(raw))
	return data, nil
}

// UpdateField 编辑单个字段
func (s *reportService) UpdateField(ctx context.Context, section string, index int, subField, value string) (ReportView, error) {
	start := time.Now()
	resource := fmt.Sprintf("%s[%d].%s", section, index, subField)

	err := s.updateField(section, index, subField, value)
	s.audit.Record(audit.ActionFieldEdit, resource, time.Since(start), err, "")
	if err != nil {
		s.log.DebugContext(ctx, "field update rejected", "field", resource, "error", err)
		return ReportView{}, err
	}
	return s.View(), nil
}

func (s *reportService) updateField(section string, index int, subField, value string) error {
	if section == render.MetaSection {
		meta := s.store.Meta()
		switch subField {
		case render.MetaName:
			meta.Name = value
		case render.MetaRole:
			meta.Role = value
		case render.MetaSupervisor:
			meta.Supervisor = value
		case render.MetaDateRange:
			meta.DateRange = value
		default:
			return fmt.Errorf("%w: meta.%s", report.ErrUnknownSection, subField)
		}
		s.store.SetMeta(meta)
		return nil
	}

	sec, ok := report.ParseSection(section)
	if !ok {
		return fmt.Errorf("%w: %s", report.ErrUnknownSection, section)
	}
	_, err := s.store.Update(sec, index, subField, value)
	return err
}

// SetMeta 整体替换表头
func (s *reportService) SetMeta(_ context.Context, meta models.ReportMeta) models.ReportMeta {
	start := time.Now()
	s.store.SetMeta(meta)
	s.audit.Record(audit.ActionMetaUpdate, "", time.Since(start), nil, "")
	return meta
}

// Sheet 周报表格模型与主题样式
func (s *reportService) Sheet(themeName, primary string) (render.Sheet, render.Styles, error) {
	theme, err := s.palette.Resolve(themeName, primary)
	if err != nil {
		return render.Sheet{}, render.Styles{}, err
	}
	return render.BuildSheet(s.store.Current(), s.store.Meta()), render.ApplyTheme(theme), nil
}

// PlainText 纯文本摘要
func (s *reportService) PlainText() string {
	return report.PlainText(s.store.Current())
}

// refineStatus 润色结果对应的指标标签
func refineStatus(original, refined string, err error) string {
	switch {
	case err != nil:
		return "fallback"
	case strings.TrimSpace(original) == "":
		return "skipped"
	case refined == original:
		return "unchanged"
	default:
		return "success"
	}
}

// Refine 润色指定任务
func (s *reportService) Refine(ctx context.Context, day models.DayKey, taskID string) (*models.Task, error) {
	task, err := s.board.GetTask(ctx, day, taskID)
	if err != nil {
		return nil, err
	}

	release, err := s.enter(s.refineGate, OperationRefine, audit.ActionRefine)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	refined, aiErr := s.ai.RefineTaskContent(ctx, task.Content)
	elapsed := time.Since(start)

	metrics.RecordRefine(refineStatus(task.Content, refined, aiErr))
	s.audit.Record(audit.ActionRefine, taskID, elapsed, aiErr, "")
	if aiErr != nil {
		s.log.Warn("refine failed, task left unchanged", "task_id", taskID, "error", aiErr)
		return task, nil
	}
	if refined == task.Content {
		return task, nil
	}
	return s.board.UpdateTask(ctx, day, taskID, models.TaskPatch{Content: &refined})
}

// Export 导出 PDF
func (s *reportService) Export(ctx context.Context, themeName, primary string) ([]byte, error) {
	data := s.store.Current()
	if data == nil {
		return nil, report.ErrNoReport
	}
	theme, err := s.palette.Resolve(themeName, primary)
	if err != nil {
		return nil, err
	}

	release, err := s.enter(s.exportGate, OperationExport, audit.ActionExport)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	pdf, err := s.exporter.Export(ctx, export.Input{Data: data, Meta: s.store.Meta(), Theme: theme})
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = string(apperrors.CodeOf(err))
		if status == "" {
			status = string(apperrors.EXPORT_FAILED)
		}
	}
	metrics.RecordExport(status, len(pdf))
	s.audit.Record(audit.ActionExport, export.DefaultFileName, elapsed, err, "theme="+theme.Name)
	logger.LogReportEvent(ctx, s.log, "report", "export", elapsed.Milliseconds(), errorCode(err))
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// SaveDraft 保存看板草稿
func (s *reportService) SaveDraft(ctx context.Context) error {
	start := time.Now()
	err := s.drafts.Save(ctx, s.board.Week(ctx))
	s.audit.Record(audit.ActionDraftSave, draft.StorageKey, time.Since(start), err, "")
	if err != nil {
		s.log.Warn("draft save failed", "error", err)
	}
	return err
}

// LoadDraft 读取草稿并替换看板
func (s *reportService) LoadDraft(ctx context.Context) (models.WeekData, error) {
	start := time.Now()
	week, err := s.drafts.Load(ctx)
	s.audit.Record(audit.ActionDraftLoad, draft.StorageKey, time.Since(start), err, "")
	if err != nil {
		return nil, err
	}
	s.board.Replace(ctx, week)
	return s.board.Week(ctx), nil
}

// DraftExists 是否已有草稿
func (s *reportService) DraftExists(ctx context.Context) (bool, error) {
	return s.drafts.Exists(ctx)
}

// ClearAll 清空看板并重置周报
func (s *reportService) ClearAll(ctx context.Context) {
	s.board.Clear(ctx)
	s.store.Reset()
	s.setStatus(models.ReportIdle, nil)
}
