package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoShifts     = errors.New("该周暂无已发布班次")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出给定日期所在周（周一至周日）的已发布班次及其生效分配
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportWeeklySchedule 导出周排班表为 Excel
	ExportWeeklySchedule(ctx context.Context, dateInWeek time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportWeeklySchedule — 导出周排班表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "周排班表"
//   - 行：已发布班次实例（按日期 + 开始时间排序）
//   - 列：日期 | 星期 | 班次 | 时间 | 地点 | 人员
//   - 人员：该实例的所有生效分配用户名，顿号分隔

func (s *exportService) ExportWeeklySchedule(ctx context.Context, dateInWeek time.Time) (*bytes.Buffer, string, error) {
	start := weekStart(dateInWeek)
	end := start.AddDate(0, 0, 6)

	// 1. 查询周内已发布班次
	instances, err := s.repo.ShiftInstance.ListInRange(ctx, start, end,
		[]string{model.ShiftStatusPublished})
	if err != nil {
		s.logger.Error("查询周内班次失败", zap.Error(err))
		return nil, "", err
	}
	if len(instances) == 0 {
		return nil, "", ErrExportNoShifts
	}

	// 2. 查询周内生效分配，按实例分组
	assignments, err := s.repo.Assignment.ListActiveInRange(ctx, start, end)
	if err != nil {
		s.logger.Error("查询周内分配失败", zap.Error(err))
		return nil, "", err
	}
	namesByInstance := make(map[string][]string)
	for _, a := range assignments {
		if a.User != nil {
			namesByInstance[a.InstanceID] = append(namesByInstance[a.InstanceID], a.User.Name)
		}
	}

	// 3. 排序：日期 + 模板开始时间
	sort.Slice(instances, func(i, j int) bool {
		if !instances[i].ShiftDate.Equal(instances[j].ShiftDate) {
			return instances[i].ShiftDate.Before(instances[j].ShiftDate)
		}
		si, sj := "", ""
		if instances[i].Template != nil {
			si = instances[i].Template.StartTime
		}
		if instances[j].Template != nil {
			sj = instances[j].Template.StartTime
		}
		return si < sj
	})

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "周排班表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 8)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 16)
	f.SetColWidth(sheetName, "F", "F", 30)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1",
		fmt.Sprintf("周排班表 %s ~ %s", start.Format(dateLayout), end.Format(dateLayout)))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"日期", "星期", "班次", "时间", "地点", "人员"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	dayNames := map[time.Weekday]string{
		time.Monday: "周一", time.Tuesday: "周二", time.Wednesday: "周三",
		time.Thursday: "周四", time.Friday: "周五", time.Saturday: "周六", time.Sunday: "周日",
	}

	// 数据行
	row := 3
	for i := range instances {
		inst := &instances[i]
		f.SetCellValue(sheetName, cell("A", row), inst.ShiftDate.Format(dateLayout))
		f.SetCellValue(sheetName, cell("B", row), dayNames[inst.ShiftDate.Weekday()])

		name, timeRange, location := "-", "-", "-"
		if inst.Template != nil {
			name = inst.Template.Name
			timeRange = fmt.Sprintf("%s-%s", inst.Template.StartTime, inst.Template.EndTime)
			if inst.Template.Location != nil {
				location = inst.Template.Location.Name
			}
		}
		f.SetCellValue(sheetName, cell("C", row), name)
		f.SetCellValue(sheetName, cell("D", row), timeRange)
		f.SetCellValue(sheetName, cell("E", row), location)

		names := namesByInstance[inst.InstanceID]
		if len(names) == 0 {
			f.SetCellValue(sheetName, cell("F", row), "未分配")
		} else {
			f.SetCellValue(sheetName, cell("F", row), strings.Join(names, "、"))
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("周排班表_%s.xlsx", start.Format(dateLayout))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
