package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/repository"
)

// ── 测试辅助 ──

func setupTestExportService(t *testing.T) (ExportService, ShiftService, *repository.Repository) {
	t.Helper()
	repo := newTestRepository()

	repo.Location.(*mockLocationRepo).locations["loc-front"] = &model.Location{LocationID: "loc-front", Name: "前台"}
	repo.User.(*mockUserRepo).users["user-a"] = &model.User{
		UserID: "user-a",
		Email:  "a@shiftcraft.dev",
		Name:   "员工甲",
		Status: model.UserStatusActive,
	}

	logger := zap.NewNop()
	return NewExportService(repo, logger), NewShiftService(repo, logger), repo
}

// ── ExportWeeklySchedule 测试 ──

func TestExportService_ExportWeeklySchedule_NoShifts(t *testing.T) {
	svc, _, _ := setupTestExportService(t)

	_, _, err := svc.ExportWeeklySchedule(context.Background(), mustDate(t, "2026-09-09"))
	if !errors.Is(err, ErrExportNoShifts) {
		t.Errorf("期望 ErrExportNoShifts，实际: %v", err)
	}
}

func TestExportService_ExportWeeklySchedule_DraftOnlyCountsAsEmpty(t *testing.T) {
	svc, shiftSvc, _ := setupTestExportService(t)

	// 仅草稿班次：导出仍视为无班次
	seedInstance(t, shiftSvc, "早班", "2026-09-07", false)

	_, _, err := svc.ExportWeeklySchedule(context.Background(), mustDate(t, "2026-09-07"))
	if !errors.Is(err, ErrExportNoShifts) {
		t.Errorf("期望 ErrExportNoShifts，实际: %v", err)
	}
}

func TestExportService_ExportWeeklySchedule_Success(t *testing.T) {
	svc, shiftSvc, _ := setupTestExportService(t)
	ctx := context.Background()

	instID := seedInstance(t, shiftSvc, "早班", "2026-09-07", false)
	if _, err := shiftSvc.Assign(ctx, instID, &dto.AssignUserRequest{UserID: "user-a"}, "user-mgr"); err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if _, err := shiftSvc.PublishInstance(ctx, instID, "user-mgr"); err != nil {
		t.Fatalf("PublishInstance 应成功: %v", err)
	}

	buf, filename, err := svc.ExportWeeklySchedule(ctx, mustDate(t, "2026-09-09"))
	if err != nil {
		t.Fatalf("ExportWeeklySchedule 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("期望非空 Excel 内容")
	}
	if filename != "周排班表_2026-09-07.xlsx" {
		t.Errorf("期望文件名锚定周一，实际=%s", filename)
	}

	// xlsx 本质是 zip，校验文件签名
	head := buf.Bytes()[:2]
	if head[0] != 'P' || head[1] != 'K' {
		t.Error("期望输出为合法 xlsx（PK 签名）")
	}
}
