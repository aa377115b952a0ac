package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/repository"
)

// ── 测试辅助 ──

func setupTestScheduleService(t *testing.T) (ScheduleService, ShiftService, *repository.Repository) {
	t.Helper()
	repo := newTestRepository()

	repo.Location.(*mockLocationRepo).locations["loc-front"] = &model.Location{LocationID: "loc-front", Name: "前台"}

	staffRole := model.Role{RoleID: "role-staff", Name: model.RoleStaff}
	userRepo := repo.User.(*mockUserRepo)
	userRepo.users["user-a"] = &model.User{
		UserID: "user-a",
		Email:  "a@shiftcraft.dev",
		Name:   "员工甲",
		Status: model.UserStatusActive,
		Roles:  []model.Role{staffRole},
	}
	userRepo.users["user-b"] = &model.User{
		UserID: "user-b",
		Email:  "b@shiftcraft.dev",
		Name:   "员工乙",
		Status: model.UserStatusActive,
		Roles:  []model.Role{staffRole},
	}

	logger := zap.NewNop()
	return NewScheduleService(repo, logger), NewShiftService(repo, logger), repo
}

// seedInstance 建模板和实例，可选发布，返回实例 ID
func seedInstance(t *testing.T, shiftSvc ShiftService, name, date string, publish bool) string {
	t.Helper()
	ctx := context.Background()

	tpl, err := shiftSvc.CreateTemplate(ctx, &dto.CreateShiftTemplateRequest{
		Name:       name,
		LocationID: "loc-front",
		RoleID:     "role-staff",
		StartTime:  "09:00",
		EndTime:    "17:00",
	}, "user-mgr")
	if err != nil {
		t.Fatalf("CreateTemplate 应成功: %v", err)
	}

	inst, err := shiftSvc.CreateInstance(ctx, &dto.CreateShiftInstanceRequest{
		TemplateID: tpl.ID,
		ShiftDate:  date,
	}, "user-mgr")
	if err != nil {
		t.Fatalf("CreateInstance 应成功: %v", err)
	}

	if publish {
		if _, err := shiftSvc.PublishInstance(ctx, inst.ID, "user-mgr"); err != nil {
			t.Fatalf("PublishInstance 应成功: %v", err)
		}
	}
	return inst.ID
}

func mustAssign(t *testing.T, shiftSvc ShiftService, instanceID, userID string) {
	t.Helper()
	if _, err := shiftSvc.Assign(context.Background(), instanceID, &dto.AssignUserRequest{UserID: userID}, "user-mgr"); err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := parseDate(s)
	if err != nil {
		t.Fatalf("日期解析失败: %v", err)
	}
	return d
}

// ── WeeklySchedule 测试 ──

func TestScheduleService_WeeklySchedule_PublishedOnly(t *testing.T) {
	svc, shiftSvc, _ := setupTestScheduleService(t)

	publishedID := seedInstance(t, shiftSvc, "早班", "2026-09-07", false)
	mustAssign(t, shiftSvc, publishedID, "user-a")
	if _, err := shiftSvc.PublishInstance(context.Background(), publishedID, "user-mgr"); err != nil {
		t.Fatalf("发布应成功: %v", err)
	}
	seedInstance(t, shiftSvc, "晚班", "2026-09-08", false) // 草稿，不应出现

	// 以周三查询，仍应锚定到周一
	result, err := svc.WeeklySchedule(context.Background(), mustDate(t, "2026-09-09"))
	if err != nil {
		t.Fatalf("WeeklySchedule 应成功: %v", err)
	}
	if result.WeekStart != "2026-09-07" || result.WeekEnd != "2026-09-13" {
		t.Errorf("期望周区间 2026-09-07..2026-09-13，实际=%s..%s", result.WeekStart, result.WeekEnd)
	}
	if len(result.Days) != 7 {
		t.Fatalf("期望7天视图，实际=%d", len(result.Days))
	}

	monday := result.Days[0]
	if len(monday.Shifts) != 1 {
		t.Fatalf("期望周一有1个已发布班次，实际=%d", len(monday.Shifts))
	}
	if len(monday.Shifts[0].Assignments) != 1 {
		t.Errorf("期望班次含1条分配，实际=%d", len(monday.Shifts[0].Assignments))
	}

	tuesday := result.Days[1]
	if len(tuesday.Shifts) != 0 {
		t.Errorf("草稿班次不应出现在周视图，周二实际=%d个", len(tuesday.Shifts))
	}
}

func TestScheduleService_WeeklySchedule_IncludesApprovedLeave(t *testing.T) {
	svc, _, repo := setupTestScheduleService(t)

	leaveRepo := repo.LeaveRequest.(*mockLeaveRequestRepo)
	leaveRepo.requests["leave-1"] = &model.LeaveRequest{
		RequestID:   "leave-1",
		UserID:      "user-a",
		StartDate:   mustDate(t, "2026-09-08"),
		EndDate:     mustDate(t, "2026-09-09"),
		LeaveType:   model.LeaveTypeAnnual,
		Status:      model.LeaveStatusApproved,
		RequestedAt: time.Now(),
	}
	leaveRepo.requests["leave-2"] = &model.LeaveRequest{
		RequestID:   "leave-2",
		UserID:      "user-b",
		StartDate:   mustDate(t, "2026-09-10"),
		EndDate:     mustDate(t, "2026-09-11"),
		LeaveType:   model.LeaveTypeSick,
		Status:      model.LeaveStatusPending,
		RequestedAt: time.Now(),
	}

	result, err := svc.WeeklySchedule(context.Background(), mustDate(t, "2026-09-09"))
	if err != nil {
		t.Fatalf("WeeklySchedule 应成功: %v", err)
	}
	if len(result.Leave) != 1 {
		t.Fatalf("期望周视图含1条已批准请假，实际=%d", len(result.Leave))
	}
	if result.Leave[0].ID != "leave-1" || result.Leave[0].Status != model.LeaveStatusApproved {
		t.Errorf("期望已批准请假 leave-1，实际 id=%s status=%s",
			result.Leave[0].ID, result.Leave[0].Status)
	}
}

func TestScheduleService_WeeklySchedule_LeaveOutsideWeekExcluded(t *testing.T) {
	svc, _, repo := setupTestScheduleService(t)

	repo.LeaveRequest.(*mockLeaveRequestRepo).requests["leave-1"] = &model.LeaveRequest{
		RequestID:   "leave-1",
		UserID:      "user-a",
		StartDate:   mustDate(t, "2026-09-14"),
		EndDate:     mustDate(t, "2026-09-15"),
		LeaveType:   model.LeaveTypeAnnual,
		Status:      model.LeaveStatusApproved,
		RequestedAt: time.Now(),
	}

	result, err := svc.WeeklySchedule(context.Background(), mustDate(t, "2026-09-09"))
	if err != nil {
		t.Fatalf("WeeklySchedule 应成功: %v", err)
	}
	if len(result.Leave) != 0 {
		t.Errorf("下周请假不应出现在本周视图，实际=%d条", len(result.Leave))
	}
}

// ── UserWeeklySchedule 测试 ──

func TestScheduleService_UserWeeklySchedule(t *testing.T) {
	svc, shiftSvc, repo := setupTestScheduleService(t)

	instA := seedInstance(t, shiftSvc, "早班", "2026-09-07", false)
	mustAssign(t, shiftSvc, instA, "user-a")
	instB := seedInstance(t, shiftSvc, "晚班", "2026-09-08", false)
	mustAssign(t, shiftSvc, instB, "user-b") // 他人分配，不应出现

	repo.LeaveRequest.(*mockLeaveRequestRepo).requests["leave-1"] = &model.LeaveRequest{
		RequestID:   "leave-1",
		UserID:      "user-a",
		StartDate:   mustDate(t, "2026-09-11"),
		EndDate:     mustDate(t, "2026-09-11"),
		LeaveType:   model.LeaveTypeAnnual,
		Status:      model.LeaveStatusApproved,
		RequestedAt: time.Now(),
	}

	result, err := svc.UserWeeklySchedule(context.Background(), "user-a", mustDate(t, "2026-09-07"))
	if err != nil {
		t.Fatalf("UserWeeklySchedule 应成功: %v", err)
	}
	if result.User.ID != "user-a" {
		t.Errorf("期望用户 user-a，实际=%s", result.User.ID)
	}
	if len(result.Assignments) != 1 {
		t.Errorf("期望1条本人分配，实际=%d", len(result.Assignments))
	}
	if len(result.Leave) != 1 {
		t.Errorf("期望1条周内请假，实际=%d", len(result.Leave))
	}
}

func TestScheduleService_UserWeeklySchedule_UserNotFound(t *testing.T) {
	svc, _, _ := setupTestScheduleService(t)

	_, err := svc.UserWeeklySchedule(context.Background(), "user-ghost", mustDate(t, "2026-09-07"))
	if !errors.Is(err, ErrScheduleUserNotFound) {
		t.Errorf("期望 ErrScheduleUserNotFound，实际: %v", err)
	}
}

// ── Conflicts 测试 ──

func TestScheduleService_Conflicts_SameDayDoubleBooking(t *testing.T) {
	svc, shiftSvc, _ := setupTestScheduleService(t)

	// user-a 同日两个班次、次日一个班次
	inst1 := seedInstance(t, shiftSvc, "早班", "2026-09-07", false)
	inst2 := seedInstance(t, shiftSvc, "晚班", "2026-09-07", false)
	inst3 := seedInstance(t, shiftSvc, "次日班", "2026-09-08", false)
	mustAssign(t, shiftSvc, inst1, "user-a")
	mustAssign(t, shiftSvc, inst2, "user-a")
	mustAssign(t, shiftSvc, inst3, "user-a")

	result, err := svc.Conflicts(context.Background(), "user-a",
		mustDate(t, "2026-09-07"), mustDate(t, "2026-09-13"))
	if err != nil {
		t.Fatalf("Conflicts 应成功: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("期望1个冲突日，实际=%d", len(result))
	}
	if result[0].Date != "2026-09-07" {
		t.Errorf("期望冲突日期 2026-09-07，实际=%s", result[0].Date)
	}
	if len(result[0].Assignments) != 2 {
		t.Errorf("期望冲突日含2条分配，实际=%d", len(result[0].Assignments))
	}
}

func TestScheduleService_Conflicts_None(t *testing.T) {
	svc, shiftSvc, _ := setupTestScheduleService(t)

	inst := seedInstance(t, shiftSvc, "早班", "2026-09-07", false)
	mustAssign(t, shiftSvc, inst, "user-a")

	result, err := svc.Conflicts(context.Background(), "user-a",
		mustDate(t, "2026-09-07"), mustDate(t, "2026-09-13"))
	if err != nil {
		t.Fatalf("Conflicts 应成功: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("单日单分配不应产生冲突，实际=%d", len(result))
	}
}

// ── IsAvailable 测试 ──

func TestScheduleService_IsAvailable_Free(t *testing.T) {
	svc, _, _ := setupTestScheduleService(t)

	result, err := svc.IsAvailable(context.Background(), "user-a", mustDate(t, "2026-09-07"))
	if err != nil {
		t.Fatalf("IsAvailable 应成功: %v", err)
	}
	if !result.Available || result.Reason != "" {
		t.Errorf("空闲日期望可用且无原因，实际 available=%v reason=%s", result.Available, result.Reason)
	}
}

func TestScheduleService_IsAvailable_AlreadyAssigned(t *testing.T) {
	svc, shiftSvc, _ := setupTestScheduleService(t)

	inst := seedInstance(t, shiftSvc, "早班", "2026-09-07", false)
	mustAssign(t, shiftSvc, inst, "user-a")

	result, err := svc.IsAvailable(context.Background(), "user-a", mustDate(t, "2026-09-07"))
	if err != nil {
		t.Fatalf("IsAvailable 应成功: %v", err)
	}
	if result.Available || result.Reason != "already_assigned" {
		t.Errorf("当日有分配期望不可用 already_assigned，实际 available=%v reason=%s",
			result.Available, result.Reason)
	}
}

func TestScheduleService_IsAvailable_OnLeave(t *testing.T) {
	svc, _, repo := setupTestScheduleService(t)

	repo.LeaveRequest.(*mockLeaveRequestRepo).requests["leave-1"] = &model.LeaveRequest{
		RequestID:   "leave-1",
		UserID:      "user-a",
		StartDate:   mustDate(t, "2026-09-07"),
		EndDate:     mustDate(t, "2026-09-09"),
		LeaveType:   model.LeaveTypeAnnual,
		Status:      model.LeaveStatusApproved,
		RequestedAt: time.Now(),
	}

	result, err := svc.IsAvailable(context.Background(), "user-a", mustDate(t, "2026-09-08"))
	if err != nil {
		t.Fatalf("IsAvailable 应成功: %v", err)
	}
	if result.Available || result.Reason != "on_leave" {
		t.Errorf("已批准请假期望不可用 on_leave，实际 available=%v reason=%s",
			result.Available, result.Reason)
	}
}

func TestScheduleService_IsAvailable_PendingLeaveIgnored(t *testing.T) {
	svc, _, repo := setupTestScheduleService(t)

	repo.LeaveRequest.(*mockLeaveRequestRepo).requests["leave-1"] = &model.LeaveRequest{
		RequestID:   "leave-1",
		UserID:      "user-a",
		StartDate:   mustDate(t, "2026-09-07"),
		EndDate:     mustDate(t, "2026-09-09"),
		LeaveType:   model.LeaveTypeAnnual,
		Status:      model.LeaveStatusPending,
		RequestedAt: time.Now(),
	}

	result, err := svc.IsAvailable(context.Background(), "user-a", mustDate(t, "2026-09-08"))
	if err != nil {
		t.Fatalf("IsAvailable 应成功: %v", err)
	}
	if !result.Available {
		t.Error("待审批请假不应影响可用性")
	}
}

func TestScheduleService_IsAvailable_CancelledAssignmentIgnored(t *testing.T) {
	svc, shiftSvc, _ := setupTestScheduleService(t)
	ctx := context.Background()

	inst := seedInstance(t, shiftSvc, "早班", "2026-09-07", false)
	assignment, err := shiftSvc.Assign(ctx, inst, &dto.AssignUserRequest{UserID: "user-a"}, "user-mgr")
	if err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if _, err := shiftSvc.CancelAssignment(ctx, assignment.ID, &dto.CancelAssignmentRequest{}, "user-mgr"); err != nil {
		t.Fatalf("CancelAssignment 应成功: %v", err)
	}

	result, err := svc.IsAvailable(ctx, "user-a", mustDate(t, "2026-09-07"))
	if err != nil {
		t.Fatalf("IsAvailable 应成功: %v", err)
	}
	if !result.Available {
		t.Error("已取消分配不应影响可用性")
	}
}

// ── StaffAvailability 测试 ──

func TestScheduleService_StaffAvailability(t *testing.T) {
	svc, shiftSvc, _ := setupTestScheduleService(t)

	// user-a 周一有班，user-b 整周空闲
	inst := seedInstance(t, shiftSvc, "早班", "2026-09-07", false)
	mustAssign(t, shiftSvc, inst, "user-a")

	result, err := svc.StaffAvailability(context.Background(),
		mustDate(t, "2026-09-07"), mustDate(t, "2026-09-09"))
	if err != nil {
		t.Fatalf("StaffAvailability 应成功: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望2名员工，实际=%d", len(result))
	}
	if len(result["user-a"]) != 2 {
		t.Errorf("期望 user-a 可用2天，实际=%v", result["user-a"])
	}
	if len(result["user-b"]) != 3 {
		t.Errorf("期望 user-b 可用3天，实际=%v", result["user-b"])
	}
}
