package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/repository"
)

// ── 测试辅助 ──

func setupTestUserService() (UserService, *repository.Repository) {
	repo := newTestRepository()
	svc := NewUserService(repo, zap.NewNop())
	return svc, repo
}

// ── Create 测试 ──

func TestUserService_Create_Success(t *testing.T) {
	svc, repo := setupTestUserService()

	req := &dto.CreateUserRequest{
		Email:    "alice@shiftcraft.dev",
		Password: "secret-pass-1",
		Name:     "Alice",
		Roles:    []string{model.RoleManager},
	}

	result, err := svc.Create(context.Background(), req, "user-admin")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Email != req.Email || result.Name != req.Name {
		t.Errorf("期望 %s/%s，实际=%s/%s", req.Email, req.Name, result.Email, result.Name)
	}
	if result.Status != model.UserStatusActive {
		t.Errorf("期望新用户默认 active，实际=%s", result.Status)
	}
	if len(result.Roles) != 1 || result.Roles[0] != model.RoleManager {
		t.Errorf("期望角色 [manager]，实际=%v", result.Roles)
	}

	// 口令以 bcrypt 散列存储，可反向校验
	stored := repo.User.(*mockUserRepo).users[result.ID]
	if stored.PasswordHash == req.Password {
		t.Error("口令不应明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(req.Password)); err != nil {
		t.Errorf("散列应能校验原口令: %v", err)
	}
}

func TestUserService_Create_DefaultStaffRole(t *testing.T) {
	svc, _ := setupTestUserService()

	result, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Email:    "bob@shiftcraft.dev",
		Password: "secret-pass-1",
		Name:     "Bob",
	}, "user-admin")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if len(result.Roles) != 1 || result.Roles[0] != model.RoleStaff {
		t.Errorf("未指定角色时期望默认 [staff]，实际=%v", result.Roles)
	}
}

func TestUserService_Create_EmailExists(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	req := &dto.CreateUserRequest{
		Email:    "alice@shiftcraft.dev",
		Password: "secret-pass-1",
		Name:     "Alice",
	}
	if _, err := svc.Create(ctx, req, "user-admin"); err != nil {
		t.Fatalf("首次 Create 应成功: %v", err)
	}

	_, err := svc.Create(ctx, req, "user-admin")
	if !errors.Is(err, ErrUserEmailExists) {
		t.Errorf("期望 ErrUserEmailExists，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestUserService_Update_ReplacesRoles(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{
		Email:    "alice@shiftcraft.dev",
		Password: "secret-pass-1",
		Name:     "Alice",
	}, "user-admin")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	newStatus := model.UserStatusSuspended
	result, err := svc.Update(ctx, created.ID, &dto.UpdateUserRequest{
		Status: &newStatus,
		Roles:  []string{model.RoleAdmin, model.RoleManager},
	}, "user-admin")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Status != model.UserStatusSuspended {
		t.Errorf("期望状态 suspended，实际=%s", result.Status)
	}
	if len(result.Roles) != 2 {
		t.Errorf("期望角色整体替换为2个，实际=%v", result.Roles)
	}
	// 未传字段保持不变
	if result.Name != "Alice" {
		t.Errorf("期望名称不变，实际=%s", result.Name)
	}
}

func TestUserService_Update_UnknownRole(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{
		Email:    "alice@shiftcraft.dev",
		Password: "secret-pass-1",
		Name:     "Alice",
	}, "user-admin")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	_, err = svc.Update(ctx, created.ID, &dto.UpdateUserRequest{
		Roles: []string{"superuser"},
	}, "user-admin")
	if !errors.Is(err, ErrUserRoleUnknown) {
		t.Errorf("期望 ErrUserRoleUnknown，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestUserService_Delete_Success(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{
		Email:    "alice@shiftcraft.dev",
		Password: "secret-pass-1",
		Name:     "Alice",
	}, "user-admin")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	if err := svc.Delete(ctx, created.ID, "user-admin"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}

	_, err = svc.GetByID(ctx, created.ID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("删除后查询期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_Delete_Self(t *testing.T) {
	svc, _ := setupTestUserService()

	err := svc.Delete(context.Background(), "user-admin", "user-admin")
	if !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("期望 ErrUserSelfDelete，实际: %v", err)
	}
}

// ── AssignSkill 测试 ──

func TestUserService_AssignSkill_Success(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{
		Email:    "alice@shiftcraft.dev",
		Password: "secret-pass-1",
		Name:     "Alice",
	}, "user-admin")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	skill, err := svc.CreateSkill(ctx, &dto.CreateSkillRequest{Name: "收银", Category: "前台"}, "user-admin")
	if err != nil {
		t.Fatalf("CreateSkill 应成功: %v", err)
	}

	result, err := svc.AssignSkill(ctx, created.ID, &dto.AssignSkillRequest{SkillID: skill.ID, Level: 3}, "user-admin")
	if err != nil {
		t.Fatalf("AssignSkill 应成功: %v", err)
	}
	if len(result.Skills) != 1 || result.Skills[0].SkillID != skill.ID || result.Skills[0].Level != 3 {
		t.Errorf("期望技能 %s 等级3，实际=%v", skill.ID, result.Skills)
	}
}

func TestUserService_AssignSkill_UpsertLevel(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{
		Email:    "alice@shiftcraft.dev",
		Password: "secret-pass-1",
		Name:     "Alice",
	}, "user-admin")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	skill, err := svc.CreateSkill(ctx, &dto.CreateSkillRequest{Name: "收银"}, "user-admin")
	if err != nil {
		t.Fatalf("CreateSkill 应成功: %v", err)
	}

	if _, err := svc.AssignSkill(ctx, created.ID, &dto.AssignSkillRequest{SkillID: skill.ID, Level: 1}, "user-admin"); err != nil {
		t.Fatalf("首次 AssignSkill 应成功: %v", err)
	}
	result, err := svc.AssignSkill(ctx, created.ID, &dto.AssignSkillRequest{SkillID: skill.ID, Level: 5}, "user-admin")
	if err != nil {
		t.Fatalf("重复 AssignSkill 应按更新处理: %v", err)
	}
	if len(result.Skills) != 1 {
		t.Fatalf("重复绑定不应新增记录，实际=%d条", len(result.Skills))
	}
	if result.Skills[0].Level != 5 {
		t.Errorf("期望等级更新为5，实际=%d", result.Skills[0].Level)
	}
}

func TestUserService_AssignSkill_SkillNotFound(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{
		Email:    "alice@shiftcraft.dev",
		Password: "secret-pass-1",
		Name:     "Alice",
	}, "user-admin")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	_, err = svc.AssignSkill(ctx, created.ID, &dto.AssignSkillRequest{SkillID: "skill-ghost"}, "user-admin")
	if !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("期望 ErrSkillNotFound，实际: %v", err)
	}
}

// ── 目录查询测试 ──

func TestUserService_ListRoles(t *testing.T) {
	svc, _ := setupTestUserService()

	roles, err := svc.ListRoles(context.Background())
	if err != nil {
		t.Fatalf("ListRoles 应成功: %v", err)
	}
	if len(roles) != 3 {
		t.Errorf("期望3个基础角色，实际=%d", len(roles))
	}
}

func TestUserService_List_FilterByStatus(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	a, err := svc.Create(ctx, &dto.CreateUserRequest{Email: "a@shiftcraft.dev", Password: "secret-pass-1", Name: "员工甲"}, "user-admin")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if _, err := svc.Create(ctx, &dto.CreateUserRequest{Email: "b@shiftcraft.dev", Password: "secret-pass-1", Name: "员工乙"}, "user-admin"); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	suspended := model.UserStatusSuspended
	if _, err := svc.Update(ctx, a.ID, &dto.UpdateUserRequest{Status: &suspended}, "user-admin"); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	active, err := svc.List(ctx, model.UserStatusActive)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("期望1个 active 用户，实际=%d", len(active))
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("期望全部2个用户，实际=%d", len(all))
	}
}
