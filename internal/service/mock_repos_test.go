package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.Version == 0 {
		user.Version = 1
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, status string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if status != "" && u.Status != status {
			continue
		}
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, roleName string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Status == model.UserStatusActive && u.HasRole(roleName) {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	user.Version++
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ReplaceRoles(_ context.Context, user *model.User, roles []model.Role) error {
	user.Roles = roles
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpsertSkill(_ context.Context, skill *model.UserSkill) error {
	u, ok := m.users[skill.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range u.Skills {
		if u.Skills[i].SkillID == skill.SkillID {
			u.Skills[i].Level = skill.Level
			return nil
		}
	}
	u.Skills = append(u.Skills, *skill)
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	roles map[string]*model.Role
}

func newMockRoleRepo() *mockRoleRepo {
	m := &mockRoleRepo{roles: make(map[string]*model.Role)}
	for _, name := range []string{model.RoleAdmin, model.RoleManager, model.RoleStaff} {
		m.roles["role-"+name] = &model.Role{RoleID: "role-" + name, Name: name}
	}
	return m
}

func (m *mockRoleRepo) GetByID(_ context.Context, id string) (*model.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) GetByName(_ context.Context, name string) (*model.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) List(_ context.Context) ([]model.Role, error) {
	var result []model.Role
	for _, r := range m.roles {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock SkillRepository ──

type mockSkillRepo struct {
	skills map[string]*model.Skill
	seq    int
}

func newMockSkillRepo() *mockSkillRepo {
	return &mockSkillRepo{skills: make(map[string]*model.Skill)}
}

func (m *mockSkillRepo) Create(_ context.Context, skill *model.Skill) error {
	if skill.SkillID == "" {
		m.seq++
		skill.SkillID = fmt.Sprintf("skill-%d", m.seq)
	}
	m.skills[skill.SkillID] = skill
	return nil
}

func (m *mockSkillRepo) GetByID(_ context.Context, id string) (*model.Skill, error) {
	if s, ok := m.skills[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSkillRepo) List(_ context.Context) ([]model.Skill, error) {
	var result []model.Skill
	for _, s := range m.skills {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSkillRepo) GetByIDs(_ context.Context, ids []string) ([]model.Skill, error) {
	var result []model.Skill
	for _, id := range ids {
		if s, ok := m.skills[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	locations map[string]*model.Location
	seq       int
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]*model.Location)}
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if loc.LocationID == "" {
		m.seq++
		loc.LocationID = fmt.Sprintf("loc-%d", m.seq)
	}
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if l, ok := m.locations[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context) ([]model.Location, error) {
	var result []model.Location
	for _, l := range m.locations {
		result = append(result, *l)
	}
	return result, nil
}

func (m *mockLocationRepo) Update(_ context.Context, loc *model.Location) error {
	m.locations[loc.LocationID] = loc
	return nil
}

// ── Mock ShiftTemplateRepository ──

type mockShiftTemplateRepo struct {
	templates map[string]*model.ShiftTemplate
	seq       int
}

func newMockShiftTemplateRepo() *mockShiftTemplateRepo {
	return &mockShiftTemplateRepo{templates: make(map[string]*model.ShiftTemplate)}
}

func (m *mockShiftTemplateRepo) Create(_ context.Context, tpl *model.ShiftTemplate) error {
	if tpl.TemplateID == "" {
		m.seq++
		tpl.TemplateID = fmt.Sprintf("tpl-%d", m.seq)
	}
	if tpl.Version == 0 {
		tpl.Version = 1
	}
	m.templates[tpl.TemplateID] = tpl
	return nil
}

func (m *mockShiftTemplateRepo) GetByID(_ context.Context, id string) (*model.ShiftTemplate, error) {
	if t, ok := m.templates[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftTemplateRepo) List(_ context.Context, includeInactive bool) ([]model.ShiftTemplate, error) {
	var result []model.ShiftTemplate
	for _, t := range m.templates {
		if !includeInactive && !t.IsActive {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockShiftTemplateRepo) ListByLocation(_ context.Context, locationID string) ([]model.ShiftTemplate, error) {
	var result []model.ShiftTemplate
	for _, t := range m.templates {
		if t.LocationID == locationID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockShiftTemplateRepo) Update(_ context.Context, tpl *model.ShiftTemplate) error {
	tpl.Version++
	m.templates[tpl.TemplateID] = tpl
	return nil
}

func (m *mockShiftTemplateRepo) ReplaceRequiredSkills(_ context.Context, tpl *model.ShiftTemplate, skills []model.Skill) error {
	tpl.RequiredSkills = skills
	m.templates[tpl.TemplateID] = tpl
	return nil
}

func (m *mockShiftTemplateRepo) Deactivate(_ context.Context, id string, _ string) error {
	t, ok := m.templates[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.IsActive = false
	return nil
}

// ── Mock ShiftInstanceRepository ──

type mockShiftInstanceRepo struct {
	instances map[string]*model.ShiftInstance
	templates *mockShiftTemplateRepo
	seq       int
}

func newMockShiftInstanceRepo(templates *mockShiftTemplateRepo) *mockShiftInstanceRepo {
	return &mockShiftInstanceRepo{
		instances: make(map[string]*model.ShiftInstance),
		templates: templates,
	}
}

func (m *mockShiftInstanceRepo) Create(_ context.Context, inst *model.ShiftInstance) error {
	if inst.InstanceID == "" {
		m.seq++
		inst.InstanceID = fmt.Sprintf("inst-%d", m.seq)
	}
	if inst.Version == 0 {
		inst.Version = 1
	}
	m.instances[inst.InstanceID] = inst
	return nil
}

func (m *mockShiftInstanceRepo) GetByID(_ context.Context, id string) (*model.ShiftInstance, error) {
	if i, ok := m.instances[id]; ok {
		m.hydrate(i)
		return i, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftInstanceRepo) GetByTemplateAndDate(_ context.Context, templateID string, date time.Time) (*model.ShiftInstance, error) {
	for _, i := range m.instances {
		if i.TemplateID == templateID && i.ShiftDate.Equal(date) {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftInstanceRepo) ListInRange(_ context.Context, start, end time.Time, statuses []string) ([]model.ShiftInstance, error) {
	var result []model.ShiftInstance
	for _, i := range m.instances {
		if i.ShiftDate.Before(start) || i.ShiftDate.After(end) {
			continue
		}
		if len(statuses) > 0 && !containsString(statuses, i.Status) {
			continue
		}
		m.hydrate(i)
		result = append(result, *i)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].ShiftDate.Before(result[b].ShiftDate) })
	return result, nil
}

func (m *mockShiftInstanceRepo) Update(_ context.Context, inst *model.ShiftInstance) error {
	inst.Version++
	m.instances[inst.InstanceID] = inst
	return nil
}

func (m *mockShiftInstanceRepo) hydrate(inst *model.ShiftInstance) {
	if inst.Template == nil && m.templates != nil {
		if t, ok := m.templates.templates[inst.TemplateID]; ok {
			inst.Template = t
		}
	}
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	instances   *mockShiftInstanceRepo
	users       *mockUserRepo
	seq         int
}

func newMockAssignmentRepo(instances *mockShiftInstanceRepo, users *mockUserRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.Assignment),
		instances:   instances,
		users:       users,
	}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	if a.AssignmentID == "" {
		m.seq++
		a.AssignmentID = fmt.Sprintf("assign-%d", m.seq)
	}
	if a.Version == 0 {
		a.Version = 1
	}
	m.assignments[a.AssignmentID] = a
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		m.hydrate(a)
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByInstance(_ context.Context, instanceID string, activeOnly bool) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.InstanceID != instanceID {
			continue
		}
		if activeOnly && a.Status != model.AssignmentStatusActive {
			continue
		}
		m.hydrate(a)
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAssignmentRepo) CountActiveByInstance(ctx context.Context, instanceID string) (int64, error) {
	active, err := m.ListByInstance(ctx, instanceID, true)
	return int64(len(active)), err
}

func (m *mockAssignmentRepo) ListByUserInRange(_ context.Context, userID string, start, end time.Time, statuses []string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.UserID != userID {
			continue
		}
		m.hydrate(a)
		if a.Instance == nil || a.Instance.ShiftDate.Before(start) || a.Instance.ShiftDate.After(end) {
			continue
		}
		if len(statuses) > 0 && !containsString(statuses, a.Status) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Instance.ShiftDate.Before(result[j].Instance.ShiftDate)
	})
	return result, nil
}

func (m *mockAssignmentRepo) ListActiveInRange(_ context.Context, start, end time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.Status != model.AssignmentStatusActive {
			continue
		}
		m.hydrate(a)
		if a.Instance == nil || a.Instance.ShiftDate.Before(start) || a.Instance.ShiftDate.After(end) {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.Assignment) error {
	a.Version++
	m.assignments[a.AssignmentID] = a
	return nil
}

func (m *mockAssignmentRepo) hydrate(a *model.Assignment) {
	if a.Instance == nil && m.instances != nil {
		if i, ok := m.instances.instances[a.InstanceID]; ok {
			m.instances.hydrate(i)
			a.Instance = i
		}
	}
	if a.User == nil && m.users != nil {
		if u, ok := m.users.users[a.UserID]; ok {
			a.User = u
		}
	}
}

// ── Mock LeaveRequestRepository ──

type mockLeaveRequestRepo struct {
	requests map[string]*model.LeaveRequest
	seq      int
}

func newMockLeaveRequestRepo() *mockLeaveRequestRepo {
	return &mockLeaveRequestRepo{requests: make(map[string]*model.LeaveRequest)}
}

func (m *mockLeaveRequestRepo) Create(_ context.Context, req *model.LeaveRequest) error {
	if req.RequestID == "" {
		m.seq++
		req.RequestID = fmt.Sprintf("leave-%d", m.seq)
	}
	if req.Version == 0 {
		req.Version = 1
	}
	m.requests[req.RequestID] = req
	return nil
}

func (m *mockLeaveRequestRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRequestRepo) ListByUser(_ context.Context, userID string) ([]model.LeaveRequest, error) {
	var result []model.LeaveRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockLeaveRequestRepo) ListPending(_ context.Context) ([]model.LeaveRequest, error) {
	var result []model.LeaveRequest
	for _, r := range m.requests {
		if r.Status == model.LeaveStatusPending {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestedAt.Before(result[j].RequestedAt) })
	return result, nil
}

func (m *mockLeaveRequestRepo) ListByStatus(_ context.Context, status string) ([]model.LeaveRequest, error) {
	var result []model.LeaveRequest
	for _, r := range m.requests {
		if r.Status == status {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestedAt.Before(result[j].RequestedAt) })
	return result, nil
}

func (m *mockLeaveRequestRepo) ListUserLeaveInPeriod(_ context.Context, userID string, start, end time.Time) ([]model.LeaveRequest, error) {
	var result []model.LeaveRequest
	for _, r := range m.requests {
		if r.UserID != userID {
			continue
		}
		if r.Status != model.LeaveStatusPending && r.Status != model.LeaveStatusApproved {
			continue
		}
		if r.Overlaps(start, end) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockLeaveRequestRepo) ListApprovedInPeriod(_ context.Context, start, end time.Time) ([]model.LeaveRequest, error) {
	var result []model.LeaveRequest
	for _, r := range m.requests {
		if r.Status == model.LeaveStatusApproved && r.Overlaps(start, end) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockLeaveRequestRepo) Update(_ context.Context, req *model.LeaveRequest) error {
	req.Version++
	m.requests[req.RequestID] = req
	return nil
}

// ── Mock TimesheetRepository ──

type mockTimesheetRepo struct {
	timesheets map[string]*model.Timesheet
	entries    *mockTimesheetEntryRepo
	seq        int
}

func newMockTimesheetRepo(entries *mockTimesheetEntryRepo) *mockTimesheetRepo {
	return &mockTimesheetRepo{
		timesheets: make(map[string]*model.Timesheet),
		entries:    entries,
	}
}

func (m *mockTimesheetRepo) Create(_ context.Context, ts *model.Timesheet) error {
	if ts.TimesheetID == "" {
		m.seq++
		ts.TimesheetID = fmt.Sprintf("ts-%d", m.seq)
	}
	if ts.Version == 0 {
		ts.Version = 1
	}
	m.timesheets[ts.TimesheetID] = ts
	return nil
}

func (m *mockTimesheetRepo) GetByID(ctx context.Context, id string) (*model.Timesheet, error) {
	ts, ok := m.timesheets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if m.entries != nil {
		entries, _ := m.entries.ListByTimesheet(ctx, id)
		ts.Entries = entries
	}
	return ts, nil
}

func (m *mockTimesheetRepo) GetByUserAndPeriod(ctx context.Context, userID string, periodStart, periodEnd time.Time) (*model.Timesheet, error) {
	for id, ts := range m.timesheets {
		if ts.UserID == userID && ts.PeriodStart.Equal(periodStart) && ts.PeriodEnd.Equal(periodEnd) {
			return m.GetByID(ctx, id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimesheetRepo) ListByUser(_ context.Context, userID string) ([]model.Timesheet, error) {
	var result []model.Timesheet
	for _, ts := range m.timesheets {
		if ts.UserID == userID {
			result = append(result, *ts)
		}
	}
	return result, nil
}

func (m *mockTimesheetRepo) ListByStatus(_ context.Context, status string) ([]model.Timesheet, error) {
	var result []model.Timesheet
	for _, ts := range m.timesheets {
		if ts.Status == status {
			result = append(result, *ts)
		}
	}
	return result, nil
}

func (m *mockTimesheetRepo) Update(_ context.Context, ts *model.Timesheet) error {
	ts.Version++
	m.timesheets[ts.TimesheetID] = ts
	return nil
}

// ── Mock TimesheetEntryRepository ──

type mockTimesheetEntryRepo struct {
	entries map[string]*model.TimesheetEntry
	seq     int
}

func newMockTimesheetEntryRepo() *mockTimesheetEntryRepo {
	return &mockTimesheetEntryRepo{entries: make(map[string]*model.TimesheetEntry)}
}

func (m *mockTimesheetEntryRepo) Create(_ context.Context, entry *model.TimesheetEntry) error {
	if entry.EntryID == "" {
		m.seq++
		entry.EntryID = fmt.Sprintf("entry-%d", m.seq)
	}
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockTimesheetEntryRepo) BatchCreate(ctx context.Context, entries []model.TimesheetEntry) error {
	for i := range entries {
		if err := m.Create(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockTimesheetEntryRepo) GetByID(_ context.Context, id string) (*model.TimesheetEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimesheetEntryRepo) ListByTimesheet(_ context.Context, timesheetID string) ([]model.TimesheetEntry, error) {
	var result []model.TimesheetEntry
	for _, e := range m.entries {
		if e.TimesheetID == timesheetID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].WorkDate.Equal(result[j].WorkDate) {
			return result[i].WorkDate.Before(result[j].WorkDate)
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockTimesheetEntryRepo) Update(_ context.Context, entry *model.TimesheetEntry) error {
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockTimesheetEntryRepo) DeleteByTimesheet(_ context.Context, timesheetID string) error {
	for id, e := range m.entries {
		if e.TimesheetID == timesheetID {
			delete(m.entries, id)
		}
	}
	return nil
}

// ── 测试用 Repository 聚合 ──

func newTestRepository() *repository.Repository {
	users := newMockUserRepo()
	templates := newMockShiftTemplateRepo()
	instances := newMockShiftInstanceRepo(templates)
	entries := newMockTimesheetEntryRepo()

	return &repository.Repository{
		User:           users,
		Role:           newMockRoleRepo(),
		Skill:          newMockSkillRepo(),
		Location:       newMockLocationRepo(),
		ShiftTemplate:  templates,
		ShiftInstance:  instances,
		Assignment:     newMockAssignmentRepo(instances, users),
		LeaveRequest:   newMockLeaveRequestRepo(),
		Timesheet:      newMockTimesheetRepo(entries),
		TimesheetEntry: entries,
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
