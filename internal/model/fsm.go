package model

// StateMachine 实体状态机：以 (当前状态, 动作) 查允许的下一状态。
// 所有状态转换守卫集中在此定义，Service 层不再散落 if status != ... 判断。
type StateMachine struct {
	transitions map[string]map[string]string // from → action → to
}

// Transition 一条允许的状态转换
type Transition struct {
	From   string
	Action string
	To     string
}

// NewStateMachine 由转换表构建状态机
func NewStateMachine(transitions []Transition) *StateMachine {
	m := &StateMachine{transitions: make(map[string]map[string]string)}
	for _, t := range transitions {
		if m.transitions[t.From] == nil {
			m.transitions[t.From] = make(map[string]string)
		}
		m.transitions[t.From][t.Action] = t.To
	}
	return m
}

// Next 返回 (当前状态, 动作) 对应的下一状态；不允许时 ok=false
func (m *StateMachine) Next(current, action string) (string, bool) {
	actions, ok := m.transitions[current]
	if !ok {
		return "", false
	}
	next, ok := actions[action]
	return next, ok
}

// Can 判断当前状态下动作是否允许
func (m *StateMachine) Can(current, action string) bool {
	_, ok := m.Next(current, action)
	return ok
}

// ── 班次实例 ──

const (
	ShiftStatusDraft     = "draft"
	ShiftStatusPublished = "published"
	ShiftStatusCancelled = "cancelled"

	ShiftActionPublish = "publish"
	ShiftActionCancel  = "cancel"
)

// ShiftInstanceFSM draft →(publish)→ published；draft/published →(cancel)→ cancelled
var ShiftInstanceFSM = NewStateMachine([]Transition{
	{From: ShiftStatusDraft, Action: ShiftActionPublish, To: ShiftStatusPublished},
	{From: ShiftStatusDraft, Action: ShiftActionCancel, To: ShiftStatusCancelled},
	{From: ShiftStatusPublished, Action: ShiftActionCancel, To: ShiftStatusCancelled},
})

// ── 排班分配 ──

const (
	AssignmentStatusActive        = "active"
	AssignmentStatusCancelled     = "cancelled"
	AssignmentStatusCompleted     = "completed"
	AssignmentStatusSwapRequested = "swap_requested"
	AssignmentStatusSwapped       = "swapped"

	AssignmentActionCancel   = "cancel"
	AssignmentActionComplete = "complete"
)

// AssignmentFSM active →(cancel)→ cancelled；active →(complete)→ completed
var AssignmentFSM = NewStateMachine([]Transition{
	{From: AssignmentStatusActive, Action: AssignmentActionCancel, To: AssignmentStatusCancelled},
	{From: AssignmentStatusActive, Action: AssignmentActionComplete, To: AssignmentStatusCompleted},
})

// ── 请假申请 ──

const (
	LeaveStatusPending   = "pending"
	LeaveStatusApproved  = "approved"
	LeaveStatusRejected  = "rejected"
	LeaveStatusCancelled = "cancelled"

	LeaveActionApprove = "approve"
	LeaveActionReject  = "reject"
	LeaveActionCancel  = "cancel"
)

// LeaveRequestFSM pending 之后的三个终态均不可再转换
var LeaveRequestFSM = NewStateMachine([]Transition{
	{From: LeaveStatusPending, Action: LeaveActionApprove, To: LeaveStatusApproved},
	{From: LeaveStatusPending, Action: LeaveActionReject, To: LeaveStatusRejected},
	{From: LeaveStatusPending, Action: LeaveActionCancel, To: LeaveStatusCancelled},
})

// ── 工时表 ──

const (
	TimesheetStatusDraft     = "draft"
	TimesheetStatusSubmitted = "submitted"
	TimesheetStatusApproved  = "approved"
	TimesheetStatusRejected  = "rejected"

	TimesheetActionSubmit  = "submit"
	TimesheetActionApprove = "approve"
	TimesheetActionReject  = "reject"
)

// TimesheetFSM draft →(submit)→ submitted →(approve/reject)→ approved/rejected
var TimesheetFSM = NewStateMachine([]Transition{
	{From: TimesheetStatusDraft, Action: TimesheetActionSubmit, To: TimesheetStatusSubmitted},
	{From: TimesheetStatusSubmitted, Action: TimesheetActionApprove, To: TimesheetStatusApproved},
	{From: TimesheetStatusSubmitted, Action: TimesheetActionReject, To: TimesheetStatusRejected},
})
