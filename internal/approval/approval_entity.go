package approval

import (
	"time"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusEscalated = "escalated"
)

const (
	ActionApproved  = "approved"
	ActionRejected  = "rejected"
	ActionDelegated = "delegated"
	ActionEscalated = "escalated"
)

// Level combination modes. Both require RequiredApprovals approvals from the
// level's approver set; the distinction is advisory for callers and UIs.
const (
	LevelSequential = "sequential"
	LevelParallel   = "parallel"
)

// Approver is a value snapshot inside a level. Template levels are treated as
// immutable; request levels are private copies that delegation may mutate.
type Approver struct {
	ID         string
	Name       string
	Email      string
	Role       string
	DelegateTo string
}

// Level is one stage of an approval chain.
type Level struct {
	Level             int
	Approvers         []Approver
	RequiredApprovals int
	Type              string

	// A level without an escalation target never auto-escalates,
	// regardless of elapsed time.
	EscalationTimeHours float64
	EscalateTo          string
}

func (l Level) Clone() Level {
	out := l
	out.Approvers = make([]Approver, len(l.Approvers))
	copy(out.Approvers, l.Approvers)
	return out
}

// Template is a reusable, named level chain, optionally scoped to a
// department or task type. Immutable once registered.
type Template struct {
	ID          string
	Name        string
	Description string
	Department  string
	TaskType    string
	Levels      []Level
}

// CloneLevels deep-copies the chain so requests never share approver slices
// with the template or with each other.
func (t Template) CloneLevels() []Level {
	levels := make([]Level, len(t.Levels))
	for i, l := range t.Levels {
		levels[i] = l.Clone()
	}
	return levels
}

// Action is an immutable audit record. ApproverName is a snapshot taken at
// action time so later identity changes do not rewrite history.
type Action struct {
	ID                string
	ApprovalRequestID string
	ApproverID        string
	ApproverName      string
	Action            string
	Timestamp         time.Time
	Level             int
	Comments          string
}

// Request is a live instance of a template bound to one offboarding task.
type Request struct {
	ID          string
	SessionID   string
	TaskID      string
	TaskName    string
	RequestedBy string
	RequestedAt time.Time

	// CurrentLevel is a 1-based index into Levels. CurrentLevel > len(Levels)
	// only when Status is approved.
	CurrentLevel int
	Status       string
	Reason       string

	Levels   []Level
	History  []Action
	Metadata map[string]string
}

func (r *Request) IsTerminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// levelAt returns the level with the given 1-based ordinal, or nil.
func (r *Request) levelAt(n int) *Level {
	if n < 1 || n > len(r.Levels) {
		return nil
	}
	return &r.Levels[n-1]
}

func (r *Request) currentLevelSpec() *Level {
	return r.levelAt(r.CurrentLevel)
}

// eligibleApprover resolves approverID against a level: direct membership,
// or being the delegation target of a member. Returns the matched member.
func eligibleApprover(level *Level, approverID string) *Approver {
	for i := range level.Approvers {
		a := &level.Approvers[i]
		if a.ID == approverID || (a.DelegateTo != "" && a.DelegateTo == approverID) {
			return a
		}
	}
	return nil
}

// isEscalationTarget reports whether approverID gained eligibility through
// an escalation of the current level. The grant lasts only while the status
// is escalated; once the level completes the target drops out again.
func isEscalationTarget(r *Request, level *Level, approverID string) bool {
	return r.Status == StatusEscalated && level.EscalateTo != "" && level.EscalateTo == approverID
}

// approvedCountAt counts distinct approvers with an approved action recorded
// at the given level. Approvals from before an escalation still count.
func (r *Request) approvedCountAt(level int) int {
	seen := make(map[string]struct{})
	for _, action := range r.History {
		if action.Action == ActionApproved && action.Level == level {
			seen[action.ApproverID] = struct{}{}
		}
	}
	return len(seen)
}

func (r *Request) hasApprovedAt(approverID string, level int) bool {
	for _, action := range r.History {
		if action.Action == ActionApproved && action.Level == level && action.ApproverID == approverID {
			return true
		}
	}
	return false
}
