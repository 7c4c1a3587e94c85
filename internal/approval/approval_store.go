package approval

import (
	"fmt"
	"sync"

	approvalerrors "go-offboard/internal/approval/errors"

	"go-offboard/internal/shared/apperror"
)

//go:generate mockgen -source=approval_store.go -destination=mock/approval_store_mock.go -package=mock

// TemplateRegistry is the read-mostly store of named level chains.
type TemplateRegistry interface {
	Register(t Template) error
	Get(id string) (Template, bool)
	// List filters by department and task type; empty arguments match all.
	List(department, taskType string) []Template
}

// RequestStore owns every approval request ever created. Requests are never
// deleted, only queried historically.
type RequestStore interface {
	Save(r *Request)
	Get(id string) (*Request, bool)
	BySession(sessionID string) []*Request
	// All returns every request in creation order. The store lock guards
	// only the collection; callers must take the request lock before
	// reading or writing a request's mutable fields.
	All() []*Request
}

// PendingIndex is the derived per-approver view of outstanding decisions.
// The engine keeps it consistent on every transition.
type PendingIndex interface {
	Add(approverID, requestID string)
	Remove(approverID, requestID string)
	RemoveRequest(requestID string)
	ListFor(approverID string) []string
}

type memoryTemplateRegistry struct {
	mu        sync.RWMutex
	templates map[string]Template
	order     []string
}

func NewMemoryTemplateRegistry() TemplateRegistry {
	return &memoryTemplateRegistry{
		templates: make(map[string]Template),
	}
}

func invalidTemplate(format string, args ...any) error {
	e := approvalerrors.ErrInvalidTemplate
	return apperror.Wrap(fmt.Errorf(format, args...), e.Code, e.Message, e.HTTPStatus)
}

func validateTemplate(t Template) error {
	if t.ID == "" || t.Name == "" {
		return invalidTemplate("template id and name are required")
	}
	if len(t.Levels) == 0 {
		return invalidTemplate("template %s has no levels", t.ID)
	}
	for i, l := range t.Levels {
		if l.Level != i+1 {
			return invalidTemplate("template %s levels must be numbered 1..N without gaps", t.ID)
		}
		if len(l.Approvers) == 0 {
			return invalidTemplate("template %s level %d has no approvers", t.ID, l.Level)
		}
		if l.RequiredApprovals < 1 || l.RequiredApprovals > len(l.Approvers) {
			return invalidTemplate("template %s level %d requires %d approvals but has %d approvers",
				t.ID, l.Level, l.RequiredApprovals, len(l.Approvers))
		}
		if l.Type != LevelSequential && l.Type != LevelParallel {
			return invalidTemplate("template %s level %d has unknown type %q", t.ID, l.Level, l.Type)
		}
		if l.EscalationTimeHours > 0 && l.EscalateTo == "" {
			return invalidTemplate("template %s level %d sets a timeout without an escalation target", t.ID, l.Level)
		}
	}
	return nil
}

func (s *memoryTemplateRegistry) Register(t Template) error {
	if err := validateTemplate(t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	// Store a private copy so later mutations by the caller cannot reach in.
	t.Levels = t.CloneLevels()
	s.templates[t.ID] = t
	return nil
}

func (s *memoryTemplateRegistry) Get(id string) (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	return t, ok
}

func (s *memoryTemplateRegistry) List(department, taskType string) []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Template, 0, len(s.order))
	for _, id := range s.order {
		t := s.templates[id]
		if department != "" && t.Department != "" && t.Department != department {
			continue
		}
		if taskType != "" && t.TaskType != "" && t.TaskType != taskType {
			continue
		}
		out = append(out, t)
	}
	return out
}

type memoryRequestStore struct {
	mu        sync.RWMutex
	requests  map[string]*Request
	order     []string
	bySession map[string][]string
}

func NewMemoryRequestStore() RequestStore {
	return &memoryRequestStore{
		requests:  make(map[string]*Request),
		bySession: make(map[string][]string),
	}
}

func (s *memoryRequestStore) Save(r *Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.requests[r.ID]; !exists {
		s.order = append(s.order, r.ID)
		s.bySession[r.SessionID] = append(s.bySession[r.SessionID], r.ID)
	}
	s.requests[r.ID] = r
}

func (s *memoryRequestStore) Get(id string) (*Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	return r, ok
}

func (s *memoryRequestStore) BySession(sessionID string) []*Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.bySession[sessionID]
	out := make([]*Request, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.requests[id])
	}
	return out
}

func (s *memoryRequestStore) All() []*Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Request, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.requests[id])
	}
	return out
}

type memoryPendingIndex struct {
	mu         sync.RWMutex
	byApprover map[string][]string
}

func NewMemoryPendingIndex() PendingIndex {
	return &memoryPendingIndex{
		byApprover: make(map[string][]string),
	}
}

func (s *memoryPendingIndex) Add(approverID, requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byApprover[approverID] {
		if id == requestID {
			return
		}
	}
	s.byApprover[approverID] = append(s.byApprover[approverID], requestID)
}

func (s *memoryPendingIndex) Remove(approverID, requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(approverID, requestID)
}

func (s *memoryPendingIndex) removeLocked(approverID, requestID string) {
	ids := s.byApprover[approverID]
	for i, id := range ids {
		if id == requestID {
			s.byApprover[approverID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

func (s *memoryPendingIndex) RemoveRequest(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for approverID := range s.byApprover {
		s.removeLocked(approverID, requestID)
	}
}

func (s *memoryPendingIndex) ListFor(approverID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byApprover[approverID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
