package approval_test

import (
	"errors"
	"testing"
	"time"

	"go-offboard/internal/approval"
	"go-offboard/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestTemplateRegistryValidation(t *testing.T) {
	base := func() approval.Template { return chainTemplate() }

	cases := []struct {
		name   string
		mutate func(*approval.Template)
	}{
		{"missing id", func(tpl *approval.Template) { tpl.ID = "" }},
		{"missing name", func(tpl *approval.Template) { tpl.Name = "" }},
		{"no levels", func(tpl *approval.Template) { tpl.Levels = nil }},
		{"level numbering gap", func(tpl *approval.Template) { tpl.Levels[1].Level = 5 }},
		{"level without approvers", func(tpl *approval.Template) { tpl.Levels[0].Approvers = nil }},
		{"quorum below one", func(tpl *approval.Template) { tpl.Levels[0].RequiredApprovals = 0 }},
		{"quorum above population", func(tpl *approval.Template) { tpl.Levels[0].RequiredApprovals = 9 }},
		{"unknown level type", func(tpl *approval.Template) { tpl.Levels[0].Type = "round-robin" }},
		{"timeout without target", func(tpl *approval.Template) {
			tpl.Levels[0].EscalationTimeHours = 4
			tpl.Levels[0].EscalateTo = ""
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := approval.NewMemoryTemplateRegistry()
			tpl := base()
			tc.mutate(&tpl)

			err := reg.Register(tpl)
			assert.Error(t, err)

			var appErr *apperror.AppError
			assert.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
		})
	}
}

func TestTemplateRegistryIsolation(t *testing.T) {
	reg := approval.NewMemoryTemplateRegistry()
	tpl := chainTemplate()
	assert.NoError(t, reg.Register(tpl))

	// Mutating the caller's copy after registration must not reach the store.
	tpl.Levels[0].Approvers[0].ID = "tampered"

	got, ok := reg.Get("chain")
	assert.True(t, ok)
	assert.Equal(t, "hr-1", got.Levels[0].Approvers[0].ID)
}

func TestRequestStore(t *testing.T) {
	store := approval.NewMemoryRequestStore()

	r1 := &approval.Request{ID: "r1", SessionID: "s1", Status: approval.StatusPending, RequestedAt: time.Now()}
	r2 := &approval.Request{ID: "r2", SessionID: "s1", Status: approval.StatusApproved, RequestedAt: time.Now()}
	r3 := &approval.Request{ID: "r3", SessionID: "s2", Status: approval.StatusPending, RequestedAt: time.Now()}

	store.Save(r1)
	store.Save(r2)
	store.Save(r3)

	got, ok := store.Get("r2")
	assert.True(t, ok)
	assert.Equal(t, "r2", got.ID)

	_, ok = store.Get("missing")
	assert.False(t, ok)

	bySession := store.BySession("s1")
	assert.Len(t, bySession, 2)

	all := store.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "r1", all[0].ID)
	assert.Equal(t, "r3", all[2].ID)

	// Re-saving an existing request must not duplicate session membership.
	store.Save(r1)
	assert.Len(t, store.BySession("s1"), 2)
}

func TestPendingIndex(t *testing.T) {
	idx := approval.NewMemoryPendingIndex()

	idx.Add("a", "r1")
	idx.Add("a", "r2")
	idx.Add("b", "r1")
	idx.Add("a", "r1") // duplicate, ignored

	assert.Equal(t, []string{"r1", "r2"}, idx.ListFor("a"))
	assert.Equal(t, []string{"r1"}, idx.ListFor("b"))

	idx.Remove("a", "r1")
	assert.Equal(t, []string{"r2"}, idx.ListFor("a"))
	assert.Equal(t, []string{"r1"}, idx.ListFor("b"))

	idx.Remove("a", "missing")
	assert.Equal(t, []string{"r2"}, idx.ListFor("a"))

	idx.Add("b", "r2")
	idx.RemoveRequest("r2")
	assert.Empty(t, idx.ListFor("a"))
	assert.Equal(t, []string{"r1"}, idx.ListFor("b"))

	assert.Empty(t, idx.ListFor("nobody"))
}
