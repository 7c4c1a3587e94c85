package approver

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// seedApprovers is the canonical directory used by fresh installations.
// Two approvers per decision-heavy role so either-or and unanimous template
// levels have a real population.
var seedApprovers = []Approver{
	{Name: "Sarah Chen", Email: "sarah.chen@example.com", Role: RoleHR},
	{Name: "Daniel Okafor", Email: "daniel.okafor@example.com", Role: RoleHR},
	{Name: "Priya Nair", Email: "priya.nair@example.com", Role: RoleIT},
	{Name: "Tomas Eriksen", Email: "tomas.eriksen@example.com", Role: RoleIT},
	{Name: "Laura Bianchi", Email: "laura.bianchi@example.com", Role: RoleLegal},
	{Name: "Miguel Santos", Email: "miguel.santos@example.com", Role: RoleFinance},
	{Name: "Anne Dubois", Email: "anne.dubois@example.com", Role: RoleManager},
	{Name: "James Whitfield", Email: "james.whitfield@example.com", Role: RoleExecutive},
}

// EnsureSeed inserts the canonical directory when the table is empty and
// returns the full directory either way.
func EnsureSeed(ctx context.Context, repo Repository, logger ...*zap.Logger) ([]Approver, error) {
	l := zap.L().Named("approver.seed")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approver.seed")
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		for _, a := range seedApprovers {
			a.ID = uuid.New()
			if err := repo.Create(ctx, &a); err != nil {
				return nil, err
			}
		}
		l.Info("approver directory seeded", zap.Int("count", len(seedApprovers)))
	}

	return repo.FindAll(ctx)
}
