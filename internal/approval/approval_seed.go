package approval

import (
	"fmt"

	"go.uber.org/zap"
)

// Canonical offboarding templates registered on boot. Approver slots are
// filled from the live directory so seeded chains reference real people.
const (
	TemplateStandardOffboard = "offboard-standard"
	TemplateAssetRecovery    = "offboard-asset-recovery"
	TemplateAccessRevoke     = "offboard-access-revoke"
)

// SeedTemplates builds the canonical chains from the directory and registers
// them. The directory must contain at least one HR, Manager, Executive and
// Finance approver and two IT approvers.
func SeedTemplates(reg TemplateRegistry, directory []Approver, logger ...*zap.Logger) error {
	l := zap.L().Named("approval.seed")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.seed")
	}

	byRole := make(map[string][]Approver)
	for _, a := range directory {
		byRole[a.Role] = append(byRole[a.Role], a)
	}

	pick := func(role string, n int) ([]Approver, error) {
		pool := byRole[role]
		if len(pool) < n {
			return nil, fmt.Errorf("directory has %d %s approvers, need %d", len(pool), role, n)
		}
		return pool[:n], nil
	}

	hr, err := pick("HR", 1)
	if err != nil {
		return err
	}
	manager, err := pick("Manager", 1)
	if err != nil {
		return err
	}
	executive, err := pick("Executive", 1)
	if err != nil {
		return err
	}
	finance, err := pick("Finance", 1)
	if err != nil {
		return err
	}
	it, err := pick("IT", 2)
	if err != nil {
		return err
	}

	templates := []Template{
		{
			ID:          TemplateStandardOffboard,
			Name:        "Standard Offboarding",
			Description: "HR, manager and IT sign off in sequence before the employee record is closed",
			TaskType:    "offboard",
			Levels: []Level{
				{
					Level:               1,
					Approvers:           []Approver{hr[0]},
					RequiredApprovals:   1,
					Type:                LevelSequential,
					EscalationTimeHours: 24,
					EscalateTo:          executive[0].ID,
				},
				{
					Level:               2,
					Approvers:           []Approver{manager[0]},
					RequiredApprovals:   1,
					Type:                LevelSequential,
					EscalationTimeHours: 24,
					EscalateTo:          executive[0].ID,
				},
				{
					Level:               3,
					Approvers:           []Approver{it[0]},
					RequiredApprovals:   1,
					Type:                LevelSequential,
					EscalationTimeHours: 48,
					EscalateTo:          executive[0].ID,
				},
			},
		},
		{
			ID:          TemplateAssetRecovery,
			Name:        "Asset Recovery",
			Description: "IT and Finance must both confirm hardware return and final expense settlement",
			Department:  "Finance",
			TaskType:    "asset_recovery",
			Levels: []Level{
				{
					Level:               1,
					Approvers:           []Approver{it[0], finance[0]},
					RequiredApprovals:   2,
					Type:                LevelParallel,
					EscalationTimeHours: 72,
					EscalateTo:          executive[0].ID,
				},
			},
		},
		{
			ID:          TemplateAccessRevoke,
			Name:        "Access Revocation",
			Description: "Any one IT approver confirms accounts and credentials are revoked",
			Department:  "IT",
			TaskType:    "access_revoke",
			Levels: []Level{
				{
					Level:             1,
					Approvers:         []Approver{it[0], it[1]},
					RequiredApprovals: 1,
					Type:              LevelParallel,
				},
			},
		},
	}

	for _, t := range templates {
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("register template %s: %w", t.ID, err)
		}
	}

	l.Info("approval templates seeded", zap.Int("count", len(templates)))
	return nil
}
