package approval

func toApproverResponse(a Approver) ApproverResponse {
	return ApproverResponse{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Role:       a.Role,
		DelegateTo: a.DelegateTo,
	}
}

func toLevelResponse(l Level) LevelResponse {
	approvers := make([]ApproverResponse, 0, len(l.Approvers))
	for _, a := range l.Approvers {
		approvers = append(approvers, toApproverResponse(a))
	}
	return LevelResponse{
		Level:               l.Level,
		Approvers:           approvers,
		RequiredApprovals:   l.RequiredApprovals,
		Type:                l.Type,
		EscalationTimeHours: l.EscalationTimeHours,
		EscalateTo:          l.EscalateTo,
	}
}

func toActionResponse(a Action) ActionResponse {
	return ActionResponse{
		ID:           a.ID,
		ApproverID:   a.ApproverID,
		ApproverName: a.ApproverName,
		Action:       a.Action,
		Timestamp:    a.Timestamp,
		Level:        a.Level,
		Comments:     a.Comments,
	}
}

func toRequestResponse(r *Request) ApprovalRequestResponse {
	levels := make([]LevelResponse, 0, len(r.Levels))
	for _, l := range r.Levels {
		levels = append(levels, toLevelResponse(l))
	}

	history := make([]ActionResponse, 0, len(r.History))
	for _, a := range r.History {
		history = append(history, toActionResponse(a))
	}

	return ApprovalRequestResponse{
		ID:           r.ID,
		SessionID:    r.SessionID,
		TaskID:       r.TaskID,
		TaskName:     r.TaskName,
		RequestedBy:  r.RequestedBy,
		RequestedAt:  r.RequestedAt,
		CurrentLevel: r.CurrentLevel,
		TotalLevels:  len(r.Levels),
		Status:       r.Status,
		Reason:       r.Reason,
		Levels:       levels,
		History:      history,
		Metadata:     r.Metadata,
	}
}

func toTemplateResponse(t Template) TemplateResponse {
	levels := make([]LevelResponse, 0, len(t.Levels))
	for _, l := range t.Levels {
		levels = append(levels, toLevelResponse(l))
	}
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Department:  t.Department,
		TaskType:    t.TaskType,
		Levels:      levels,
	}
}
