package engine

import (
	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
)

func (e *Engine) foundConsortium(actor *player.Player, cmd FoundConsortium) *Error {
	st := e.state
	pr := st.projectByID(cmd.ProjectID)
	if pr == nil {
		return failf(FailIllegalTarget, "unknown project %q", cmd.ProjectID)
	}
	if pr.Completed {
		return failf(FailIllegalTarget, "%s is already completed", pr.Def.Name)
	}
	if pr.DirectorID != "" {
		return failf(FailIllegalTarget, "%s already has a director", pr.Def.Name)
	}
	idx := actor.FirstHandOfKind(card.HandConsortium)
	if idx < 0 {
		return failf(FailCardNotInHand, "no consortium charter in hand")
	}
	if err := e.payPA(actor, player.SubFoundProject); err != nil {
		return err
	}

	charter := actor.RemoveHandCard(idx)
	st.DiscardPile = append(st.DiscardPile, charter)
	pr.DirectorID = actor.ID
	pr.Members = []string{actor.ID}
	actor.FoundedConsortium = true
	actor.FoundedThisRound = true
	actor.AddActivity(rules.ActivityConsortiumFound)

	e.emit(events.GameEvent{
		Type:    events.EventConsortiumFounded,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"project_id":   pr.Def.ID,
			"project_name": pr.Def.Name,
		},
	})
	return nil
}

func (e *Engine) requestJoin(actor *player.Player, cmd RequestJoin) *Error {
	pr := e.state.projectByID(cmd.ProjectID)
	if pr == nil {
		return failf(FailIllegalTarget, "unknown project %q", cmd.ProjectID)
	}
	if pr.Completed || pr.DirectorID == "" {
		return failf(FailIllegalTarget, "%s is not accepting members", pr.Def.Name)
	}
	if pr.IsMember(actor.ID) || pr.IsPending(actor.ID) {
		return failf(FailIllegalTarget, "already part of %s", pr.Def.Name)
	}

	pr.Pending = append(pr.Pending, actor.ID)
	e.emit(events.GameEvent{
		Type:     events.EventConsortiumJoinRequest,
		ActorID:  actor.ID,
		TargetID: pr.DirectorID,
		Payload:  map[string]interface{}{"project_id": pr.Def.ID},
	})
	return nil
}

func (e *Engine) approveJoin(actor *player.Player, cmd ApproveJoin) *Error {
	pr, err := e.directedProject(actor, cmd.ProjectID)
	if err != nil {
		return err
	}
	if !removePending(pr, cmd.ApplicantID) {
		return failf(FailIllegalTarget, "%q has no application for %s", cmd.ApplicantID, pr.Def.Name)
	}
	pr.Members = append(pr.Members, cmd.ApplicantID)
	e.emit(events.GameEvent{
		Type:     events.EventConsortiumJoinApprove,
		ActorID:  actor.ID,
		TargetID: cmd.ApplicantID,
		Payload:  map[string]interface{}{"project_id": pr.Def.ID},
	})
	return nil
}

func (e *Engine) rejectJoin(actor *player.Player, cmd RejectJoin) *Error {
	pr, err := e.directedProject(actor, cmd.ProjectID)
	if err != nil {
		return err
	}
	if !removePending(pr, cmd.ApplicantID) {
		return failf(FailIllegalTarget, "%q has no application for %s", cmd.ApplicantID, pr.Def.Name)
	}
	e.emit(events.GameEvent{
		Type:     events.EventConsortiumJoinReject,
		ActorID:  actor.ID,
		TargetID: cmd.ApplicantID,
		Payload:  map[string]interface{}{"project_id": pr.Def.ID},
	})
	return nil
}

func (e *Engine) contribute(actor *player.Player, cmd Contribute) *Error {
	pr := e.state.projectByID(cmd.ProjectID)
	if pr == nil {
		return failf(FailIllegalTarget, "unknown project %q", cmd.ProjectID)
	}
	if pr.Completed {
		return failf(FailIllegalTarget, "%s is already completed", pr.Def.Name)
	}
	if !pr.IsMember(actor.ID) {
		return failf(FailConsortiumRequirement, "not a member of %s", pr.Def.Name)
	}
	if cmd.Amount <= 0 {
		return failf(FailIllegalTarget, "contribution must be positive")
	}
	switch cmd.What {
	case ContributePB:
		if actor.Research < cmd.Amount {
			return failf(FailInsufficientResources, "have %d PB, need %d", actor.Research, cmd.Amount)
		}
	case ContributeCredits:
		if actor.Credits < cmd.Amount {
			return failf(FailInsufficientResources, "have %d credits, need %d", actor.Credits, cmd.Amount)
		}
	default:
		return failf(FailIllegalTarget, "unknown contribution kind %q", cmd.What)
	}
	if err := e.payPA(actor, player.SubContribute); err != nil {
		return err
	}

	switch cmd.What {
	case ContributePB:
		actor.Research -= cmd.Amount
		pr.ContributedPB += cmd.Amount
	case ContributeCredits:
		actor.Credits -= cmd.Amount
		pr.ContributedCredits += cmd.Amount
	}

	e.emit(events.GameEvent{
		Type:    events.EventConsortiumContributed,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"project_id": pr.Def.ID,
			"kind":       string(cmd.What),
			"amount":     cmd.Amount,
			"pool_pb":    pr.ContributedPB,
			"pool_cred":  pr.ContributedCredits,
		},
	})
	return nil
}

func (e *Engine) completeConsortium(actor *player.Player, cmd CompleteConsortium) *Error {
	pr, err := e.directedProject(actor, cmd.ProjectID)
	if err != nil {
		return err
	}
	if ferr := e.projectCompletable(pr); ferr != nil {
		return ferr
	}
	e.payoutProject(pr)
	return nil
}

// projectCompletable verifies the pooled thresholds and the director-side
// requirements of a large project.
func (e *Engine) projectCompletable(pr *Project) *Error {
	req := pr.Def.Requirements
	if pr.ContributedPB < req.PB {
		return failf(FailConsortiumRequirement,
			"%s needs %d PB, pool holds %d", pr.Def.Name, req.PB, pr.ContributedPB)
	}
	if pr.ContributedCredits < req.Credits {
		return failf(FailConsortiumRequirement,
			"%s needs %d credits, pool holds %d", pr.Def.Name, req.Credits, pr.ContributedCredits)
	}
	director := e.state.playerByID(pr.DirectorID)
	if director == nil {
		return failf(FailConsortiumRequirement, "%s has no director", pr.Def.Name)
	}
	if len(director.Completed) < req.CompletedResearch {
		return failf(FailConsortiumRequirement,
			"director needs %d completed research", req.CompletedResearch)
	}
	if req.NeedsProfessor && !director.HasProfessor() {
		return failf(FailConsortiumRequirement, "director must employ a professor")
	}
	for _, field := range req.FieldConstraints {
		if director.CompletedInField(field) == 0 {
			return failf(FailConsortiumRequirement,
				"director needs completed research in %s", field)
		}
	}
	return nil
}

// payoutProject applies the director and member rewards exactly once and
// counts the completion towards the shared victory condition.
func (e *Engine) payoutProject(pr *Project) {
	st := e.state
	for _, id := range pr.Members {
		member := st.playerByID(id)
		if member == nil {
			continue
		}
		if id == pr.DirectorID {
			creditReward(member, pr.Def.DirectorReward)
		} else {
			creditReward(member, pr.Def.MemberReward)
		}
	}
	pr.Completed = true
	pr.Pending = nil
	st.ProjectsCompleted++

	e.emit(events.GameEvent{
		Type:    events.EventConsortiumCompleted,
		ActorID: pr.DirectorID,
		Payload: map[string]interface{}{
			"project_id":       pr.Def.ID,
			"project_name":     pr.Def.Name,
			"members":          pr.Members,
			"total_completed":  st.ProjectsCompleted,
			"director_reward":  rewardPayload(pr.Def.DirectorReward),
			"member_reward":    rewardPayload(pr.Def.MemberReward),
		},
	})
	e.logger.Event("CONSORTIUM_COMPLETED", pr.DirectorID, "Delivered "+pr.Def.Name)
}

func (e *Engine) directedProject(actor *player.Player, projectID string) (*Project, *Error) {
	pr := e.state.projectByID(projectID)
	if pr == nil {
		return nil, failf(FailIllegalTarget, "unknown project %q", projectID)
	}
	if pr.Completed {
		return nil, failf(FailIllegalTarget, "%s is already completed", pr.Def.Name)
	}
	if pr.DirectorID != actor.ID {
		return nil, failf(FailIllegalTarget, "only the director of %s may do that", pr.Def.Name)
	}
	return pr, nil
}

func removePending(pr *Project, applicantID string) bool {
	for i, id := range pr.Pending {
		if id == applicantID {
			pr.Pending = append(pr.Pending[:i], pr.Pending[i+1:]...)
			return true
		}
	}
	return false
}
