package rmsvc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/caze"
)

type caseGroupDTO struct {
	ID                   uuid.UUID `json:"id"`
	PartyID              string    `json:"partyId"`
	CollectionExerciseID uuid.UUID `json:"collectionExerciseId"`
	SampleUnitRef        string    `json:"sampleUnitRef"`
	Status               string    `json:"caseGroupStatus"`
}

// CaseService talks to the case service.
type CaseService struct {
	client *client
}

var _ caze.Repository = (*CaseService)(nil)

func NewCaseService(conf *core.Config) *CaseService {
	return &CaseService{client: newClient(conf.RM.CaseURL, conf)}
}

func (svc *CaseService) GetCaseGroup(ctx context.Context, id uuid.UUID) (caze.CaseGroup, error) {
	var dto caseGroupDTO
	if err := svc.client.get(ctx, "/casegroups/"+id.String(), nil, &dto); err != nil {
		if isNotFound(err) {
			return caze.CaseGroup{}, caze.ErrNotFound
		}
		return caze.CaseGroup{}, errors.Wrap(err, "getting case group")
	}
	return dto.toCaseGroup(), nil
}

func (svc *CaseService) GetCaseGroupsByParty(ctx context.Context, partyID string) ([]caze.CaseGroup, error) {
	var dtos []caseGroupDTO
	if err := svc.client.get(ctx, "/casegroups/partyid/"+partyID, nil, &dtos); err != nil {
		if isNotFound(err) {
			return nil, nil // party has no cases
		}
		return nil, errors.Wrap(err, "listing case groups")
	}
	groups := make([]caze.CaseGroup, 0, len(dtos))
	for _, dto := range dtos {
		groups = append(groups, dto.toCaseGroup())
	}
	return groups, nil
}

func (svc *CaseService) GetAvailableTransitions(ctx context.Context, caseGroupID uuid.UUID) (map[string]caze.Status, error) {
	var raw map[string]string
	if err := svc.client.get(ctx, "/casegroups/transitions/"+caseGroupID.String(), nil, &raw); err != nil {
		if isNotFound(err) {
			return nil, caze.ErrNotFound
		}
		return nil, errors.Wrap(err, "getting case group transitions")
	}
	transitions := make(map[string]caze.Status, len(raw))
	for event, status := range raw {
		transitions[event] = caze.Status(status)
	}
	return transitions, nil
}

func (svc *CaseService) ApplyTransition(ctx context.Context, caseGroupID uuid.UUID, event string) error {
	// the case service keys the status change off the latest case in the group
	path := fmt.Sprintf("/casegroups/transitions/%s", caseGroupID)
	in := struct {
		Event string `json:"event"`
	}{Event: event}
	if err := svc.client.put(ctx, path, in, nil); err != nil {
		if isNotFound(err) {
			return caze.ErrNotFound
		}
		return errors.Wrap(err, "applying case group transition")
	}
	return nil
}

func (dto caseGroupDTO) toCaseGroup() caze.CaseGroup {
	return caze.CaseGroup{
		ID:                   dto.ID,
		PartyID:              dto.PartyID,
		CollectionExerciseID: dto.CollectionExerciseID,
		SampleUnitRef:        dto.SampleUnitRef,
		Status:               caze.Status(dto.Status),
	}
}
