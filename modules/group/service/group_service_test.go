package service

import (
	"context"
	"testing"

	"realite-api/core/errors"
	"realite-api/core/params"
	"realite-api/modules/group/dto"
	"realite-api/modules/group/entity"

	"github.com/google/uuid"
)

type fakeGroupRepo struct {
	groups  map[uuid.UUID]*entity.Group
	members map[uuid.UUID][]uuid.UUID
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:  make(map[uuid.UUID]*entity.Group),
		members: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeGroupRepo) CreateGroup(ctx context.Context, group *entity.Group) (*entity.Group, error) {
	created := *group
	created.ID = uuid.New()
	f.groups[created.ID] = &created
	return &created, nil
}

func (f *fakeGroupRepo) UpdateGroup(ctx context.Context, group *entity.Group, id uuid.UUID) error {
	existing := f.groups[id]
	existing.Name = group.Name
	existing.Description = group.Description
	return nil
}

func (f *fakeGroupRepo) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	delete(f.groups, id)
	return nil
}

func (f *fakeGroupRepo) GetGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	return f.groups[id], nil
}

func (f *fakeGroupRepo) GetGroups(ctx context.Context, params params.QueryParams) (*entity.PaginatedGroupResponse, error) {
	return &entity.PaginatedGroupResponse{}, nil
}

func (f *fakeGroupRepo) AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error {
	for _, id := range userIDs {
		already := false
		for _, existing := range f.members[groupID] {
			if existing == id {
				already = true
			}
		}
		if !already {
			f.members[groupID] = append(f.members[groupID], id)
		}
	}
	return nil
}

func (f *fakeGroupRepo) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	kept := f.members[groupID][:0]
	for _, id := range f.members[groupID] {
		if id != userID {
			kept = append(kept, id)
		}
	}
	f.members[groupID] = kept
	return nil
}

func (f *fakeGroupRepo) GetMembersByGroupID(ctx context.Context, groupID uuid.UUID) ([]entity.GroupMember, error) {
	members := make([]entity.GroupMember, 0, len(f.members[groupID]))
	for _, id := range f.members[groupID] {
		members = append(members, entity.GroupMember{GroupID: groupID, UserID: id})
	}
	return members, nil
}

func (f *fakeGroupRepo) GetGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Group, error) {
	var result []entity.Group
	for groupID, members := range f.members {
		for _, id := range members {
			if id == userID {
				result = append(result, *f.groups[groupID])
			}
		}
	}
	return result, nil
}

func (f *fakeGroupRepo) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	for _, id := range f.members[groupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func TestCreateGroupEnrollsOwner(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)
	ownerID := uuid.New()

	created, appErr := svc.CreateGroup(context.Background(), ownerID, &dto.GroupRequest{Name: "Climbing"})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	isMember, _ := repo.IsMember(context.Background(), created.ID, ownerID)
	if !isMember {
		t.Error("owner should be enrolled as a member on creation")
	}
	if created.OwnerID != ownerID {
		t.Errorf("owner id: got %s, want %s", created.OwnerID, ownerID)
	}
}

func TestAddMembersRequiresOwner(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)
	ownerID := uuid.New()

	created, _ := svc.CreateGroup(context.Background(), ownerID, &dto.GroupRequest{Name: "Climbing"})

	outsider := uuid.New()
	appErr := svc.AddMembers(context.Background(), created.ID, outsider, []uuid.UUID{uuid.New()})
	if appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Fatalf("expected forbidden for non-owner, got %v", appErr)
	}

	if appErr := svc.AddMembers(context.Background(), created.ID, ownerID, []uuid.UUID{uuid.New()}); appErr != nil {
		t.Fatalf("owner should be allowed to add members: %v", appErr)
	}
}

func TestRemoveMemberRules(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)
	ownerID := uuid.New()
	memberID := uuid.New()

	created, _ := svc.CreateGroup(context.Background(), ownerID, &dto.GroupRequest{Name: "Climbing"})
	svc.AddMembers(context.Background(), created.ID, ownerID, []uuid.UUID{memberID})

	// A member may not remove someone else.
	other := uuid.New()
	svc.AddMembers(context.Background(), created.ID, ownerID, []uuid.UUID{other})
	if appErr := svc.RemoveMember(context.Background(), created.ID, memberID, other); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Errorf("expected forbidden, got %v", appErr)
	}

	// A member may leave.
	if appErr := svc.RemoveMember(context.Background(), created.ID, memberID, memberID); appErr != nil {
		t.Errorf("member should be able to leave: %v", appErr)
	}

	// The owner cannot be removed.
	if appErr := svc.RemoveMember(context.Background(), created.ID, ownerID, ownerID); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("expected invalid input removing owner, got %v", appErr)
	}
}

func TestGetGroupRequiresMembership(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)
	ownerID := uuid.New()

	created, _ := svc.CreateGroup(context.Background(), ownerID, &dto.GroupRequest{Name: "Climbing"})

	if _, appErr := svc.GetGroupByID(context.Background(), created.ID, uuid.New()); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Errorf("expected forbidden for non-member, got %v", appErr)
	}

	detail, appErr := svc.GetGroupByID(context.Background(), created.ID, ownerID)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(detail.Members) != 1 {
		t.Errorf("expected 1 member, got %d", len(detail.Members))
	}
}
