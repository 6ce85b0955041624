package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"realite-api/core/database"
	"realite-api/core/logger"
	"realite-api/core/params"
	"realite-api/modules/group/entity"

	"github.com/google/uuid"
)

type GroupRepository interface {
	CreateGroup(ctx context.Context, group *entity.Group) (*entity.Group, error)
	UpdateGroup(ctx context.Context, group *entity.Group, id uuid.UUID) error
	DeleteGroup(ctx context.Context, id uuid.UUID) error
	GetGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)
	GetGroups(ctx context.Context, params params.QueryParams) (*entity.PaginatedGroupResponse, error)
	AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	GetMembersByGroupID(ctx context.Context, groupID uuid.UUID) ([]entity.GroupMember, error)
	GetGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Group, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

type groupRepository struct {
	DB database.Database
}

func NewGroupRepository(db database.Database) GroupRepository {
	return &groupRepository{DB: db}
}

func (r *groupRepository) CreateGroup(ctx context.Context, group *entity.Group) (*entity.Group, error) {
	query := `
		INSERT INTO groups (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, owner_id, created_at, updated_at
	`
	var created entity.Group
	err := r.DB.GetContext(ctx, &created, query, group.Name, group.Description, group.OwnerID)
	if err != nil {
		logger.Error("GroupRepository:CreateGroup", err)
		return nil, err
	}
	return &created, nil
}

func (r *groupRepository) UpdateGroup(ctx context.Context, group *entity.Group, id uuid.UUID) error {
	query := `
		UPDATE groups
		SET name = $1, description = $2, updated_at = now()
		WHERE id = $3
	`
	result, err := r.DB.SQLx().ExecContext(ctx, query, group.Name, group.Description, id)
	if err != nil {
		logger.Error("GroupRepository:UpdateGroup", err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Error("GroupRepository:UpdateGroup - RowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("group with id %s not found", id)
	}
	return nil
}

func (r *groupRepository) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM groups
		WHERE id = $1
	`
	if _, err := r.DB.SQLx().ExecContext(ctx, query, id); err != nil {
		logger.Error("GroupRepository:DeleteGroup", err)
		return err
	}
	return nil
}

func (r *groupRepository) GetGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	var group entity.Group
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM groups
		WHERE id = $1
	`
	err := r.DB.GetContext(ctx, &group, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("GroupRepository:GetGroupByID", err)
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetGroups(ctx context.Context, params params.QueryParams) (*entity.PaginatedGroupResponse, error) {
	offset := (params.PageNumber - 1) * params.PageSize

	baseQuery := `FROM groups`

	var whereClause string
	var args []interface{}

	conditions := []string{}
	argIndex := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) " + baseQuery + whereClause

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems, countQuery, args...)
	if err != nil {
		logger.Error("GroupRepository:GetGroups - Count", err)
		return nil, err
	}

	dataQuery := `
		SELECT id, name, description, owner_id, created_at, updated_at
	` + baseQuery + whereClause + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprintf("%d", argIndex) + ` OFFSET $` + fmt.Sprintf("%d", argIndex+1)

	args = append(args, params.PageSize, offset)

	var groups []entity.Group
	err = r.DB.SelectContext(ctx, &groups, dataQuery, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			groups = []entity.Group{}
		} else {
			logger.Error("GroupRepository:GetGroups - Select", err)
			return nil, err
		}
	}

	return &entity.PaginatedGroupResponse{
		Items:      groups,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *groupRepository) AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("GroupRepository:AddMembers - BeginTx", err)
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO group_members (group_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx, query, groupID, userID); err != nil {
			logger.Error("GroupRepository:AddMembers - Insert", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("GroupRepository:AddMembers - Commit", err)
		return err
	}
	return nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `
		DELETE FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`
	result, err := r.DB.SQLx().ExecContext(ctx, query, groupID, userID)
	if err != nil {
		logger.Error("GroupRepository:RemoveMember", err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Error("GroupRepository:RemoveMember - RowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s is not in group %s", userID, groupID)
	}
	return nil
}

func (r *groupRepository) GetMembersByGroupID(ctx context.Context, groupID uuid.UUID) ([]entity.GroupMember, error) {
	query := `
		SELECT id, group_id, user_id, created_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY created_at DESC
	`
	var members []entity.GroupMember
	err := r.DB.SelectContext(ctx, &members, query, groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return []entity.GroupMember{}, nil
		}
		logger.Error("GroupRepository:GetMembersByGroupID", err)
		return nil, err
	}
	return members, nil
}

func (r *groupRepository) GetGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.owner_id, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
	`
	var groups []entity.Group
	err := r.DB.SelectContext(ctx, &groups, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return []entity.Group{}, nil
		}
		logger.Error("GroupRepository:GetGroupsByUserID", err)
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`
	var count int
	if err := r.DB.GetContext(ctx, &count, query, groupID, userID); err != nil {
		logger.Error("GroupRepository:IsMember", err)
		return false, err
	}
	return count > 0, nil
}
