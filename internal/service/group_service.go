// internal/service/group_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"
	"wakala-ledger/pkg/db"

	"github.com/shopspring/decimal"
)

// GroupService manages groups and their memberships. It never touches balances.
type GroupService interface {
	CreateGroup(ctx context.Context, creatorID, name string, risk domain.RiskTolerance, contributionLimit decimal.Decimal) (*domain.Group, *domain.Membership, error)
	GetGroup(ctx context.Context, groupID string) (*domain.Group, error)
	JoinGroup(ctx context.Context, groupID, userID string) (*domain.Membership, error)
	ListMembers(ctx context.Context, groupID string) ([]domain.Membership, error)
	GetMembership(ctx context.Context, membershipID string) (*domain.Membership, error)
	DeleteGroup(ctx context.Context, groupID string) error
}

type groupService struct {
	txRunner
	dbExecutor repository.DBExecutor
	repos      repository.Repositories
	locker     *GroupLocker
	logger     *slog.Logger
}

// NewGroupService creates a new instance of GroupService.
func NewGroupService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	repos repository.Repositories,
	tx TxFuncs,
	locker *GroupLocker,
	logger *slog.Logger,
) GroupService {
	return &groupService{
		txRunner:   txRunner{dbBeginner: dbBeginner, tx: tx},
		dbExecutor: dbExecutor,
		repos:      repos,
		locker:     locker,
		logger:     logger,
	}
}

// CreateGroup creates a tier one group with a zero balance. The creator joins as ADMIN.
func (s *groupService) CreateGroup(ctx context.Context, creatorID, name string, risk domain.RiskTolerance, contributionLimit decimal.Decimal) (*domain.Group, *domain.Membership, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, fmt.Errorf("create group: name is required: %w", util.ErrInvalidInput)
	}
	if risk == "" {
		risk = domain.RiskLow
	}
	if !risk.Valid() {
		return nil, nil, fmt.Errorf("create group: risk tolerance %q: %w", risk, util.ErrInvalidInput)
	}
	if contributionLimit.IsNegative() {
		return nil, nil, fmt.Errorf("create group: negative contribution limit: %w", util.ErrInvalidInput)
	}

	group := domain.NewGroup(name, risk, contributionLimit)
	admin := domain.NewMembership(creatorID, group.ID, domain.RoleAdmin)

	err := s.inTx(ctx, "create group", func(q repository.DBExecutor) error {
		if _, err := s.repos.Users.GetUserByID(ctx, q, creatorID); err != nil {
			return notFound("create group", util.ErrUserNotFound, creatorID, err)
		}
		if err := s.repos.Groups.CreateGroup(ctx, q, group); err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		if err := s.repos.Memberships.CreateMembership(ctx, q, admin); err != nil {
			return fmt.Errorf("create group: failed to add creator: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Group created", "group_id", group.ID, "name", group.Name, "admin_id", creatorID)
	return group, admin, nil
}

// GetGroup retrieves a group by ID.
func (s *groupService) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	group, err := s.repos.Groups.GetGroupByID(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, notFound("get group", util.ErrGroupNotFound, groupID, err)
	}
	return group, nil
}

// JoinGroup adds userID to the group as a MEMBER.
func (s *groupService) JoinGroup(ctx context.Context, groupID, userID string) (*domain.Membership, error) {
	membership := domain.NewMembership(userID, groupID, domain.RoleMember)

	err := s.inTx(ctx, "join group", func(q repository.DBExecutor) error {
		if _, err := s.repos.Groups.GetGroupByID(ctx, q, groupID); err != nil {
			return notFound("join group", util.ErrGroupNotFound, groupID, err)
		}
		if _, err := s.repos.Users.GetUserByID(ctx, q, userID); err != nil {
			return notFound("join group", util.ErrUserNotFound, userID, err)
		}

		_, err := s.repos.Memberships.GetMembershipByUserAndGroup(ctx, q, userID, groupID)
		if err == nil {
			return fmt.Errorf("join group %s: %w", groupID, util.ErrAlreadyMember)
		}
		if !errors.Is(err, util.ErrNotFound) {
			return fmt.Errorf("join group: failed to check membership: %w", err)
		}

		if err := s.repos.Memberships.CreateMembership(ctx, q, membership); err != nil {
			if errors.Is(err, util.ErrDuplicateEntry) {
				return fmt.Errorf("join group %s: %w", groupID, util.ErrAlreadyMember)
			}
			return fmt.Errorf("join group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// ListMembers returns a group's memberships in join order.
func (s *groupService) ListMembers(ctx context.Context, groupID string) ([]domain.Membership, error) {
	if _, err := s.repos.Groups.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, notFound("list members", util.ErrGroupNotFound, groupID, err)
	}
	members, err := s.repos.Memberships.ListMembershipsByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// GetMembership retrieves a membership by ID.
func (s *groupService) GetMembership(ctx context.Context, membershipID string) (*domain.Membership, error) {
	m, err := s.repos.Memberships.GetMembershipByID(ctx, s.dbExecutor, membershipID)
	if err != nil {
		return nil, notFound("get membership", util.ErrMembershipNotFound, membershipID, err)
	}
	return m, nil
}

// DeleteGroup removes a group and everything it owns except its ledger
// records, which stay as the audit trail. It waits for in-flight ledger
// operations on the group to finish.
func (s *groupService) DeleteGroup(ctx context.Context, groupID string) error {
	release, err := s.locker.Lock(ctx, groupID)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	defer release()

	if err := s.repos.Groups.DeleteGroup(ctx, s.dbExecutor, groupID); err != nil {
		return notFound("delete group", util.ErrGroupNotFound, groupID, err)
	}
	s.logger.Info("Group deleted", "group_id", groupID)
	return nil
}
