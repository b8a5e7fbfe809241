package admin

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/newwestevents/events-backend/internal/apperror"
	"github.com/newwestevents/events-backend/internal/auditlog"
	"github.com/newwestevents/events-backend/internal/auth"
)

// User account statuses an admin can set.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

type Service interface {
	ListUsers(ctx context.Context, f UserFilter) (*PaginatedUsers, error)
	SetUserStatus(ctx context.Context, userID uint, status string, actor auth.Actor, ip string) error
	SetUserAdmin(ctx context.Context, userID uint, isAdmin bool, actor auth.Actor, ip string) error
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

func (s *service) ListUsers(ctx context.Context, f UserFilter) (*PaginatedUsers, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	rows, total, err := s.repo.ListUsers(ctx, f)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}

	return &PaginatedUsers{
		Data:       rows,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(f.Limit))),
	}, nil
}

func (s *service) SetUserStatus(ctx context.Context, userID uint, status string, actor auth.Actor, ip string) error {
	if status != UserStatusActive && status != UserStatusSuspended {
		return apperror.Validation([]string{"status must be active or suspended"})
	}
	if userID == actor.UserID {
		return apperror.Forbidden("you cannot change your own account status")
	}

	if err := s.repo.SetUserStatus(ctx, userID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user")
		}
		return apperror.StoreUnavailable(err)
	}

	uid := actor.UserID
	s.auditSvc.LogAction(ctx, &uid, nil, "USER_STATUS_CHANGED",
		map[string]interface{}{"target_user": userID, "status": status}, ip, "success")
	return nil
}

func (s *service) SetUserAdmin(ctx context.Context, userID uint, isAdmin bool, actor auth.Actor, ip string) error {
	if userID == actor.UserID {
		return apperror.Forbidden("you cannot change your own admin claim")
	}

	if err := s.repo.SetUserAdmin(ctx, userID, isAdmin); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user")
		}
		return apperror.StoreUnavailable(err)
	}

	uid := actor.UserID
	s.auditSvc.LogAction(ctx, &uid, nil, "USER_ADMIN_CHANGED",
		map[string]interface{}{"target_user": userID, "is_admin": isAdmin}, ip, "success")
	return nil
}
