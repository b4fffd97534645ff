package task

import (
	"context"
	"errors"
	"strings"

	"go-hrms/internal/access"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/dberr"
	"go-hrms/internal/shared/response"
	taskerrors "go-hrms/internal/task/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=task_service.go -destination=mock/task_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, p *access.Principal, req CreateTaskRequest) (TaskResponse, error)
	Get(ctx context.Context, companyID, id uint) (TaskResponse, error)
	List(ctx context.Context, p *access.Principal, q ListTasksQuery) ([]TaskResponse, response.PaginationMeta, error)
	Update(ctx context.Context, p *access.Principal, id uint, req UpdateTaskRequest) (TaskResponse, error)
	Close(ctx context.Context, p *access.Principal, id uint) (TaskResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("task.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, p *access.Principal, req CreateTaskRequest) (TaskResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create task requested",
		zap.Uint("company_id", p.CompanyID),
		zap.Uint("user_id", p.UserID),
	)

	title := strings.TrimSpace(req.Title)
	if len(title) < 3 {
		return TaskResponse{}, apperror.Validation("Title must be at least 3 characters")
	}

	priority := PriorityMedium
	if req.Priority != nil {
		v, ok := ParsePriority(*req.Priority)
		if !ok {
			return TaskResponse{}, taskerrors.ErrInvalidPriority
		}
		priority = v
	}

	t := &Task{
		CompanyID:            p.CompanyID,
		Title:                title,
		Description:          req.Description,
		Status:               StatusOpen,
		Priority:             priority,
		AssignedToEmployeeID: req.AssignedToEmployeeID,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := parseDueDate(*req.DueDate)
		if err != nil {
			return TaskResponse{}, err
		}
		t.DueDate = d
	}
	creator := p.UserID
	t.CreatedByUserID = &creator

	if req.AssignedToEmployeeID != nil {
		ok, err := s.repo.AssigneeExists(ctx, p.CompanyID, *req.AssignedToEmployeeID, true)
		if err != nil {
			log.Error("check assignee failed", zap.Error(err))
			return TaskResponse{}, mapRepositoryError(err)
		}
		if !ok {
			return TaskResponse{}, taskerrors.ErrAssigneeNotFound
		}
	}

	if err := s.repo.Create(ctx, t); err != nil {
		log.Error("create task failed", zap.Uint("company_id", p.CompanyID), zap.Error(err))
		return TaskResponse{}, mapRepositoryError(err)
	}

	log.Info("task created", zap.Uint("company_id", p.CompanyID), zap.Uint("task_id", t.ID))
	return mapToResponse(*t), nil
}

func (s *service) Get(ctx context.Context, companyID, id uint) (TaskResponse, error) {
	t, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return TaskResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*t), nil
}

func (s *service) List(ctx context.Context, p *access.Principal, q ListTasksQuery) ([]TaskResponse, response.PaginationMeta, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	q.normalize()

	f := ListFilter{
		AssigneeID: q.AssignedToEmployeeID,
		Page:       q.Page,
		Limit:      q.Limit,
	}
	if q.Status != "" {
		v, ok := ParseStatus(q.Status)
		if !ok {
			return nil, response.PaginationMeta{}, taskerrors.ErrInvalidStatus
		}
		f.Status = &v
	}
	if q.Priority != "" {
		v, ok := ParsePriority(q.Priority)
		if !ok {
			return nil, response.PaginationMeta{}, taskerrors.ErrInvalidPriority
		}
		f.Priority = &v
	}
	if q.OnlyMine && p.IsEmployee() && p.EmployeeID != nil {
		f.OnlyMineEmployeeID = p.EmployeeID
	}

	tasks, total, err := s.repo.FindAll(ctx, p.CompanyID, f)
	if err != nil {
		log.Error("list tasks failed", zap.Uint("company_id", p.CompanyID), zap.Error(err))
		return nil, response.PaginationMeta{}, mapRepositoryError(err)
	}

	return mapToListResponse(tasks), response.NewPaginationMeta(total, q.Page, q.Limit), nil
}

func (s *service) Update(ctx context.Context, p *access.Principal, id uint, req UpdateTaskRequest) (TaskResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update task requested",
		zap.Uint("company_id", p.CompanyID),
		zap.Uint("task_id", id),
		zap.String("role", string(p.Role)),
	)

	var updated Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		t, err := repo.FindByIDAndCompany(ctx, p.CompanyID, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := authorize(p, t); err != nil {
			return err
		}
		if err := applyPatch(ctx, repo, p, t, req); err != nil {
			return err
		}
		if err := repo.Update(ctx, t); err != nil {
			return mapRepositoryError(err)
		}
		updated = *t
		return nil
	})
	if err != nil {
		log.Warn("update task failed", zap.Uint("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}

	log.Info("task updated", zap.Uint("task_id", id))
	return mapToResponse(updated), nil
}

// Close is idempotent.
func (s *service) Close(ctx context.Context, p *access.Principal, id uint) (TaskResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	var closed Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		t, err := repo.FindByIDAndCompany(ctx, p.CompanyID, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := authorize(p, t); err != nil {
			return err
		}
		t.Status = StatusClosed
		if err := repo.Update(ctx, t); err != nil {
			return mapRepositoryError(err)
		}
		closed = *t
		return nil
	})
	if err != nil {
		log.Warn("close task failed", zap.Uint("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}

	log.Info("task closed", zap.Uint("task_id", id), zap.Uint("user_id", p.UserID))
	return mapToResponse(closed), nil
}

// authorize lets admins touch any task in their tenant and employees only
// the tasks assigned to them.
func authorize(p *access.Principal, t *Task) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsEmployee() && t.AssignedTo(p.EmployeeID) {
		return nil
	}
	return taskerrors.ErrTaskForbidden
}

func applyPatch(ctx context.Context, repo Repository, p *access.Principal, t *Task, req UpdateTaskRequest) error {
	if req.AssignedToEmployeeID.Set {
		if !p.IsAdmin() {
			if req.AssignedToEmployeeID.Null || !t.AssignedTo(&req.AssignedToEmployeeID.Value) {
				return taskerrors.ErrCannotReassign
			}
		} else if req.AssignedToEmployeeID.Null {
			t.AssignedToEmployeeID = nil
		} else {
			ok, err := repo.AssigneeExists(ctx, t.CompanyID, req.AssignedToEmployeeID.Value, false)
			if err != nil {
				return mapRepositoryError(err)
			}
			if !ok {
				return taskerrors.ErrAssigneeNotFound
			}
			t.AssignedToEmployeeID = req.AssignedToEmployeeID.Ptr()
		}
	}

	if req.Title.Set {
		title := strings.TrimSpace(req.Title.Value)
		if req.Title.Null || len(title) < 3 || len(title) > 255 {
			return apperror.Validation("Title must be between 3 and 255 characters")
		}
		t.Title = title
	}
	if req.Description.Set {
		t.Description = req.Description.Ptr()
	}
	if req.Priority.Set {
		if req.Priority.Null {
			return apperror.RequiredField("Priority")
		}
		v, ok := ParsePriority(req.Priority.Value)
		if !ok {
			return taskerrors.ErrInvalidPriority
		}
		t.Priority = v
	}
	if req.Status.Set {
		if req.Status.Null {
			return apperror.RequiredField("Status")
		}
		v, ok := ParseStatus(req.Status.Value)
		if !ok {
			return taskerrors.ErrInvalidStatus
		}
		if t.Status == StatusClosed && v != StatusClosed {
			return taskerrors.ErrTaskClosed
		}
		t.Status = v
	}
	if req.DueDate.Set {
		if req.DueDate.Null {
			t.DueDate = nil
		} else {
			d, err := parseDueDate(req.DueDate.Value)
			if err != nil {
				return err
			}
			t.DueDate = d
		}
	}
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if dberr.IsNotFound(err) {
		return taskerrors.ErrTaskNotFound
	}

	return apperror.Internal(err)
}
