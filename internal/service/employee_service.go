package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/model"
	"einsatzplan/internal/repository"
	pkgerrors "einsatzplan/pkg/errors"
)

// ── employee module errors ──

var (
	ErrEmployeeNotFound  = errors.New("Mitarbeiter nicht gefunden")
	ErrEmployeeNameTaken = errors.New("Mitarbeitername bereits vergeben")
)

// EmployeeService employee directory
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService creates an EmployeeService
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	emp := &model.Employee{
		Name:            strings.TrimSpace(req.Name),
		PersonnelNumber: strings.TrimSpace(req.PersonnelNumber),
		EmploymentType:  req.EmploymentType,
		Position:        req.Position,
		Address:         req.Address,
		Phone:           req.Phone,
		IsActive:        true,
	}

	var err error
	if emp.BirthDate, err = parseOptionalDay(req.BirthDate); err != nil {
		return nil, err
	}
	if emp.ContractEnd, err = parseOptionalDay(req.ContractEnd); err != nil {
		return nil, err
	}
	if emp.IDValidUntil, err = parseOptionalDay(req.IDValidUntil); err != nil {
		return nil, err
	}

	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrEmployeeNameTaken
		}
		s.logger.Error("create employee failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("employee created", zap.String("employee_id", emp.EmployeeID))
	return toEmployeeResponse(emp), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *employeeService) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	emp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.Employee.List(ctx, req.IncludeInactive, strings.TrimSpace(req.Keyword))
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		result = append(result, *toEmployeeResponse(&employees[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

// Update changes directory fields. Renaming touches only this row since
// schedule and leave data reference the id.
func (s *employeeService) Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	emp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		emp.Name = strings.TrimSpace(*req.Name)
	}
	if req.PersonnelNumber != nil {
		emp.PersonnelNumber = strings.TrimSpace(*req.PersonnelNumber)
	}
	if req.EmploymentType != nil {
		emp.EmploymentType = *req.EmploymentType
	}
	if req.Position != nil {
		emp.Position = *req.Position
	}
	if req.Address != nil {
		emp.Address = *req.Address
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}
	if req.BirthDate != nil {
		if emp.BirthDate, err = parseOptionalDay(*req.BirthDate); err != nil {
			return nil, err
		}
	}
	if req.ContractEnd != nil {
		if emp.ContractEnd, err = parseOptionalDay(*req.ContractEnd); err != nil {
			return nil, err
		}
	}
	if req.IDValidUntil != nil {
		if emp.IDValidUntil, err = parseOptionalDay(*req.IDValidUntil); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Employee.Update(ctx, emp); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrEmployeeNameTaken
		}
		s.logger.Error("update employee failed", zap.String("employee_id", id), zap.Error(err))
		return nil, err
	}

	return toEmployeeResponse(emp), nil
}

// ────────────────────── Delete ──────────────────────

func (s *employeeService) Delete(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Employee.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.String("employee_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("employee deleted", zap.String("employee_id", id))
	return nil
}

func (s *employeeService) load(ctx context.Context, id string) (*model.Employee, error) {
	return loadEmployee(ctx, s.repo, s.logger, id)
}

// loadEmployee maps a missing employee to ErrEmployeeNotFound.
func loadEmployee(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Employee, error) {
	emp, err := repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		logger.Error("get employee failed", zap.String("employee_id", id), zap.Error(err))
		return nil, err
	}
	return emp, nil
}

func toEmployeeResponse(emp *model.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:              emp.EmployeeID,
		Name:            emp.Name,
		PersonnelNumber: emp.PersonnelNumber,
		BirthDate:       formatOptionalDay(emp.BirthDate),
		EmploymentType:  emp.EmploymentType,
		Position:        emp.Position,
		ContractEnd:     formatOptionalDay(emp.ContractEnd),
		Address:         emp.Address,
		Phone:           emp.Phone,
		IDValidUntil:    formatOptionalDay(emp.IDValidUntil),
		IsActive:        emp.IsActive,
	}
}

// employeeIndex maps id to employee.
func employeeIndex(employees []model.Employee) map[string]*model.Employee {
	idx := make(map[string]*model.Employee, len(employees))
	for i := range employees {
		idx[employees[i].EmployeeID] = &employees[i]
	}
	return idx
}
