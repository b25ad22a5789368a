package service

import (
	"errors"
	"fmt"

	"go-facility-api/internal/apperr"
	"go-facility-api/internal/model"
	"go-facility-api/internal/repository"
	"go-facility-api/internal/tenant"
	"go-facility-api/pkg/validator"

	"github.com/google/uuid"
)

var ErrSupplierNotFound = errors.New("supplier not found")

type SupplierService interface {
	CreateSupplier(req *SupplierRequest, userID string) (*model.Supplier, error)
	UpdateSupplier(id uuid.UUID, req *SupplierRequest, userID string) (*model.Supplier, error)
	DeleteSupplier(id uuid.UUID, userID string) error
	GetSuppliers() ([]model.Supplier, error)
	GetSupplierByID(id uuid.UUID) (*model.Supplier, error)

	CreateMaterial(tc tenant.Context, req *MaterialRequest, userID string) (*model.Material, error)
	GetMaterials(tc tenant.Context) ([]model.Material, error)
}

type SupplierRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type MaterialRequest struct {
	Name string `json:"name" validate:"required"`
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	movementRepo repository.MovementRepository
	priceRepo    repository.PriceRepository
	materialRepo repository.MaterialRepository
}

func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	movementRepo repository.MovementRepository,
	priceRepo repository.PriceRepository,
	materialRepo repository.MaterialRepository,
) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
		priceRepo:    priceRepo,
		materialRepo: materialRepo,
	}
}

func (s *supplierService) CreateSupplier(req *SupplierRequest, userID string) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	supplier := &model.Supplier{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
	supplier.CreatedBy = userID
	supplier.UpdatedBy = userID

	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) UpdateSupplier(id uuid.UUID, req *SupplierRequest, userID string) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, ErrSupplierNotFound
	}

	supplier.Name = req.Name
	supplier.Email = req.Email
	supplier.PhoneNumber = req.PhoneNumber
	supplier.Address = req.Address
	supplier.UpdatedBy = userID

	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) DeleteSupplier(id uuid.UUID, userID string) error {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return ErrSupplierNotFound
	}

	// Blocked while the ledger or the price history still references it
	movements, err := s.movementRepo.CountBySupplier(supplier.ID)
	if err != nil {
		return err
	}
	if movements > 0 {
		return apperr.NewIntegrity(fmt.Sprintf("supplier %q still has %d ledger movements", supplier.Name, movements))
	}
	prices, err := s.priceRepo.CountBySupplier(supplier.ID)
	if err != nil {
		return err
	}
	if prices > 0 {
		return apperr.NewIntegrity(fmt.Sprintf("supplier %q still has %d price points", supplier.Name, prices))
	}

	return s.supplierRepo.Delete(supplier.ID, userID)
}

func (s *supplierService) GetSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}

func (s *supplierService) GetSupplierByID(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, ErrSupplierNotFound
	}
	return supplier, nil
}

func (s *supplierService) CreateMaterial(tc tenant.Context, req *MaterialRequest, userID string) (*model.Material, error) {
	if !tc.CanMutate() {
		return nil, apperr.ErrHeadquartersReadOnly
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	material := &model.Material{
		SiteID: tc.SiteID,
		Name:   req.Name,
	}
	material.CreatedBy = userID
	material.UpdatedBy = userID

	if err := s.materialRepo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *supplierService) GetMaterials(tc tenant.Context) ([]model.Material, error) {
	return s.materialRepo.FindAll(tc)
}
