package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

// CustomProductUseCase gestiona los productos propios del tenant, invisibles
// para el POS. Se identifican hacia afuera con prefijo ("c15").
type CustomProductUseCase struct {
	tx TxRunner
}

// NewCustomProductUseCase construye el caso de uso de productos custom.
func NewCustomProductUseCase(tx TxRunner) *CustomProductUseCase {
	return &CustomProductUseCase{tx: tx}
}

// ParseCustomID convierte un id con namespace ("c15") al Seq interno.
func ParseCustomID(id string) (int64, error) {
	raw, ok := strings.CutPrefix(id, "c")
	if !ok {
		return 0, fmt.Errorf("%w: id de producto custom inválido %q", domain.ErrInvalidInput, id)
	}
	seq, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seq <= 0 {
		return 0, fmt.Errorf("%w: id de producto custom inválido %q", domain.ErrInvalidInput, id)
	}
	return seq, nil
}

// Create da de alta un producto custom en una sección existente.
func (uc *CustomProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateCustomProductRequest) (*entity.CustomProduct, error) {
	if in.Name == "" || in.Unit == "" {
		return nil, fmt.Errorf("%w: nombre y unidad son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity.LessThan(decimal.Zero) || in.MinQuantity.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: las cantidades no pueden ser negativas", domain.ErrInvalidInput)
	}
	product := &entity.CustomProduct{
		TenantID:    tenantID,
		SectionID:   in.SectionID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Unit:        in.Unit,
		MinQuantity: in.MinQuantity,
		Quantity:    in.Quantity,
		Active:      true,
	}
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		section, err := repos.Sections.GetByID(ctx, tenantID, in.SectionID)
		if err != nil {
			return err
		}
		if section == nil {
			return fmt.Errorf("%w: sección %s", domain.ErrNotFound, in.SectionID)
		}
		if in.CategoryID != "" {
			category, err := repos.Categories.GetByID(ctx, tenantID, in.CategoryID)
			if err != nil {
				return err
			}
			if category == nil {
				return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.CategoryID)
			}
		}
		return repos.CustomProducts.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ListBySection devuelve los productos custom activos de una sección.
func (uc *CustomProductUseCase) ListBySection(ctx context.Context, tenantID, sectionID string) ([]*entity.CustomProduct, error) {
	var products []*entity.CustomProduct
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		products, err = repos.CustomProducts.ListBySection(ctx, tenantID, sectionID)
		return err
	})
	return products, err
}

// List devuelve todos los productos custom activos del tenant.
func (uc *CustomProductUseCase) List(ctx context.Context, tenantID string) ([]*entity.CustomProduct, error) {
	var products []*entity.CustomProduct
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		products, err = repos.CustomProducts.ListByTenant(ctx, tenantID)
		return err
	})
	return products, err
}

// Update edita un producto custom identificado por su id con namespace.
func (uc *CustomProductUseCase) Update(ctx context.Context, tenantID, displayID string, in dto.UpdateCustomProductRequest) (*entity.CustomProduct, error) {
	seq, err := ParseCustomID(displayID)
	if err != nil {
		return nil, err
	}
	if in.Quantity.LessThan(decimal.Zero) || in.MinQuantity.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: las cantidades no pueden ser negativas", domain.ErrInvalidInput)
	}
	var product *entity.CustomProduct
	err = uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		product, err = repos.CustomProducts.GetBySeq(ctx, tenantID, seq)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto custom %s", domain.ErrNotFound, displayID)
		}
		if in.SectionID != "" && in.SectionID != product.SectionID {
			section, err := repos.Sections.GetByID(ctx, tenantID, in.SectionID)
			if err != nil {
				return err
			}
			if section == nil {
				return fmt.Errorf("%w: sección %s", domain.ErrNotFound, in.SectionID)
			}
			product.SectionID = in.SectionID
		}
		if in.CategoryID != product.CategoryID {
			if in.CategoryID != "" {
				category, err := repos.Categories.GetByID(ctx, tenantID, in.CategoryID)
				if err != nil {
					return err
				}
				if category == nil {
					return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.CategoryID)
				}
			}
			product.CategoryID = in.CategoryID
		}
		if in.Name != "" {
			product.Name = in.Name
		}
		if in.Unit != "" {
			product.Unit = in.Unit
		}
		product.MinQuantity = in.MinQuantity
		product.Quantity = in.Quantity
		return repos.CustomProducts.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Deactivate da de baja lógica un producto custom.
func (uc *CustomProductUseCase) Deactivate(ctx context.Context, tenantID, displayID string) error {
	seq, err := ParseCustomID(displayID)
	if err != nil {
		return err
	}
	return uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		product, err := repos.CustomProducts.GetBySeq(ctx, tenantID, seq)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto custom %s", domain.ErrNotFound, displayID)
		}
		return repos.CustomProducts.Deactivate(ctx, tenantID, seq)
	})
}
