package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

// SectionUseCase gestiona las secciones manuales. Las sincronizadas las crea y
// actualiza el pipeline de sync; acá solo se permite editar cosmética (emoji) y
// desactivar.
type SectionUseCase struct {
	tx TxRunner
}

// NewSectionUseCase construye el caso de uso de secciones.
func NewSectionUseCase(tx TxRunner) *SectionUseCase {
	return &SectionUseCase{tx: tx}
}

// Create da de alta una sección manual (ExternalID = 0).
func (uc *SectionUseCase) Create(ctx context.Context, tenantID string, in dto.CreateSectionRequest) (*entity.Section, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	section := &entity.Section{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Name:     in.Name,
		Emoji:    in.Emoji,
		Active:   true,
	}
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		existing, err := repos.Sections.GetByName(ctx, tenantID, in.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ya existe una sección %q", domain.ErrDuplicate, in.Name)
		}
		return repos.Sections.Create(ctx, section)
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

// List devuelve las secciones del tenant.
func (uc *SectionUseCase) List(ctx context.Context, tenantID string, includeInactive bool) ([]*entity.Section, error) {
	var sections []*entity.Section
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		sections, err = repos.Sections.ListByTenant(ctx, tenantID, includeInactive)
		return err
	})
	return sections, err
}

// Get devuelve una sección por id.
func (uc *SectionUseCase) Get(ctx context.Context, tenantID, id string) (*entity.Section, error) {
	var section *entity.Section
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		section, err = repos.Sections.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if section == nil {
			return fmt.Errorf("%w: sección %s", domain.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

// Update edita nombre y emoji. En secciones sincronizadas el nombre lo manda el
// POS (el próximo sync lo pisa), así que solo se permite cambiar el emoji.
func (uc *SectionUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateSectionRequest) (*entity.Section, error) {
	var section *entity.Section
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		section, err = repos.Sections.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if section == nil {
			return fmt.Errorf("%w: sección %s", domain.ErrNotFound, id)
		}
		if in.Name != "" && section.Synced() && in.Name != section.Name {
			return fmt.Errorf("%w: el nombre de una sección sincronizada lo define el POS", domain.ErrInvalidInput)
		}
		if in.Name != "" {
			section.Name = in.Name
		}
		if in.Emoji != "" {
			section.Emoji = in.Emoji
		}
		return repos.Sections.Update(ctx, section)
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

// Deactivate da de baja lógica una sección.
func (uc *SectionUseCase) Deactivate(ctx context.Context, tenantID, id string) error {
	return uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		section, err := repos.Sections.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if section == nil {
			return fmt.Errorf("%w: sección %s", domain.ErrNotFound, id)
		}
		return repos.Sections.Deactivate(ctx, tenantID, id)
	})
}
