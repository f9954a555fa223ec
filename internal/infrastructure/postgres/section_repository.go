package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

var _ repository.SectionRepository = (*SectionRepo)(nil)

// SectionRepo implementación del puerto SectionRepository sobre PostgreSQL
// (usable con pool o tx). Toda consulta lleva tenant_id.
type SectionRepo struct {
	q Querier
}

// NewSectionRepository construye el adaptador de persistencia para secciones.
func NewSectionRepository(q Querier) *SectionRepo {
	return &SectionRepo{q: q}
}

const sectionColumns = `id, tenant_id, external_id, name, emoji, active, created_at, updated_at`

func scanSection(row pgx.Row) (*entity.Section, error) {
	var s entity.Section
	err := row.Scan(&s.ID, &s.TenantID, &s.ExternalID, &s.Name, &s.Emoji, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste una sección creada a mano (ExternalID = 0).
func (r *SectionRepo) Create(ctx context.Context, section *entity.Section) error {
	query := `
		INSERT INTO sections (id, tenant_id, external_id, name, emoji, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		section.ID, section.TenantID, section.ExternalID, section.Name, section.Emoji,
		section.Active, section.CreatedAt, section.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert section: %w", err)
	}
	return nil
}

// GetByID obtiene una sección del tenant por ID.
func (r *SectionRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE tenant_id = $1 AND id = $2`
	s, err := scanSection(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section: %w", err)
	}
	return s, nil
}

// GetByExternalID obtiene la sección mapeada a un storage_id del POS.
func (r *SectionRepo) GetByExternalID(ctx context.Context, tenantID string, externalID int64) (*entity.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE tenant_id = $1 AND external_id = $2 AND external_id <> 0`
	s, err := scanSection(r.q.QueryRow(ctx, query, tenantID, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section by external id: %w", err)
	}
	return s, nil
}

// GetByName obtiene una sección por nombre (insensible a mayúsculas): el
// departamento llega por nombre desde la vista combinada.
func (r *SectionRepo) GetByName(ctx context.Context, tenantID, name string) (*entity.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE tenant_id = $1 AND lower(name) = lower($2)`
	s, err := scanSection(r.q.QueryRow(ctx, query, tenantID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section by name: %w", err)
	}
	return s, nil
}

// ListByTenant lista secciones del tenant; por defecto solo las activas.
func (r *SectionRepo) ListByTenant(ctx context.Context, tenantID string, includeInactive bool) ([]*entity.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE tenant_id = $1`
	if !includeInactive {
		query += ` AND active`
	}
	query += ` ORDER BY name`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()
	var list []*entity.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza nombre, emoji y flag activo.
func (r *SectionRepo) Update(ctx context.Context, section *entity.Section) error {
	_, err := r.q.Exec(ctx,
		`UPDATE sections SET name = $3, emoji = $4, active = $5, updated_at = $6
		 WHERE tenant_id = $1 AND id = $2`,
		section.TenantID, section.ID, section.Name, section.Emoji, section.Active, section.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// Deactivate baja lógica: los pedidos históricos siguen referenciando la sección.
func (r *SectionRepo) Deactivate(ctx context.Context, tenantID, id string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE sections SET active = FALSE, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("deactivate section: %w", err)
	}
	return nil
}

// UpsertSynced inserta o actualiza por (tenant_id, external_id); nunca duplica.
// Devuelve true si la fila fue creada (xmax = 0 en la fila resultante).
func (r *SectionRepo) UpsertSynced(ctx context.Context, section *entity.Section) (bool, error) {
	query := `
		INSERT INTO sections (id, tenant_id, external_id, name, emoji, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)
		ON CONFLICT (tenant_id, external_id) WHERE external_id <> 0 DO UPDATE
		SET name = EXCLUDED.name, emoji = EXCLUDED.emoji, updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0)`
	var created bool
	err := r.q.QueryRow(ctx, query,
		section.ID, section.TenantID, section.ExternalID, section.Name, section.Emoji, section.UpdatedAt,
	).Scan(&section.ID, &created)
	if err != nil {
		return false, fmt.Errorf("upsert section: %w", err)
	}
	return created, nil
}
