package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los handlers HTTP los traducen a códigos de estado; nunca se expone detalle interno.
var (
	ErrTenantNotResolved = errors.New("tenant no resuelto para la petición")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")

	// Upstream (proveedor POS): recuperables, el sync continúa con datos parciales.
	ErrUpstreamUnavailable = errors.New("proveedor POS no disponible")
	ErrUpstreamRejected    = errors.New("proveedor POS rechazó la operación")

	// Pipeline de sincronización.
	ErrSyncOutOfOrder = errors.New("etapa de sync fuera de orden: faltan datos de la etapa previa")
	ErrSyncLocked     = errors.New("sync en curso para el tenant")
)
