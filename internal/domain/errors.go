package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidArgument    = errors.New("argumento inválido")
	ErrNotFound           = errors.New("producto no encontrado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrNotificationFailed = errors.New("no se pudo notificar al comprador")
	ErrPersistence        = errors.New("fallo de persistencia")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)
