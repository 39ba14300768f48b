package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WarningResponse fallo no fatal que acompaña a una respuesta exitosa.
type WarningResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Códigos de advertencia.
const (
	WarningNotificationFailed = "NOTIFICATION_FAILED"
	WarningPersistenceFailed  = "PERSISTENCE_FAILED"
)
