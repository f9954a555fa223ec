package dto

// ErrorResponse respuesta de error uniforme para clientes HTTP.
// Message es legible para humanos; nunca incluye detalle interno ni stack.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// TenantResponse configuración visible del tenant. El token POS nunca viaja
// en la respuesta; solo se indica si está configurado.
type TenantResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Active      bool   `json:"active"`
	POSTokenSet bool   `json:"pos_token_set"`
}

// UpdateTenantRequest actualización parcial del tenant: los campos nil se
// dejan como están.
type UpdateTenantRequest struct {
	Name     *string `json:"name"`
	POSToken *string `json:"pos_token"`
}
