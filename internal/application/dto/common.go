package dto

// Envelope es el sobre uniforme de todas las respuestas de la API:
// {success, data?, message?, error?}.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError detalle del error dentro del sobre.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK construye un sobre exitoso.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKMessage sobre exitoso con mensaje y sin payload.
func OKMessage(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

// Err construye un sobre de error.
func Err(code, message string) Envelope {
	return Envelope{Success: false, Error: &APIError{Code: code, Message: message}}
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}
