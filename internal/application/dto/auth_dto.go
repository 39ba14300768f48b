package dto

// LoginRequest entrada para login de operador.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	ShopID   string `json:"shop_id"`
	Role     string `json:"role"`
}
