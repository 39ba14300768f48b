package entity

// Roles de operador.
const (
	RoleAdmin  = "admin"  // administra stock y entrega
	RoleSeller = "seller" // solo entrega y consulta
)

// Operator es una credencial de personal de la tienda (cargada desde configuración).
type Operator struct {
	Username     string
	Role         string
	ShopID       string
	PasswordHash string // bcrypt
}
