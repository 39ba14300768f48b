package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Entregas-api/internal/application/dto"
	"github.com/jhoicas/Entregas-api/internal/domain"
	"github.com/jhoicas/Entregas-api/internal/domain/entity"
	"github.com/jhoicas/Entregas-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de operadores de tienda contra las credenciales configuradas.
type AuthUseCase struct {
	operators map[string]entity.Operator
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(operators []entity.Operator, jwtCfg JWTConfig) *AuthUseCase {
	byName := make(map[string]entity.Operator, len(operators))
	for _, op := range operators {
		byName[op.Username] = op
	}
	return &AuthUseCase{operators: byName, jwtCfg: jwtCfg}
}

// Login verifica usuario/password y genera el JWT con la tienda y el rol del operador.
// Usuario inexistente y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	op, ok := uc.operators[strings.TrimSpace(in.Username)]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID: op.Username,
		ShopID: op.ShopID,
		Role:   op.Role,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		Username: op.Username,
		ShopID:   op.ShopID,
		Role:     op.Role,
	}, nil
}

// ParseOperators interpreta AUTH_OPERATORS: "usuario:rol:tienda:hashBcrypt" separados por ';'.
// El hash bcrypt contiene '$' pero nunca ':', así que se corta en las tres primeras apariciones.
func ParseOperators(raw string) ([]entity.Operator, error) {
	var out []entity.Operator
	seen := map[string]bool{}
	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("%w: operador mal formado %q", domain.ErrInvalidArgument, item)
		}
		op := entity.Operator{
			Username:     strings.TrimSpace(parts[0]),
			Role:         strings.TrimSpace(parts[1]),
			ShopID:       strings.TrimSpace(parts[2]),
			PasswordHash: strings.TrimSpace(parts[3]),
		}
		if op.Username == "" || op.ShopID == "" || op.PasswordHash == "" {
			return nil, fmt.Errorf("%w: operador incompleto %q", domain.ErrInvalidArgument, op.Username)
		}
		if op.Role != entity.RoleAdmin && op.Role != entity.RoleSeller {
			return nil, fmt.Errorf("%w: rol desconocido %q para %s", domain.ErrInvalidArgument, op.Role, op.Username)
		}
		if seen[op.Username] {
			return nil, fmt.Errorf("%w: operador duplicado %q", domain.ErrInvalidArgument, op.Username)
		}
		seen[op.Username] = true
		out = append(out, op)
	}
	return out, nil
}
