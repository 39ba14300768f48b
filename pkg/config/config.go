package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Store  StoreConfig
	Redis  RedisConfig
	Ledger LedgerConfig
	Notify NotifyConfig
	Auth   AuthConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// Drivers de persistencia soportados para el ledger.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// StoreConfig selecciona el backend de persistencia del ledger.
type StoreConfig struct {
	Driver     string // memory | file | sqlite | postgres | redis
	FileDir    string // directorio de los JSON (driver file)
	SQLitePath string // ruta del archivo sqlite (driver sqlite)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig conexión al almacén remoto (driver redis).
type RedisConfig struct {
	URL       string
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LedgerConfig parámetros del negocio: moneda, tasa a USD y umbral de reposición.
type LedgerConfig struct {
	StoreName        string
	Currency         string  // código ISO 4217 de los precios
	USDRate          float64 // unidades de Currency por 1 USD (0 = no mostrar USD)
	RestockThreshold int64
	Timezone         string
}

// NotifyConfig destinos externos: relay de mensajes directos y canal de log.
type NotifyConfig struct {
	DMWebhookURL  string
	LogWebhookURL string
	Timeout       time.Duration
	LogBuffer     int
}

// AuthConfig credenciales de operadores, formato "usuario:rol:tienda:hashBcrypt" separadas por ';'.
type AuthConfig struct {
	Operators string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_DRIVER, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "entregas-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "entregas"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "entregas-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getString(v, "STORE_DRIVER", StoreFile)),
			FileDir:    getString(v, "STORE_FILE_DIR", "./data"),
			SQLitePath: getString(v, "STORE_SQLITE_PATH", "./data/ledger.db"),
		},
		Redis: RedisConfig{
			URL:       getString(v, "REDIS_URL", ""),
			Address:   getString(v, "REDIS_ADDRESS", "localhost:6379"),
			Password:  getString(v, "REDIS_PASSWORD", ""),
			DB:        getInt(v, "REDIS_DB", 0),
			KeyPrefix: getString(v, "REDIS_KEY_PREFIX", "entregas"),
		},
		Ledger: LedgerConfig{
			StoreName:        getString(v, "LEDGER_STORE_NAME", "Frenzy Store"),
			Currency:         strings.ToUpper(getString(v, "LEDGER_CURRENCY", "INR")),
			USDRate:          getFloat(v, "LEDGER_USD_RATE", 83.2),
			RestockThreshold: int64(getInt(v, "LEDGER_RESTOCK_THRESHOLD", 5)),
			Timezone:         getString(v, "LEDGER_TIMEZONE", "Asia/Kolkata"),
		},
		Notify: NotifyConfig{
			DMWebhookURL:  getString(v, "NOTIFY_DM_WEBHOOK_URL", ""),
			LogWebhookURL: getString(v, "NOTIFY_LOG_WEBHOOK_URL", ""),
			Timeout:       time.Duration(getInt(v, "NOTIFY_TIMEOUT_SECONDS", 10)) * time.Second,
			LogBuffer:     getInt(v, "NOTIFY_LOG_BUFFER", 256),
		},
		Auth: AuthConfig{
			Operators: getString(v, "AUTH_OPERATORS", ""),
		},
	}

	switch cfg.Store.Driver {
	case StoreMemory, StoreFile, StoreSQLite, StorePostgres, StoreRedis:
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}
	if cfg.Ledger.RestockThreshold < 0 {
		return nil, fmt.Errorf("LEDGER_RESTOCK_THRESHOLD no puede ser negativo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		if s, ok := v.Get(key).(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return def
			}
			return f
		}
		return v.GetFloat64(key)
	}
	return def
}
