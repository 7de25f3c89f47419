package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendCSV      = "csv"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	Storage  StorageConfig
	Shop     ShopConfig
	LLM      LLMConfig

	MetricsAddr string
	Timezone    string
	AutoMigrate bool
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type TelegramConfig struct {
	Token string
}

type StorageConfig struct {
	LedgerBackend  string // csv or postgres
	SessionBackend string // memory or postgres
	LedgerPath     string
	ProofDir       string
	CatalogPath    string // empty uses the built-in catalog
}

type ShopConfig struct {
	DigitalMenuURL string
	PixKey         string
	PixName        string
	PixBank        string
}

type LLMConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}

	cfg := &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "pizzaria"),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
		},
		Storage: StorageConfig{
			LedgerBackend:  strings.ToLower(getEnv("LEDGER_BACKEND", BackendCSV)),
			SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", BackendMemory)),
			LedgerPath:     getEnv("LEDGER_PATH", "pedidos.csv"),
			ProofDir:       getEnv("PROOF_DIR", "comprovantes"),
			CatalogPath:    getEnv("CATALOG_PATH", ""),
		},
		Shop: ShopConfig{
			DigitalMenuURL: getEnv("DIGITAL_MENU_URL", "https://pizzariadicasa.com.br/cardapio"),
			PixKey:         getEnv("PIX_KEY", "pix@pizzariadicasa.com.br"),
			PixName:        getEnv("PIX_NAME", "PIZZARIA DI CASA"),
			PixBank:        getEnv("PIX_BANK", "MERCADO PAGO"),
		},
		LLM: LLMConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		MetricsAddr: getEnv("METRICS_ADDR", ""),
		Timezone:    getEnv("TIMEZONE", "America/Sao_Paulo"),
		AutoMigrate: isTrue(getEnv("AUTO_MIGRATE", "")),
	}

	switch cfg.Storage.LedgerBackend {
	case BackendCSV, BackendPostgres:
	default:
		return nil, fmt.Errorf("LEDGER_BACKEND must be csv or postgres, got %q", cfg.Storage.LedgerBackend)
	}
	switch cfg.Storage.SessionBackend {
	case BackendMemory, BackendPostgres:
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be memory or postgres, got %q", cfg.Storage.SessionBackend)
	}
	return cfg, nil
}

// NeedsDB reports whether any backend lives in Postgres.
func (c *Config) NeedsDB() bool {
	return c.Storage.LedgerBackend == BackendPostgres || c.Storage.SessionBackend == BackendPostgres
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func isTrue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "1" || strings.EqualFold(v, "true")
}
