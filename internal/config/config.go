package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config reúne toda a configuração do serviço. As janelas de correlação e
// as marcas de retenção são valores operacionais ajustados em campo,
// carregados do ambiente com defaults.
type Config struct {
	Port     string
	APIToken string

	// Banco: "postgres" usa as variáveis DB_*; "sqlite" usa DBPath.
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimezone string

	// Janela (segundos) do casamento por recência do mesmo job_id.
	JanelaRecenciaSeg int
	// Janela simétrica (segundos) da inferência por metadados do arquivo.
	JanelaMetadadosSeg int
	// Teto de candidatos varridos na redescoberta por conteúdo.
	LimiteRedescoberta int

	// Retenção: marcas alta/baixa de utilização, tamanho do lote e os
	// tetos de cada estratégia.
	RetencaoMarcaAlta  float64
	RetencaoMarcaBaixa float64
	RetencaoLote       int
	MaxLinhas          int64
	MaxBytesBanco      int64
}

// Load carrega .env (se existir) e monta a Config com defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "10000"),
		APIToken: getEnv("API_TOKEN", ""),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "eventos.db"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBTimezone: getEnv("DB_TIMEZONE", "America/Sao_Paulo"),

		JanelaRecenciaSeg:  getEnvAsInt("JANELA_RECENCIA_SEG", 15),
		JanelaMetadadosSeg: getEnvAsInt("JANELA_METADADOS_SEG", 8),
		LimiteRedescoberta: getEnvAsInt("LIMITE_REDESCOBERTA", 400),

		RetencaoMarcaAlta:  getEnvAsFloat("RETENCAO_MARCA_ALTA", 0.80),
		RetencaoMarcaBaixa: getEnvAsFloat("RETENCAO_MARCA_BAIXA", 0.70),
		RetencaoLote:       getEnvAsInt("RETENCAO_LOTE", 1000),
		MaxLinhas:          getEnvAsInt64("MAX_LINHAS", 500_000),
		MaxBytesBanco:      getEnvAsInt64("MAX_BYTES_BANCO", 2<<30),
	}

	if cfg.DBDriver == "postgres" &&
		(cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "") {
		return nil, fmt.Errorf("variáveis de ambiente de DB não configuradas")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
