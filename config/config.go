package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DeletionPolicy decides what DELETE /employees/:id does. Exactly one policy
// is active per deployment.
type DeletionPolicy string

const (
	DeletionDeactivate DeletionPolicy = "deactivate" // 在籍フラグを落とすだけ
	DeletionCascade    DeletionPolicy = "cascade"    // 勤怠・シフトごと削除
	DeletionProtect    DeletionPolicy = "protect"    // 従属レコードがある間は拒否
)

type Config struct {
	AppPort string
	AppEnv  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	EmployeeDeletionPolicy DeletionPolicy
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg := &Config{
		AppPort: get("APP_PORT", "8080"),
		AppEnv:  get("APP_ENV", "dev"),

		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", "postgres"),
		DBName:     get("DB_NAME", "kintai"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),

		EmployeeDeletionPolicy: DeletionPolicy(get("EMPLOYEE_DELETION_POLICY", string(DeletionDeactivate))),
	}

	switch cfg.EmployeeDeletionPolicy {
	case DeletionDeactivate, DeletionCascade, DeletionProtect:
	default:
		log.Printf("unknown EMPLOYEE_DELETION_POLICY %q, falling back to %q",
			cfg.EmployeeDeletionPolicy, DeletionDeactivate)
		cfg.EmployeeDeletionPolicy = DeletionDeactivate
	}
	return cfg
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
