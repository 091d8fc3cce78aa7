// Package config fills configuration structs from environment variables.
//
// Fields are described with caarlos0/env tags. Dotenv files are read with
// joho/godotenv before parsing; variables already set in the process take
// precedence over file values.
//
//	type App struct {
//	    DatabaseURL string `env:"DATABASE_URL,required"`
//	    Strict      bool   `env:"RBAC_STRICT_MANDATORY" envDefault:"false"`
//	}
//
//	cfg, err := config.Load[App](config.WithEnvFiles(".env"))
package config
