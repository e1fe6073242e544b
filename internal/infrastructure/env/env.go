package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvService loads dotenv files into the process environment so that the
// config layer sees them as ONBOARDING_* variables.
type EnvService struct {
	appEnv string
	loaded []string
}

// NewEnvService loads ".env" and then overlays ".env.<APP_ENV>". Missing
// files are fine; unreadable ones are reported.
func NewEnvService() (*EnvService, error) {
	return load(".")
}

func load(dir string) (*EnvService, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	svc := &EnvService{appEnv: appEnv}

	base := dir + "/.env"
	if err := godotenv.Load(base); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", base, err)
		}
	} else {
		svc.loaded = append(svc.loaded, base)
	}

	overlay := fmt.Sprintf("%s/.env.%s", dir, appEnv)
	if err := godotenv.Overload(overlay); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", overlay, err)
		}
	} else {
		svc.loaded = append(svc.loaded, overlay)
	}

	return svc, nil
}

func (e *EnvService) AppEnv() string {
	return e.appEnv
}

// Loaded lists the dotenv files that were applied, in order.
func (e *EnvService) Loaded() []string {
	return e.loaded
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) GetWithDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
