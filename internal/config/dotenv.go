package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// MergeEnvFile reads dotenv assignments from path into the snapshot without
// overwriting variables the real environment already defines. The file is an
// explicit flag, so a missing or unreadable file is an error.
func MergeEnvFile(path string, env map[string]string) error {
	vals, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}
	for k, v := range vals {
		if _, ok := env[k]; !ok {
			env[k] = v
		}
	}
	return nil
}
