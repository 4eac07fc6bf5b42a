package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

const defaultTool = "entrez-go"

// Env holds the identification values NCBI requires from API callers
type Env struct {
	Tool  string
	Email string
}

// LoadEnv resolves caller identification from the environment:
// 1. A .env file in the working directory, if present
// 2. ENTREZ_TOOL (defaults to "entrez-go" if unset)
// 3. ENTREZ_EMAIL (required - NCBI usage policy asks for a contact address)
func LoadEnv() (*Env, error) {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	tool := os.Getenv("ENTREZ_TOOL")
	if tool == "" {
		tool = defaultTool
	}

	email := os.Getenv("ENTREZ_EMAIL")
	if email == "" {
		return nil, errors.New("ENTREZ_EMAIL must be set in .env file or environment")
	}

	return &Env{
		Tool:  tool,
		Email: email,
	}, nil
}
