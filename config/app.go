package config

import (
	"os"
	"strconv"
	"time"
)

// AppConfig carries everything outside the DB handles: provider settings,
// retrieval tuning, and the configurable prompt texts.
type AppConfig struct {
	Port string

	GeminiAPIKey   string
	EmbeddingModel string // default text-embedding-004
	VertexProject  string
	VertexLocation string
	GenModel       string // default gemini-1.5-flash

	SystemPrompt    string // empty means the built-in default
	SummarizePrompt string

	RetrievalLimit int
	GenTimeout     time.Duration
}

func LoadApp() *AppConfig {
	return &AppConfig{
		Port: getenv("PORT", "8080"),

		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		EmbeddingModel: getenv("EMBEDDING_MODEL", "text-embedding-004"),
		VertexProject:  os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation: getenv("VERTEX_LOCATION", "us-central1"),
		GenModel:       getenv("GEMINI_MODEL", "gemini-1.5-flash"),

		SystemPrompt:    os.Getenv("SYSTEM_PROMPT"),
		SummarizePrompt: os.Getenv("SUMMARIZE_PROMPT"),

		RetrievalLimit: getenvInt("RETRIEVAL_LIMIT", 5),
		GenTimeout:     getenvDuration("GEN_TIMEOUT", 30*time.Second),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
