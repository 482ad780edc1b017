// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the drafting-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/drafting-engine/internal/generate"
	"github.com/pdiddy/drafting-engine/internal/pipeline"
	"github.com/pdiddy/drafting-engine/internal/sections"
	"github.com/pdiddy/drafting-engine/internal/secrets"
	"github.com/pdiddy/drafting-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the drafting-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "drafting-engine",
	Short: "Staged patent-section drafting pipeline",
	Long: `drafting-engine drafts patent application sections through a fixed
ten-stage pipeline. Each stage unlocks when its predecessor is saved or
skipped; generated sections accumulate into the antecedent-basis context
for later stages.

Claims are imported from a claims document, converted into sequenced
features, and every saved section is versioned in a local SQLite store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./drafting-engine.yaml or ~/.config/drafting-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the section database (default: .)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("drafting-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "drafting-engine"))
		}
	}

	viper.SetEnvPrefix("DRAFTING_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("store.data_dir", ".")
	viper.SetDefault("generation.model", "gpt-4o")
	viper.SetDefault("generation.timeout", "120s")
	viper.SetDefault("generation.max_tokens", 4096)
	viper.SetDefault("retrieval.timeout", "30s")
	viper.SetDefault("retrieval.max_snippets", 5)
	viper.SetDefault("retrieval.cache_ttl", "10m")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the session configuration from flags, the config
// file, environment, and loaded secrets.
func engineConfig() types.Config {
	dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("store.data_dir")
	}

	return types.Config{
		Store: types.StoreConfig{DataDir: dataDir},
		Generation: types.GenerationConfig{
			Model:     viper.GetString("generation.model"),
			APIKey:    secretDefault("openai-api-key", viper.GetString("generation.api_key")),
			BaseURL:   viper.GetString("generation.base_url"),
			Timeout:   viper.GetDuration("generation.timeout"),
			MaxTokens: viper.GetInt("generation.max_tokens"),
		},
		Retrieval: types.RetrievalConfig{
			BaseURL:     viper.GetString("retrieval.base_url"),
			Timeout:     viper.GetDuration("retrieval.timeout"),
			UserAgent:   "drafting-engine/" + version,
			MaxSnippets: viper.GetInt("retrieval.max_snippets"),
			CacheTTL:    viper.GetDuration("retrieval.cache_ttl"),
		},
	}
}

// openStore opens the section store for the configured data directory.
func openStore(cfg types.Config) (*sections.Store, error) {
	return sections.NewStore(cfg.Store)
}

// openSession opens the store and builds a session over it. Generation and
// retrieval collaborators are attached only when their configuration is
// present; commands that never generate pass needGenerator=false.
func openSession(cmd *cobra.Command, needGenerator bool) (*pipeline.Session, *sections.Store, error) {
	cfg := engineConfig()

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	var gen generate.Generator
	if needGenerator {
		gen, err = generate.NewOpenAIGenerator(cfg.Generation)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
	}

	opts := []pipeline.SessionOption{pipeline.WithNotifier(pipeline.LogNotifier{})}
	if cfg.Retrieval.BaseURL != "" {
		retriever, err := generate.NewHTTPRetriever(cfg.Retrieval)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		ttl := cfg.Retrieval.CacheTTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		opts = append(opts, pipeline.WithRetriever(generate.NewCachedRetriever(retriever, ttl)))
	}

	session, err := pipeline.NewSession(cmd.Context(), store, gen, opts...)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return session, store, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
