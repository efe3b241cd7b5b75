package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"docexd/internal/batch"
	"docexd/internal/config"
	"docexd/internal/extract"
	"docexd/internal/httpapi"
	"docexd/internal/lifecycle"
	"docexd/internal/vlm"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docexd",
		Short:         "Document extraction service: PDF in, structured markdown out",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newExtractCmd(), newWarmupCmd(), newVersionCmd())
	return root
}

// loadConfig merges file config (optional) with environment overrides and
// fills defaults.
func loadConfig(path string) (config.Config, error) {
	config.LoadDotenv()
	var cfg config.Config
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	cfg = config.ApplyEnv(cfg)
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "~/storage"
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 1
	}
	return cfg, nil
}

func initLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if config.Debug() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// buildApp wires the lifecycle manager, orchestrator and batch coordinator
// from a resolved config.
func buildApp(cfg config.Config) (*httpapi.App, *lifecycle.Manager, error) {
	lm := lifecycle.NewWithConfig(lifecycle.ManagerConfig{
		EngineCacheCapacity: cfg.EngineCacheCapacity,
		LocalOptions:        vlm.LocalOptions{ModelsDir: cfg.LocalModelsDir},
	})
	providerName := cfg.VLMProvider
	if providerName == "" {
		providerName = string(vlm.ProviderOpenAI)
	}
	provider, err := vlm.ParseProvider(providerName)
	if err != nil {
		return nil, nil, err
	}
	settings := vlm.Settings{
		Provider:     provider,
		APIKey:       cfg.VLMAPIKey,
		BaseURL:      cfg.VLMBaseURL,
		DefaultModel: cfg.VLMModel,
		Prompt:       cfg.VLMPrompt,
	}
	orch, err := extract.New(lm, settings, cfg.StorageDir)
	if err != nil {
		return nil, nil, err
	}
	coord := batch.New(orch, cfg.BatchConcurrency)
	return &httpapi.App{Orch: orch, Coord: coord}, lm, nil
}

func newServeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			initLogging()
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			app, lm, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer lm.ReleaseAll()

			if cfg.MaxBodyMB > 0 {
				httpapi.SetMaxBodyBytes(int64(cfg.MaxBodyMB) << 20)
			}
			httpapi.SetLogger(log.Logger)
			httpapi.SetCORSOptions(true, []string{"*"}, []string{"GET", "POST", "OPTIONS"}, []string{"*"})

			baseCtx, cancel := context.WithCancel(context.Background())
			defer cancel()
			httpapi.SetBaseContext(baseCtx)

			srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(app)}
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("storage_dir", cfg.StorageDir).Msg("docexd listening")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("server error")
				}
			}()

			// Graceful shutdown (Ctrl+C / SIGTERM)
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop
			cancel()
			ctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer scancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.yaml/.json/.toml)")
	return cmd
}

func newExtractCmd() *cobra.Command {
	var (
		cfgPath    string
		output     string
		ocr        bool
		tables     bool
		vlmMode    string
		vlmModelID string
	)
	cmd := &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Extract a single document and print its markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initLogging()
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			app, lm, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer lm.ReleaseAll()

			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := app.Extract(cmd.Context(), extract.Request{
				Content:         content,
				Filename:        filepath.Base(args[0]),
				OCREnabled:      ocr,
				TableExtraction: tables,
				VLMMode:         vlmMode,
				VLMModelID:      vlmModelID,
			})
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, []byte(res.Markdown), 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Markdown)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write markdown to file instead of stdout")
	cmd.Flags().BoolVar(&ocr, "ocr", true, "Enable OCR")
	cmd.Flags().BoolVar(&tables, "tables", true, "Enable table recognition")
	cmd.Flags().StringVar(&vlmMode, "vlm-mode", "", "Image description mode: none, local or api")
	cmd.Flags().StringVar(&vlmModelID, "vlm-model", "", "VLM model id override")
	return cmd
}

func newWarmupCmd() *cobra.Command {
	var (
		cfgPath    string
		vlmMode    string
		vlmModelID string
	)
	cmd := &cobra.Command{
		Use:   "warmup",
		Short: "Preload the conversion engine (and local model) then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			initLogging()
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			app, lm, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer lm.ReleaseAll()
			if err := app.Warmup(cmd.Context(), vlmMode, vlmModelID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "warmup completed")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&vlmMode, "vlm-mode", "", "Image description mode to warm")
	cmd.Flags().StringVar(&vlmModelID, "vlm-model", "", "VLM model id to warm")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the docexd version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "docexd", version)
		},
	}
}
