// Command callticket extracts ERP service tickets from recorded
// customer-service calls. It takes one or more recordings (or ready-made
// transcript files), transcribes them, runs the extraction pipeline, and
// writes one ticket JSON per input.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/daehyun-cc/callticket/internal/config"
	"github.com/daehyun-cc/callticket/internal/extract"
	"github.com/daehyun-cc/callticket/internal/health"
	"github.com/daehyun-cc/callticket/internal/observe"
	"github.com/daehyun-cc/callticket/internal/pipeline"
	"github.com/daehyun-cc/callticket/internal/resilience"
	"github.com/daehyun-cc/callticket/internal/resolve"
	"github.com/daehyun-cc/callticket/internal/vocab"
	"github.com/daehyun-cc/callticket/pkg/provider/llm"
	"github.com/daehyun-cc/callticket/pkg/provider/llm/anyllm"
	llmmock "github.com/daehyun-cc/callticket/pkg/provider/llm/mock"
	oaillm "github.com/daehyun-cc/callticket/pkg/provider/llm/openai"
	"github.com/daehyun-cc/callticket/pkg/provider/stt"
	sttmock "github.com/daehyun-cc/callticket/pkg/provider/stt/mock"
	"github.com/daehyun-cc/callticket/pkg/provider/stt/whisper"
)

const defaultWorkers = 4

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	outDir := flag.String("out", ".", "directory ticket JSON files are written to")
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "callticket: no input files; pass recordings (.wav) or transcripts (.txt)")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "callticket: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "callticket: %v\n", err)
		}
		return 1
	}

	slog.SetDefault(newLogger(cfg.Server.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "callticket"})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	store, err := vocab.NewDirStore(cfg.Vocabulary.Dir)
	if err != nil {
		slog.Error("failed to load domain vocabulary", "dir", cfg.Vocabulary.Dir, "err", err)
		return 1
	}

	// A nil provider is allowed: the extractor then degrades every run
	// and tickets are assembled from fallback rules alone.
	var llmProvider llm.Provider
	if cfg.Providers.LLM.Name != "" {
		llmProvider, err = reg.CreateLLM(cfg.Providers.LLM)
		if err != nil {
			slog.Error("failed to create llm provider", "name", cfg.Providers.LLM.Name, "err", err)
			return 1
		}
		if fallbacks := cfg.Providers.LLMFallbacks; len(fallbacks) > 0 {
			chain := resilience.NewChain(cfg.Providers.LLM.Name, llmProvider)
			for _, entry := range fallbacks {
				fb, err := reg.CreateLLM(entry)
				if err != nil {
					slog.Error("failed to create fallback llm provider", "name", entry.Name, "err", err)
					return 1
				}
				chain.Add(entry.Name, fb)
			}
			llmProvider = chain
		}
	}

	var sttProvider stt.Provider
	if name := cfg.Providers.STT.Name; name != "" {
		sttProvider, err = reg.CreateSTT(cfg.Providers.STT)
		if err != nil {
			slog.Error("failed to create stt provider", "name", name, "err", err)
			return 1
		}
	}

	pipe := pipeline.New(store, newExtractor(cfg, llmProvider))

	if addr := cfg.Server.MetricsAddr; addr != "" {
		ops := health.New(pipe.ReloadVocabulary, health.VocabularyChecker(store))
		go serveOps(addr, ops)
	}

	printStartupSummary(cfg, len(inputs))

	workers := cfg.Pipeline.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, input := range inputs {
		g.Go(func() error {
			return processFile(gctx, pipe, sttProvider, input, *outDir)
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("batch failed", "err", err)
		return 1
	}

	slog.Info("batch complete", "files", len(inputs))
	return 0
}

// newExtractor applies the pipeline tuning knobs from cfg.
func newExtractor(cfg *config.Config, provider llm.Provider) *extract.Extractor {
	var resolverOpts []resolve.Option
	if t := cfg.Pipeline.SimilarityThreshold; t > 0 {
		resolverOpts = append(resolverOpts, resolve.WithThreshold(t))
	}

	var opts []extract.Option
	if cfg.Pipeline.RequestTimeout > 0 {
		opts = append(opts, extract.WithTimeout(cfg.Pipeline.RequestTimeout))
	}
	if cfg.Pipeline.MaxRetries != nil {
		opts = append(opts, extract.WithMaxRetries(*cfg.Pipeline.MaxRetries))
	}
	return extract.New(provider, resolve.New(resolverOpts...), opts...)
}

// processFile turns one input file into one ticket JSON. Transcript files
// (.txt) skip transcription; everything else goes through the STT
// provider.
func processFile(ctx context.Context, pipe *pipeline.Pipeline, sttProvider stt.Provider, path, outDir string) error {
	filename := filepath.Base(path)

	var result pipeline.Result
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read transcript %q: %w", path, err)
		}
		result = pipe.Extract(ctx, string(raw), filename)
	} else {
		if sttProvider == nil {
			return fmt.Errorf("input %q needs transcription but providers.stt is not configured", path)
		}
		start := time.Now()
		transcript, err := sttProvider.TranscribeFile(ctx, path)
		if err != nil {
			return fmt.Errorf("transcribe %q: %w", path, err)
		}
		observe.DefaultMetrics().RecordTranscription(ctx, time.Since(start))
		result = pipe.ExtractSegments(ctx, transcript.Segments, filename)
	}

	out, err := json.MarshalIndent(result.Ticket, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ticket for %q: %w", path, err)
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	outPath := filepath.Join(outDir, base+".ticket.json")
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", outPath, err)
	}

	slog.Info("ticket written",
		"input", path,
		"output", outPath,
		"degraded", result.Degraded,
		"warnings", len(result.Report.Warnings),
	)
	return nil
}

// registerBuiltinProviders wires all built-in provider factories into reg.
func registerBuiltinProviders(reg *config.Registry) {
	// The openai name uses the dedicated SDK-backed provider.
	reg.RegisterLLM("openai", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []oaillm.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaillm.WithBaseURL(entry.BaseURL))
		}
		apiKey := entry.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return oaillm.New(apiKey, entry.Model, opts...)
	})

	// The remaining hosted backends share the any-llm pattern: optional
	// APIKey plus optional BaseURL.
	for _, providerName := range []string{
		"anthropic", "gemini", "deepseek", "mistral", "groq", "llamacpp", "llamafile",
	} {
		reg.RegisterLLM(providerName, func(entry config.ProviderEntry) (llm.Provider, error) {
			var opts []anyllmlib.Option
			if entry.APIKey != "" {
				opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
			}
			if entry.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
			}
			return anyllm.New(providerName, entry.Model, opts...)
		})
	}

	// ollama is a local server; it uses BaseURL for the address, not an
	// API key.
	reg.RegisterLLM("ollama", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []anyllmlib.Option
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.New("ollama", entry.Model, opts...)
	})

	reg.RegisterSTT("whisper", func(entry config.ProviderEntry) (stt.Provider, error) {
		modelPath := entry.Model
		if modelPath == "" {
			modelPath = optString(entry.Options, "model_path")
		}
		var opts []whisper.Option
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, whisper.WithLanguage(lang))
		}
		return whisper.New(modelPath, opts...)
	})

	// The mocks back dry runs without live backends: the llm mock yields
	// degraded extractions (fallback rules only), the stt mock an empty
	// transcript.
	reg.RegisterLLM("mock", func(config.ProviderEntry) (llm.Provider, error) {
		return &llmmock.Provider{}, nil
	})
	reg.RegisterSTT("mock", func(config.ProviderEntry) (stt.Provider, error) {
		return &sttmock.Provider{}, nil
	})
}

func serveOps(addr string, ops *health.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	ops.Register(mux)
	slog.Info("ops endpoint listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Warn("ops endpoint stopped", "err", err)
	}
}

func printStartupSummary(cfg *config.Config, inputs int) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║        callticket — batch summary     ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printProvider("LLM", cfg.Providers.LLM.Name, cfg.Providers.LLM.Model)
	printProvider("STT", cfg.Providers.STT.Name, cfg.Providers.STT.Model)
	fmt.Printf("║  Vocabulary dir  : %-19s║\n", truncate(cfg.Vocabulary.Dir, 19))
	fmt.Printf("║  Input files     : %-19d║\n", inputs)
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printProvider(kind, name, model string) {
	value := name
	if value == "" {
		value = "(not configured)"
	} else if model != "" {
		value = name + " / " + model
	}
	fmt.Printf("║  %-12s    : %-19s║\n", kind, truncate(value, 19))
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-1] + "…"
	}
	return s
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// optString extracts a string value from a provider Options map.
func optString(opts map[string]any, key string) string {
	if opts == nil {
		return ""
	}
	s, _ := opts[key].(string)
	return s
}
