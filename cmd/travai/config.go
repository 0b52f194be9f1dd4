package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"github.com/m-mizutani/travai/archive"
	"github.com/m-mizutani/travai/calendar"
	"github.com/m-mizutani/travai/extract"
	"github.com/m-mizutani/travai/llm"
	"github.com/m-mizutani/travai/planner"
	"github.com/m-mizutani/travai/trace"
	tracelogger "github.com/m-mizutani/travai/trace/logger"
	traceotel "github.com/m-mizutani/travai/trace/otel"
	"github.com/urfave/cli/v3"
)

const (
	extractorRule = "rule"
	extractorLLM  = "llm"
)

// pipelineConfig holds every setting needed to assemble a travai.Service.
type pipelineConfig struct {
	provider      string
	model         string
	geminiAPIKey  string
	openaiAPIKey  string
	claudeAPIKey  string
	openaiBaseURL string
	gcpProject    string
	gcpLocation   string
	promptsFile   string
	planTimeout   time.Duration

	extractor          string
	credentialsFile    string
	tokenFile          string
	calendarID         string
	timeZone           string
	publishConcurrency int
	publishTimeout     time.Duration

	archiveDir    string
	archiveBucket string
	archivePrefix string

	traceLog  bool
	traceOtel bool
}

func (x *pipelineConfig) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm",
			Usage:       "LLM backend of the planning collaborators (gemini, openai, claude)",
			Value:       string(llm.ProviderGemini),
			Sources:     cli.EnvVars("TRAVAI_LLM"),
			Destination: &x.provider,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "model name, the backend default when empty",
			Sources:     cli.EnvVars("TRAVAI_LLM_MODEL"),
			Destination: &x.model,
		},
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("TRAVAI_GEMINI_API_KEY", "GEMINI_API_KEY"),
			Destination: &x.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Sources:     cli.EnvVars("TRAVAI_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &x.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("TRAVAI_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"),
			Destination: &x.claudeAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-base-url",
			Usage:       "endpoint of an OpenAI compatible API",
			Sources:     cli.EnvVars("TRAVAI_OPENAI_BASE_URL"),
			Destination: &x.openaiBaseURL,
		},
		&cli.StringFlag{
			Name:        "gcp-project",
			Usage:       "Google Cloud project; routes gemini and claude through Vertex AI",
			Sources:     cli.EnvVars("TRAVAI_GCP_PROJECT"),
			Destination: &x.gcpProject,
		},
		&cli.StringFlag{
			Name:        "gcp-location",
			Usage:       "Vertex AI location",
			Value:       "us-central1",
			Sources:     cli.EnvVars("TRAVAI_GCP_LOCATION"),
			Destination: &x.gcpLocation,
		},
		&cli.StringFlag{
			Name:        "prompts",
			Usage:       "YAML file overriding the collaborator prompts",
			Sources:     cli.EnvVars("TRAVAI_PROMPTS"),
			Destination: &x.promptsFile,
		},
		&cli.DurationFlag{
			Name:        "plan-timeout",
			Usage:       "shared deadline of the three collaborator calls",
			Value:       travai.DefaultPlanTimeout,
			Sources:     cli.EnvVars("TRAVAI_PLAN_TIMEOUT"),
			Destination: &x.planTimeout,
		},
		&cli.StringFlag{
			Name:        "extractor",
			Usage:       "calendar event extractor (rule, llm)",
			Value:       extractorRule,
			Sources:     cli.EnvVars("TRAVAI_EXTRACTOR"),
			Destination: &x.extractor,
		},
		&cli.StringFlag{
			Name:        "calendar-credentials",
			Usage:       "OAuth client file for Google Calendar; calendar requests report credentials_missing without it",
			Value:       "credentials.json",
			Sources:     cli.EnvVars("TRAVAI_CALENDAR_CREDENTIALS"),
			Destination: &x.credentialsFile,
		},
		&cli.StringFlag{
			Name:        "calendar-token",
			Usage:       "authorized OAuth token file for Google Calendar",
			Value:       "token.json",
			Sources:     cli.EnvVars("TRAVAI_CALENDAR_TOKEN"),
			Destination: &x.tokenFile,
		},
		&cli.StringFlag{
			Name:        "calendar-id",
			Usage:       "target Google Calendar",
			Value:       calendar.DefaultCalendarID,
			Sources:     cli.EnvVars("TRAVAI_CALENDAR_ID"),
			Destination: &x.calendarID,
		},
		&cli.StringFlag{
			Name:        "time-zone",
			Usage:       "IANA time zone of extracted event times",
			Value:       calendar.DefaultTimeZone,
			Sources:     cli.EnvVars("TRAVAI_TIME_ZONE"),
			Destination: &x.timeZone,
		},
		&cli.IntFlag{
			Name:        "publish-concurrency",
			Usage:       "concurrent calendar insert calls",
			Value:       calendar.DefaultConcurrency,
			Sources:     cli.EnvVars("TRAVAI_PUBLISH_CONCURRENCY"),
			Destination: &x.publishConcurrency,
		},
		&cli.DurationFlag{
			Name:        "publish-timeout",
			Usage:       "deadline of one calendar insert call",
			Value:       calendar.DefaultCallTimeout,
			Sources:     cli.EnvVars("TRAVAI_PUBLISH_TIMEOUT"),
			Destination: &x.publishTimeout,
		},
		&cli.StringFlag{
			Name:        "archive-dir",
			Usage:       "directory to archive runs in",
			Sources:     cli.EnvVars("TRAVAI_ARCHIVE_DIR"),
			Destination: &x.archiveDir,
		},
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket to archive runs in",
			Sources:     cli.EnvVars("TRAVAI_ARCHIVE_BUCKET"),
			Destination: &x.archiveBucket,
		},
		&cli.StringFlag{
			Name:        "archive-prefix",
			Usage:       "object name prefix in the archive bucket",
			Value:       "runs/",
			Sources:     cli.EnvVars("TRAVAI_ARCHIVE_PREFIX"),
			Destination: &x.archivePrefix,
		},
		&cli.BoolFlag{
			Name:        "trace-log",
			Usage:       "log every run lifecycle event",
			Sources:     cli.EnvVars("TRAVAI_TRACE_LOG"),
			Destination: &x.traceLog,
		},
		&cli.BoolFlag{
			Name:        "trace-otel",
			Usage:       "emit OpenTelemetry spans through the global tracer provider",
			Sources:     cli.EnvVars("TRAVAI_TRACE_OTEL"),
			Destination: &x.traceOtel,
		},
	}
}

func (x *pipelineConfig) apiKey(p llm.Provider) string {
	switch p {
	case llm.ProviderOpenAI:
		return x.openaiAPIKey
	case llm.ProviderClaude:
		return x.claudeAPIKey
	default:
		return x.geminiAPIKey
	}
}

func (x *pipelineConfig) generator(ctx context.Context) (travai.TextGenerator, error) {
	provider, err := llm.ParseProvider(x.provider)
	if err != nil {
		return nil, err
	}

	return llm.New(ctx, llm.Config{
		Provider:    provider,
		APIKey:      x.apiKey(provider),
		Model:       x.model,
		GCPProject:  x.gcpProject,
		GCPLocation: x.gcpLocation,
		BaseURL:     x.openaiBaseURL,
	})
}

func (x *pipelineConfig) collaborators(generator travai.TextGenerator) ([]travai.Collaborator, error) {
	var opts []planner.Option
	if x.promptsFile != "" {
		prompts, err := planner.LoadPrompts(x.promptsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, planner.WithPrompts(prompts))
	}
	return planner.NewAll(generator, opts...)
}

func (x *pipelineConfig) newExtractor(generator travai.TextGenerator) (travai.Extractor, error) {
	switch x.extractor {
	case extractorRule, "":
		return extract.NewRuleBased(), nil
	case extractorLLM:
		e, err := extract.NewLLM(generator)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, goerr.New("unknown extractor", goerr.V("extractor", x.extractor))
	}
}

func (x *pipelineConfig) newPublisher() (*calendar.Publisher, error) {
	auth := calendar.NewAuthenticator(x.credentialsFile, x.tokenFile)
	return calendar.New(auth,
		calendar.WithCalendarID(x.calendarID),
		calendar.WithTimeZone(x.timeZone),
		calendar.WithConcurrency(x.publishConcurrency),
		calendar.WithCallTimeout(x.publishTimeout),
	)
}

// newArchive returns nil when archiving is not configured.
func (x *pipelineConfig) newArchive(ctx context.Context) (archive.Repository, error) {
	switch {
	case x.archiveBucket != "" && x.archiveDir != "":
		return nil, goerr.New("--archive-dir and --archive-bucket are mutually exclusive")
	case x.archiveBucket != "":
		repo, err := archive.NewCloudStorage(ctx, x.archiveBucket, x.archivePrefix)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case x.archiveDir != "":
		return archive.NewFile(x.archiveDir), nil
	default:
		return nil, nil
	}
}

func (x *pipelineConfig) traceHandlers(logger *slog.Logger) []trace.Handler {
	var handlers []trace.Handler
	if x.traceLog {
		handlers = append(handlers, tracelogger.New(tracelogger.WithLogger(logger)))
	}
	if x.traceOtel {
		handlers = append(handlers, traceotel.New())
	}
	return handlers
}

// pipelineResult is an assembled service and the archive it writes to, if any.
type pipelineResult struct {
	service *travai.Service
	archive archive.Repository
}

// build assembles the service. extra handlers receive the trace of every run in
// addition to the configured ones.
func (x *pipelineConfig) build(ctx context.Context, logger *slog.Logger, extra ...trace.Handler) (*pipelineResult, error) {
	generator, err := x.generator(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM backend")
	}

	collaborators, err := x.collaborators(generator)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create planning collaborators")
	}

	extractor, err := x.newExtractor(generator)
	if err != nil {
		return nil, err
	}

	publisher, err := x.newPublisher()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create calendar publisher")
	}

	repo, err := x.newArchive(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create run archive")
	}

	orchestrator := travai.NewOrchestrator(
		collaborators[travai.ProducerFlights],
		collaborators[travai.ProducerStay],
		collaborators[travai.ProducerActivities],
		travai.WithPlanTimeout(x.planTimeout),
	)

	handlers := append(x.traceHandlers(logger), extra...)
	options := []travai.ServiceOption{
		travai.WithExtractor(extractor),
		travai.WithPublisher(publisher),
		travai.WithTrace(trace.Multi(handlers...)),
	}
	if repo != nil {
		options = append(options, travai.WithRunRepository(repo))
	}

	logger.Info("pipeline ready",
		slog.String("llm", x.provider),
		slog.String("extractor", x.extractor),
		slog.String("calendar_id", x.calendarID),
		slog.Bool("archive", repo != nil),
	)

	return &pipelineResult{
		service: travai.NewService(orchestrator, options...),
		archive: repo,
	}, nil
}
