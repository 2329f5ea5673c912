package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	awsadapter "github.com/wonderdash/wonderdash/internal/adapters/platform/aws"
	"github.com/wonderdash/wonderdash/internal/cache"
	"github.com/wonderdash/wonderdash/internal/config"
	"github.com/wonderdash/wonderdash/internal/core/ports"
	"github.com/wonderdash/wonderdash/internal/core/service"
	"github.com/wonderdash/wonderdash/internal/errors"
	"github.com/wonderdash/wonderdash/internal/log"
	"github.com/wonderdash/wonderdash/internal/render/input"
	"github.com/wonderdash/wonderdash/internal/render/text"
)

// LoadConfig unmarshals and validates the session configuration from viper.
func LoadConfig(ctx context.Context, v *viper.Viper) (*config.Config, error) {
	cfg := config.DefaultConfig()
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(ctx, cfg); err != nil {
		var details strings.Builder
		details.WriteString("Configuration validation failed:")
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range validationErrors {
				details.WriteString(fmt.Sprintf("\n - Field '%s': failed '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		}
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, details.String(), "Check your configuration file or flags.")
	}

	cfg.Normalize()
	return cfg, nil
}

// BuildApplicationFromViper wires the full app: config, logger, AWS
// provider, cache store, refresh coordinator, snapshot publisher, renderer
// and input reader.
func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg, err := LoadConfig(ctx, v)
	if err != nil {
		return nil, err
	}

	logger, err := log.NewLogger(log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Infof(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	}

	clock := ports.SystemClock{}

	provider, err := awsadapter.NewProvider(ctx, awsadapter.Options{
		Region:       cfg.AWS.Region,
		Profile:      cfg.AWS.Profile,
		MetricPeriod: cfg.MetricPeriod(),
		MetricWindow: cfg.MetricWindow(),
		RateLimitRPS: cfg.Settings.APIRateLimitRPS,
	}, clock, logger.WithFields(map[string]any{"provider": awsadapter.ProviderTypeAWS}))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize AWS provider")
	}

	store := cache.NewStore(cfg.CacheTTL(), clock)

	coordinator := service.NewCoordinator(
		store,
		provider,
		logger.WithFields(map[string]any{"component": "coordinator"}),
		cfg.Settings.ConcurrencyBudget,
		service.WithInterval(cfg.RefreshInterval()),
	)

	keys := service.KeyResolver{
		DistributionID: cfg.Targets.DistributionID,
		LogGroupPrefix: cfg.Targets.LogGroupPrefix,
	}

	publisher := service.NewPublisher(store, coordinator, keys,
		logger.WithFields(map[string]any{"component": "publisher"}))

	renderer, err := text.NewRenderer(text.Config{NoColor: cfg.Settings.NoColor}, logger)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeRenderError, "failed to initialize renderer")
	}

	return &Application{
		Config:      cfg,
		Logger:      logger,
		Provider:    provider,
		Store:       store,
		Coordinator: coordinator,
		Publisher:   publisher,
		Renderer:    renderer,
		Events:      input.NewKeyReader(logger),
		Keys:        keys,
	}, nil
}
