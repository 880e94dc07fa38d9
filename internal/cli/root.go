package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/hydrakit/config"
	"github.com/kbukum/hydrakit/httpclient"
	"github.com/kbukum/hydrakit/hydra"
	"github.com/kbukum/hydrakit/logger"
	"github.com/kbukum/hydrakit/observability"
	"github.com/kbukum/hydrakit/version"
)

const serviceName = "hydractl"

// app holds the state shared by every command of one invocation.
type app struct {
	configFile  string
	envFile     string
	entrypoint  string
	token       string
	user        string
	apiKey      string
	checkExpiry bool
	timeout     time.Duration
	headers     []string
	logLevel    string
	logFormat   string
	output      string
	otlp        bool

	cfg    *config.ClientConfig
	log    *logger.Logger
	client *hydra.Client

	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// NewRootCmd creates the root cobra command for hydractl.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   serviceName,
		Short: "hydractl talks to Hydra (API Platform) APIs",
		Long: "hydractl reads and writes resources of a Hydra/JSON-LD API.\n" +
			"Configuration comes from config.yml, .env and HYDRA_* environment variables; flags win.",
		Version:            version.Short(),
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	f := root.PersistentFlags()
	f.StringVar(&a.configFile, "config", "", "Config file (default: searched config.yml)")
	f.StringVar(&a.envFile, "env-file", "", "Env file (default: searched .env)")
	f.StringVar(&a.entrypoint, "entrypoint", "", "API entrypoint URL (or HYDRA_ENTRYPOINT env)")
	f.StringVar(&a.token, "token", "", "Bearer token (or AUTH_TOKEN env)")
	f.StringVarP(&a.user, "user", "u", "", "Basic credentials as user:password (or AUTH_USERNAME/AUTH_PASSWORD env)")
	f.StringVar(&a.apiKey, "api-key", "", "API key sent in X-API-Key (or AUTH_API_KEY env)")
	f.BoolVar(&a.checkExpiry, "check-expiry", false, "Do not send the token once its JWT exp has passed")
	f.DurationVar(&a.timeout, "timeout", 0, "Request timeout")
	f.StringArrayVarP(&a.headers, "header", "H", nil, "Extra request header as Name=Value (repeatable)")
	f.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.StringVar(&a.logFormat, "log-format", "", "Log format (console, json)")
	f.StringVarP(&a.output, "output", "o", "json", "Output format (json, yaml)")
	f.BoolVar(&a.otlp, "otlp", false, "Export traces and metrics over OTLP/HTTP")

	root.AddCommand(
		newGetCmd(a),
		newListCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newReplaceCmd(a),
		newDeleteCmd(a),
		newPingCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the client.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if _, err := formatterFor(a.output); err != nil {
		return err
	}
	if offline(cmd) {
		return nil
	}

	var opts []config.LoaderOption
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}

	cfg, err := config.LoadClient(serviceName, func(c *config.ClientConfig) error {
		return a.override(cmd, c)
	}, opts...)
	if err != nil {
		return err
	}
	a.cfg = cfg

	cfg.Logging.Writer = cmd.ErrOrStderr()
	a.log = logger.New(&cfg.Logging, serviceName)

	hydraOpts := []hydra.Option{
		hydra.WithLogger(a.log.WithComponent("hydra")),
		hydra.WithTokenSupplier(cfg.Auth.Supplier(a.log)),
		hydra.WithCredentials(cfg.Auth.Credentials()),
	}
	if cfg.Observability.Enabled {
		metrics, err := a.initTelemetry(cmd.Context())
		if err != nil {
			return err
		}
		hydraOpts = append(hydraOpts, hydra.WithMetrics(metrics))
	}

	client, err := hydra.New(cfg.Hydra, hydraOpts...)
	if err != nil {
		return err
	}
	a.client = client
	a.log.Debug("Client ready", logger.Fields(
		"entrypoint", cfg.Hydra.Entrypoint,
		"auth", cfg.Auth.Describe(),
	))
	return nil
}

// offline reports whether cmd runs without an API client.
func offline(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "completion"
}

// override applies flags the user set explicitly on top of cfg.
func (a *app) override(cmd *cobra.Command, cfg *config.ClientConfig) error {
	flags := cmd.Flags()
	if flags.Changed("entrypoint") {
		cfg.Hydra.Entrypoint = a.entrypoint
	}
	if flags.Changed("token") {
		cfg.Auth.Token = a.token
	}
	if flags.Changed("user") {
		user, pass, _ := strings.Cut(a.user, ":")
		cfg.Auth.Username, cfg.Auth.Password = user, pass
	}
	if flags.Changed("api-key") {
		cfg.Auth.APIKey = a.apiKey
	}
	if flags.Changed("check-expiry") {
		cfg.Auth.CheckExpiry = a.checkExpiry
	}
	if flags.Changed("timeout") {
		cfg.Hydra.Timeout = a.timeout
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if flags.Changed("otlp") {
		cfg.Observability.Enabled = a.otlp
	}
	for _, h := range a.headers {
		name, value, ok := strings.Cut(h, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid header %q: expected Name=Value", h)
		}
		if cfg.Hydra.Headers == nil {
			cfg.Hydra.Headers = make(map[string]string)
		}
		cfg.Hydra.Headers[strings.TrimSpace(name)] = value
	}
	return nil
}

func (a *app) initTelemetry(ctx context.Context) (*observability.RequestMetrics, error) {
	tp, err := observability.InitTracer(ctx, a.cfg.Observability)
	if err != nil {
		return nil, err
	}
	a.tracer = tp
	mp, err := observability.InitMeter(ctx, a.cfg.Observability)
	if err != nil {
		return nil, err
	}
	a.meter = mp
	return observability.NewRequestMetrics(observability.Meter(serviceName))
}

// teardown releases the client and flushes telemetry.
func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), 5*time.Second)
	defer cancel()

	if a.client != nil {
		_ = a.client.Close(ctx)
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.log.Warn("Tracer shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}
	if a.meter != nil {
		if err := a.meter.Shutdown(ctx); err != nil {
			a.log.Warn("Meter shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}
	return nil
}

// Hint returns advice for a failed round trip, or "" when err has none.
func Hint(err error) string {
	switch {
	case httpclient.IsTimeout(err):
		return "the API did not answer in time; raise --timeout"
	case httpclient.IsConnection(err):
		return "cannot reach the API; check --entrypoint"
	case httpclient.IsCanceled(err):
		return "interrupted"
	}
	return ""
}
