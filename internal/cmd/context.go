package cmd

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/painel/internal/api"
	"github.com/felixgeelhaar/painel/internal/authz"
	"github.com/felixgeelhaar/painel/internal/config"
	"github.com/felixgeelhaar/painel/internal/credential"
	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
	"github.com/felixgeelhaar/painel/internal/log"
	"github.com/felixgeelhaar/painel/internal/session"
	"github.com/felixgeelhaar/painel/internal/ux"
)

// CommandContext holds the global flags of one invocation
type CommandContext struct {
	ConfigPath string
	Format     string
	LogLevel   string
	NoColor    bool
	Verbose    bool
}

// NewCommandContext extracts the persistent flags from cmd
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	format, err := flags.GetString("format")
	if err != nil {
		return nil, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, err
	}
	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return nil, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		ConfigPath: configPath,
		Format:     format,
		LogLevel:   logLevel,
		NoColor:    noColor,
		Verbose:    verbose,
	}, nil
}

// resolveConfigPath returns --config, PAINEL_CONFIG or the default path
func (c *CommandContext) resolveConfigPath() (string, error) {
	if c.ConfigPath != "" {
		return c.ConfigPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the configuration and applies the flag overrides
func (c *CommandContext) loadConfig() (*config.Config, string, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}

	if c.LogLevel != "" {
		if !log.ValidLevel(c.LogLevel) {
			return nil, path, errors.NewConfigError(errors.ErrCodeConfigInvalid,
				"--log-level must be debug, info, warn or error", nil)
		}
		cfg.Logging.Level = c.LogLevel
	}
	if c.Format == "" {
		c.Format = cfg.Defaults.Format
	}
	if cfg.Defaults.NoColor {
		c.NoColor = true
	}
	return cfg, path, nil
}

// app is the wired client for one command: configuration, credential
// storage, API client, session and capability gate
type app struct {
	cctx       *CommandContext
	cfg        *config.Config
	configPath string

	logger  *log.Logger
	creds   *credential.Store
	client  *api.Client
	session *session.Store
	gate    *authz.Gate

	out    io.Writer
	errOut io.Writer

	closers     []func() error
	invalidated atomic.Bool
}

// newApp wires everything a command needs from the flags and config file
func newApp(cmd *cobra.Command) (*app, error) {
	cctx, err := NewCommandContext(cmd)
	if err != nil {
		return nil, err
	}
	cfg, path, err := cctx.loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := cfg.LogConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logger := log.New(logCfg)

	a := &app{
		cctx:       cctx,
		cfg:        cfg,
		configPath: path,
		logger:     logger,
		out:        cmd.OutOrStdout(),
		errOut:     cmd.ErrOrStderr(),
	}

	kv, err := a.openKV(cmd.Context())
	if err != nil {
		return nil, err
	}
	a.creds = credential.NewStore(kv)

	table, err := cfg.CapabilityTable()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.client, err = api.NewClient(api.Config{
		BaseURL:     cfg.API.BaseURL,
		HTTPClient:  &http.Client{Timeout: cfg.API.Timeout},
		Credentials: a.creds,
		Logger:      logger,
		Options:     &cfg.Options,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.session = session.New(session.Config{
		Client:      a.client,
		Credentials: a.creds,
		Navigator:   session.NavigatorFunc(func() { a.invalidated.Store(true) }),
		Logger:      logger,
	})
	a.closers = append(a.closers, func() error { a.session.Close(); return nil })
	a.gate = authz.NewGate(a.session, table)

	return a, nil
}

func (a *app) openKV(ctx context.Context) (credential.KV, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendMemory:
		return credential.NewMemoryKV(), nil
	case config.BackendRedis:
		r := a.cfg.Storage.Redis
		kv, err := credential.OpenRedisKV(ctx, credential.RedisConfig{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, kv.Close)
		return kv, nil
	default:
		path, err := a.cfg.CredentialsPath()
		if err != nil {
			return nil, err
		}
		return credential.NewFileKV(path), nil
	}
}

// Close releases the storage backend and detaches the session
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.WithError(err).Debug("close failed")
		}
	}
	a.closers = nil
}

// authenticate restores the stored session and returns the verified identity
func (a *app) authenticate(ctx context.Context) (*domain.Identity, error) {
	token, err := a.creds.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errors.NewNotAuthenticated()
	}

	snap := a.session.Restore(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !snap.Authenticated() {
		return nil, errors.NewSessionExpired()
	}
	return snap.Identity, nil
}

// require authenticates and checks that the identity may use every feature
func (a *app) require(ctx context.Context, features ...authz.Feature) (*domain.Identity, error) {
	identity, err := a.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range features {
		if err := a.gate.Require(f); err != nil {
			return nil, err
		}
	}
	return identity, nil
}

// print writes v in the selected output format
func (a *app) print(v any) error {
	return printFormatted(a.out, a.cctx, v)
}

// success prints a confirmation line, text format only
func (a *app) success(format string, args ...any) {
	if !a.textOutput() {
		return
	}
	ux.Success(a.out, a.cctx.NoColor, format, args...)
}

func printFormatted(w io.Writer, cctx *CommandContext, v any) error {
	f, err := ux.NewFormatter(cctx.Format, &ux.FormatterOptions{
		Writer:  w,
		NoColor: cctx.NoColor,
	})
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid, err.Error(), nil)
	}
	return f.Format(v)
}

// withApp wraps a RunE that needs the wired client
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a, args)
	}
}

func printError(cmd *cobra.Command, err error) {
	verbose, noColor := false, false
	if cctx, cerr := NewCommandContext(cmd); cerr == nil {
		verbose, noColor = cctx.Verbose, cctx.NoColor
	}
	ux.PrintError(cmd.ErrOrStderr(), err, verbose, noColor)
}

// textOutput reports whether the human-readable format is selected
func (a *app) textOutput() bool {
	return a.cctx.Format == "" || a.cctx.Format == "text"
}

// show prints text in text format and v in json or yaml
func (a *app) show(v, text any) error {
	if a.textOutput() {
		return a.print(text)
	}
	return a.print(v)
}
