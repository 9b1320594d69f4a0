package cmd

import (
	"errors"
	"net/http"
	"time"

	metrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"

	"github.com/pqd/pqd-sdk/pkg/api"
	"github.com/pqd/pqd-sdk/pkg/cmd/properties"
	"github.com/pqd/pqd-sdk/pkg/config"
	"github.com/pqd/pqd-sdk/pkg/product"
	"github.com/pqd/pqd-sdk/pkg/session"
	"github.com/pqd/pqd-sdk/pkg/util"
	log "github.com/pqd/pqd-sdk/pkg/util/log"
)

const envFileFlag = "envFile"

// PqdRootCmd - Root Command of the pqd command line
type PqdRootCmd interface {
	RootCmd() *cobra.Command
	Execute() error
	GetProperties() properties.Properties
}

// RootOpt - option of the root command
type RootOpt func(*pqdRootCommand)

// WithClientOptions - options added to the http client the commands talk to the api with
func WithClientOptions(opts ...api.ClientOpt) RootOpt {
	return func(c *pqdRootCommand) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// pqdRootCommand - Represents the pqd root command
type pqdRootCommand struct {
	name       string
	rootCmd    *cobra.Command
	props      properties.Properties
	clientOpts []api.ClientOpt
	env        *environment
	registry   metrics.Registry
	logger     log.FieldLogger
}

// environment - everything a command needs to talk to the api, built once per execution
type environment struct {
	cfg      *config.PqdConfig
	session  *session.Context
	auth     *session.Authenticator
	products *product.Service
	cache    *product.Cache
}

// NewRootCmd - Creates the pqd root command with all its sub commands
func NewRootCmd(exeName, desc string, opts ...RootOpt) PqdRootCmd {
	c := &pqdRootCommand{
		name:     exeName,
		registry: metrics.NewRegistry(),
		logger:   log.NewFieldLogger().WithPackage("sdk.cmd").WithComponent("rootCommand"),
	}
	for _, o := range opts {
		o(c)
	}

	c.rootCmd = &cobra.Command{
		Use:                c.name,
		Short:              desc,
		Version:            buildVersion(),
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  c.initialize,
		PersistentPostRunE: c.finish,
	}

	c.props = properties.NewProperties(c.rootCmd)
	c.props.AddStringPersistentFlag(envFileFlag, "", "Path of the file with environment variables to override configuration")
	config.AddPqdConfigProperties(c.props)
	config.AddLogConfigProperties(c.props, c.name)

	c.rootCmd.AddCommand(
		c.newLoginCmd(),
		c.newRegisterCmd(),
		c.newLogoutCmd(),
		c.newWhoamiCmd(),
		c.newProductsCmd(),
		c.newProductCmd(),
	)
	return c
}

// initialize - loads the env file and sets up logging, the api environment is built on first use
func (c *pqdRootCommand) initialize(cmd *cobra.Command, args []string) error {
	c.env = nil
	if _, envFile := c.props.StringFlagValue(envFileFlag); envFile != "" {
		if err := util.LoadEnvFromFile(envFile); err != nil {
			return err
		}
	}

	_, err := config.ParseAndSetupLogConfig(c.props, cmd.ErrOrStderr())
	return err
}

// finish - logs the requests the command sent
func (c *pqdRootCommand) finish(cmd *cobra.Command, args []string) error {
	c.registry.Each(func(name string, metric interface{}) {
		switch m := metric.(type) {
		case metrics.Counter:
			c.logger.WithField("metric", name).WithField("count", m.Count()).Debug("api requests")
		case metrics.Timer:
			c.logger.WithField("metric", name).
				WithField("count", m.Count()).
				WithField("mean(ms)", time.Duration(m.Mean()).Milliseconds()).
				Debug("api request duration")
		}
	})
	c.registry.UnregisterAll()
	return nil
}

// environment - parses and validates the configuration and builds the api services
func (c *pqdRootCommand) environment() (*environment, error) {
	if c.env != nil {
		return c.env, nil
	}

	cfg, err := config.ParsePqdConfig(c.props)
	if err != nil {
		return nil, err
	}
	if err = config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	clientOpts := []api.ClientOpt{
		api.WithTimeout(cfg.Timeout),
		api.WithProxy(cfg.ProxyURL),
		api.WithUserAgent(util.NewUserAgent(c.name, buildVersion(), SDKVersion)),
		api.WithMetricsRegistry(c.registry),
	}
	requester := api.NewRequester(api.NewClient(append(clientOpts, c.clientOpts...)...))

	var storage session.LocalStorage
	if storage, err = session.NewFileStorage(cfg.SessionFile); err != nil {
		return nil, err
	}
	if cfg.SessionKey != "" {
		if storage, err = session.NewEncryptedStorage(storage, []byte(cfg.SessionKey)); err != nil {
			return nil, err
		}
	}
	sessionCtx := session.NewContext(storage)
	state, err := sessionCtx.Restore()
	if err != nil {
		return nil, err
	}
	c.logger.WithField("state", state.String()).Trace("session restored")

	c.env = &environment{
		cfg:      cfg,
		session:  sessionCtx,
		auth:     session.NewAuthenticator(requester, cfg.URL),
		products: product.NewService(requester, cfg.URL, product.WithConcurrency(cfg.Concurrency)),
		cache:    product.NewCache(),
	}
	return c.env, nil
}

// authenticated - the environment and the identity of the logged in user
func (c *pqdRootCommand) authenticated() (*environment, *session.Identity, error) {
	env, err := c.environment()
	if err != nil {
		return nil, nil, err
	}
	if env.session.State() != session.Authenticated {
		return nil, nil, session.ErrNotLoggedIn
	}
	return env, env.session.Get(), nil
}

// checkSession - a request rejected as unauthorized ends the session
func (c *pqdRootCommand) checkSession(env *environment, err error) error {
	if err == nil {
		return nil
	}
	if !isUnauthorized(err) {
		return err
	}
	if logoutErr := env.session.Logout(); logoutErr != nil {
		c.logger.WithError(logoutErr).Warn("could not clear the rejected session")
	}
	return session.ErrSessionExpired.WithCause(err)
}

func isUnauthorized(err error) bool {
	reqErr := &api.RequestError{}
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized
}

// output - renders command results in the configured output format
func (c *pqdRootCommand) output(cmd *cobra.Command, env *environment) *printer {
	return newPrinter(cmd.OutOrStdout(), env.cfg.Output)
}

func (c *pqdRootCommand) RootCmd() *cobra.Command {
	return c.rootCmd
}

func (c *pqdRootCommand) Execute() error {
	return c.rootCmd.Execute()
}

func (c *pqdRootCommand) GetProperties() properties.Properties {
	return c.props
}
