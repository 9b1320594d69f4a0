package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/pqd/pqd-sdk/pkg/product"
	"github.com/pqd/pqd-sdk/pkg/quality"
	pqderrors "github.com/pqd/pqd-sdk/pkg/util/errors"
)

// loadProducts - the product list of the user, fetched once per execution
func (c *pqdRootCommand) loadProducts(ctx context.Context, env *environment, jwt string) ([]product.Product, error) {
	if products, ok := env.cache.Products(); ok {
		return products, nil
	}

	listing, err := env.products.GetProducts(ctx, jwt)
	if err != nil {
		return nil, c.checkSession(env, err)
	}
	for _, failure := range listing.Failures {
		if isUnauthorized(failure.Err) {
			return nil, c.checkSession(env, failure.Err)
		}
	}
	changed, err := env.cache.SetProducts(listing.Products)
	if err != nil {
		return nil, err
	}
	c.logger.WithField("products", len(listing.Products)).WithField("changed", changed).Debug("product list cached")
	return listing.Products, nil
}

// findProduct - the product with the id given as argument
func (c *pqdRootCommand) findProduct(ctx context.Context, env *environment, jwt, arg string) (*product.Product, error) {
	id, err := parseProductID(arg)
	if err != nil {
		return nil, err
	}
	if _, err = c.loadProducts(ctx, env, jwt); err != nil {
		return nil, err
	}
	return env.cache.Find(id)
}

func parseProductID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, pqderrors.ErrInvalidInput.FormatError("product id " + strconv.Quote(arg))
	}
	return id, nil
}

// productSummary - one line of the product list
type productSummary struct {
	ID            int64         `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Quality       string        `json:"quality" yaml:"quality"`
	Badge         quality.Color `json:"badge" yaml:"badge"`
	Releases      int           `json:"releases" yaml:"releases"`
	LatestRelease string        `json:"latestRelease,omitempty" yaml:"latestRelease,omitempty"`
	Tools         []string      `json:"tools" yaml:"tools"`
}

func newProductSummary(p *product.Product) productSummary {
	level, badge := quality.LatestLevel(p)
	summary := productSummary{
		ID:       p.ID,
		Name:     p.Name,
		Quality:  level,
		Badge:    badge,
		Releases: len(p.ReleaseInfo),
		Tools:    tools(p),
	}
	if latest := p.LatestRelease(); latest != nil {
		summary.LatestRelease = quality.FormatTimestamp(latest.Created)
	}
	return summary
}

func tools(p *product.Product) []string {
	names := []string{}
	if p.SonarqubeInfo != nil {
		names = append(names, string(product.Sonarqube))
	}
	if p.JiraInfo != nil {
		names = append(names, string(product.Jira))
	}
	if p.JenkinsInfo != nil {
		names = append(names, string(product.Jenkins))
	}
	return names
}

func (c *pqdRootCommand) newProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the products with the quality level of their latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, identity, err := c.authenticated()
			if err != nil {
				return err
			}
			products, err := c.loadProducts(cmd.Context(), env, identity.JWT)
			if err != nil {
				return err
			}

			summaries := make([]productSummary, 0, len(products))
			for i := range products {
				summaries = append(summaries, newProductSummary(&products[i]))
			}
			return c.output(cmd, env).print(summaries, func(w io.Writer) {
				row(w, "ID", "NAME", "QUALITY", "RELEASES", "LATEST RELEASE", "TOOLS")
				for _, s := range summaries {
					latest := s.LatestRelease
					if latest == "" {
						latest = "-"
					}
					row(w, s.ID, s.Name, s.Quality, s.Releases, latest, strings.Join(s.Tools, ","))
				}
			})
		},
	}
}

func (c *pqdRootCommand) newProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Show, add, update and trigger products",
	}
	cmd.AddCommand(
		c.newProductShowCmd(),
		c.newProductAddCmd(),
		c.newProductUpdateCmd(),
		c.newProductTestCmd(),
		c.newProductTriggerCmd(),
	)
	return cmd
}

// productDetails - a product, its quality history and the tool data of its latest release
type productDetails struct {
	productSummary `yaml:",inline"`
	Token          string                 `json:"token" yaml:"token"`
	TriggerURL     string                 `json:"triggerUrl" yaml:"triggerUrl"`
	History        quality.Series         `json:"history" yaml:"history"`
	Latest         *product.ReleaseInfo   `json:"latest,omitempty" yaml:"latest,omitempty"`
	Sonarqube      *product.SonarqubeInfo `json:"sonarqubeInfo,omitempty" yaml:"sonarqubeInfo,omitempty"`
	Jira           *product.JiraInfo      `json:"jiraInfo,omitempty" yaml:"jiraInfo,omitempty"`
	Jenkins        *product.JenkinsInfo   `json:"jenkinsInfo,omitempty" yaml:"jenkinsInfo,omitempty"`
}

func (c *pqdRootCommand) newProductShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the quality history and the latest tool data of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, identity, err := c.authenticated()
			if err != nil {
				return err
			}
			p, err := c.findProduct(cmd.Context(), env, identity.JWT, args[0])
			if err != nil {
				return err
			}

			details := productDetails{
				productSummary: newProductSummary(p),
				Token:          p.Token,
				TriggerURL:     product.TriggerURL(env.cfg.URL, p.ID),
				History:        quality.NewSeries(p.ReleaseInfo),
				Latest:         p.LatestRelease(),
				Sonarqube:      p.SonarqubeInfo,
				Jira:           p.JiraInfo,
				Jenkins:        p.JenkinsInfo,
			}
			return c.output(cmd, env).print(details, func(w io.Writer) {
				writeProductDetails(w, details)
			})
		},
	}
}

func writeProductDetails(w io.Writer, d productDetails) {
	row(w, "ID:", d.ID)
	row(w, "Name:", d.Name)
	row(w, "Quality:", d.Quality)
	row(w, "Tools:", strings.Join(d.Tools, ","))
	row(w, "Token:", d.Token)
	row(w, "Trigger URL:", d.TriggerURL)

	if len(d.History.Labels) > 0 {
		fmt.Fprintln(w)
		row(w, "RELEASE", "QUALITY")
		for i, label := range d.History.Labels {
			row(w, label, seriesValue(d.History.Values[i]))
		}
	}
	if d.Latest == nil {
		return
	}

	if sq := d.Latest.ReleaseInfoSonarqube; sq != nil {
		fmt.Fprintln(w)
		row(w, "SONARQUBE", "RATING", "FINDINGS")
		security, _ := quality.Rating(sq.SecurityRating)
		reliability, _ := quality.Rating(sq.ReliabilityRating)
		maintainability, _ := quality.Rating(sq.MaintainabilityRating)
		row(w, "Security", security, fmt.Sprintf("%d vulnerabilities", sq.SecurityVulnerabilities))
		row(w, "Reliability", reliability, fmt.Sprintf("%d bugs", sq.ReliabilityBugs))
		row(w, "Maintainability", maintainability,
			fmt.Sprintf("%d code smells, debt %s", sq.MaintainabilitySmells, quality.DebtTime(sq.MaintainabilityDebt)))
	}

	if jira := d.Latest.ReleaseInfoJira; jira != nil && len(jira.JiraSprints) > 0 {
		fmt.Fprintln(w)
		row(w, "SPRINT", "START", "END", "ISSUES")
		for _, sprint := range jira.JiraSprints {
			row(w, sprint.Name, quality.FormatDate(sprint.Start), quality.FormatDate(sprint.End), len(sprint.Issues))
		}
	}

	if jenkins := d.Latest.ReleaseInfoJenkins; jenkins != nil && len(jenkins.JenkinsJobs) > 0 {
		fmt.Fprintln(w)
		row(w, "JOB", "STATUS", "LAST BUILD", "SCORE", "DEPLOYMENTS", "LEAD TIME", "RESTORE TIME", "FAILURE RATE")
		for _, job := range jenkins.JenkinsJobs {
			status, _ := quality.JenkinsStatus(job.Status)
			row(w, job.Name, status, quality.FormatTimestamp(job.LastBuild), fmt.Sprintf("%d/100", job.BuildScore),
				job.DeploymentFrequency, quality.LeadTime(job.LeadTimeForChange),
				quality.LeadTime(job.TimeToRestoreService), quality.FailureRate(job.ChangeFailureRate))
		}
	}
}

func seriesValue(v float64) string {
	if math.IsNaN(v) {
		return quality.NotAvailable
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// addFormFlags - binds the product form fields to flags
func addFormFlags(flags *flag.FlagSet, form *product.Form) {
	flags.StringVar(&form.Name, "name", form.Name, "Name of the product, at least 3 characters")
	flags.StringVar(&form.SonarqubeBaseURL, "sonarqubeBaseUrl", form.SonarqubeBaseURL, "Base URL of the sonarqube server")
	flags.StringVar(&form.SonarqubeComponentName, "sonarqubeComponentName", form.SonarqubeComponentName, "Component name of the product in sonarqube")
	flags.StringVar(&form.SonarqubeToken, "sonarqubeToken", form.SonarqubeToken, "Sonarqube api token")
	flags.StringVar(&form.JiraBaseURL, "jiraBaseUrl", form.JiraBaseURL, "Base URL of the jira server")
	flags.StringVar(&form.JiraBoardID, "jiraBoardId", form.JiraBoardID, "Numeric id of the jira board")
	flags.StringVar(&form.JiraUserEmail, "jiraUserEmail", form.JiraUserEmail, "Email of the jira user")
	flags.StringVar(&form.JiraToken, "jiraToken", form.JiraToken, "Jira api token")
}

// toolFlagsChanged - any flag of the tool was given on the command line
func toolFlagsChanged(flags *flag.FlagSet, tool product.Tool) bool {
	changed := false
	flags.Visit(func(f *flag.Flag) {
		if strings.HasPrefix(f.Name, string(tool)) {
			changed = true
		}
	})
	return changed
}

// savedProduct - a saved product with the url its release info collection is triggered with
type savedProduct struct {
	ID         int64  `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Token      string `json:"token" yaml:"token"`
	TriggerURL string `json:"triggerUrl" yaml:"triggerUrl"`
}

func (c *pqdRootCommand) printSaved(cmd *cobra.Command, env *environment, p *product.Product, action string) error {
	saved := savedProduct{ID: p.ID, Name: p.Name, Token: p.Token, TriggerURL: product.TriggerURL(env.cfg.URL, p.ID)}
	return c.output(cmd, env).print(saved, func(w io.Writer) {
		fmt.Fprintf(w, "The product has been %s successfully. To trigger information collection from the tools, "+
			"make a post request to the trigger url with the token as basic auth username.\n", action)
		row(w, "ID:", saved.ID)
		row(w, "Name:", saved.Name)
		row(w, "Token:", saved.Token)
		row(w, "Trigger URL:", saved.TriggerURL)
	})
}

func (c *pqdRootCommand) newProductAddCmd() *cobra.Command {
	form := product.NewForm()
	var noSonarqube, noJira bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product connected to sonarqube and jira",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, identity, err := c.authenticated()
			if err != nil {
				return err
			}
			form.SonarqubeEnabled = !noSonarqube
			form.JiraEnabled = !noJira

			request, err := form.SaveRequest(identity.UserID)
			if err != nil {
				return err
			}
			saved, err := env.products.SaveProduct(cmd.Context(), identity.JWT, *request)
			if err != nil {
				return c.checkSession(env, err)
			}
			return c.printSaved(cmd, env, saved, "saved")
		},
	}
	addFormFlags(cmd.Flags(), form)
	cmd.Flags().BoolVar(&noSonarqube, "noSonarqube", false, "Do not connect the product to sonarqube")
	cmd.Flags().BoolVar(&noJira, "noJira", false, "Do not connect the product to jira")
	return cmd
}

func (c *pqdRootCommand) newProductUpdateCmd() *cobra.Command {
	changes := product.NewForm()
	var generateNewToken bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the name or the tool settings of a product",
		Long: "Update the name or the tool settings of a product. Settings that are not given keep their value, " +
			"a tool the product is not connected to yet is added when any of its settings is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, identity, err := c.authenticated()
			if err != nil {
				return err
			}
			p, err := c.findProduct(cmd.Context(), env, identity.JWT, args[0])
			if err != nil {
				return err
			}

			form := mergeForm(cmd.Flags(), product.FormFromProduct(p), changes)
			form.SonarqubeEnabled = p.SonarqubeInfo != nil || toolFlagsChanged(cmd.Flags(), product.Sonarqube)
			form.JiraEnabled = p.JiraInfo != nil || toolFlagsChanged(cmd.Flags(), product.Jira)
			form.GenerateNewToken = generateNewToken

			request, err := form.UpdateRequest(p)
			if err != nil {
				return err
			}
			updated, err := env.products.UpdateProduct(cmd.Context(), identity.JWT, *request, p.ID)
			if err != nil {
				return c.checkSession(env, err)
			}
			return c.printSaved(cmd, env, updated, "updated")
		},
	}
	addFormFlags(cmd.Flags(), changes)
	cmd.Flags().BoolVar(&generateNewToken, "generateNewToken", false, "Replace the token of the product")
	return cmd
}

// mergeForm - the values of the changed flags on top of the stored product settings
func mergeForm(flags *flag.FlagSet, form, changes *product.Form) *product.Form {
	fields := map[string]struct{ dst, src *string }{
		"name":                   {&form.Name, &changes.Name},
		"sonarqubeBaseUrl":       {&form.SonarqubeBaseURL, &changes.SonarqubeBaseURL},
		"sonarqubeComponentName": {&form.SonarqubeComponentName, &changes.SonarqubeComponentName},
		"sonarqubeToken":         {&form.SonarqubeToken, &changes.SonarqubeToken},
		"jiraBaseUrl":            {&form.JiraBaseURL, &changes.JiraBaseURL},
		"jiraBoardId":            {&form.JiraBoardID, &changes.JiraBoardID},
		"jiraUserEmail":          {&form.JiraUserEmail, &changes.JiraUserEmail},
		"jiraToken":              {&form.JiraToken, &changes.JiraToken},
	}
	flags.Visit(func(f *flag.Flag) {
		if field, ok := fields[f.Name]; ok {
			*field.dst = *field.src
		}
	})
	return form
}

// connectionFlags - the settings a tool connection is tested with
type connectionFlags struct {
	baseURL       string
	componentName string
	boardID       string
	userEmail     string
	username      string
	token         string
}

func (c *pqdRootCommand) newProductTestCmd() *cobra.Command {
	settings := connectionFlags{}
	cmd := &cobra.Command{
		Use:   "test <jenkins|sonarqube|jira>",
		Short: "Test whether the backend can reach a tool with the given settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := product.ParseTool(args[0])
			if err != nil {
				return err
			}
			env, identity, err := c.authenticated()
			if err != nil {
				return err
			}

			var result *product.ConnectionTestResult
			switch tool {
			case product.Sonarqube:
				result, err = env.products.TestSonarqubeAPIConnection(cmd.Context(), identity.JWT, product.SonarqubeInfo{
					BaseURL:       settings.baseURL,
					ComponentName: settings.componentName,
					Token:         settings.token,
				})
			case product.Jira:
				result, err = env.products.TestJiraAPIConnection(cmd.Context(), identity.JWT, product.JiraInfo{
					BaseURL:   settings.baseURL,
					BoardID:   json.Number(settings.boardID),
					UserEmail: settings.userEmail,
					Token:     settings.token,
				})
			default:
				result, err = env.products.TestJenkinsAPIConnection(cmd.Context(), identity.JWT, product.JenkinsInfo{
					BaseURL:  settings.baseURL,
					Username: settings.username,
					Token:    settings.token,
				})
			}
			if err != nil {
				return c.checkSession(env, err)
			}

			return c.output(cmd, env).print(result, func(w io.Writer) {
				status := "Connection failed"
				if result.ConnectionOk {
					status = "Connection successful"
				}
				if result.Message == "" {
					row(w, status)
					return
				}
				row(w, status+":", result.Message)
			})
		},
	}
	cmd.Flags().StringVar(&settings.baseURL, "baseUrl", "", "Base URL of the tool")
	cmd.Flags().StringVar(&settings.componentName, "componentName", "", "Sonarqube component name")
	cmd.Flags().StringVar(&settings.boardID, "boardId", "", "Jira board id")
	cmd.Flags().StringVar(&settings.userEmail, "userEmail", "", "Jira user email")
	cmd.Flags().StringVar(&settings.username, "username", "", "Jenkins user")
	cmd.Flags().StringVar(&settings.token, "token", "", "Api token of the tool")
	return cmd
}

func (c *pqdRootCommand) newProductTriggerCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "trigger <id>",
		Short: "Start collecting release info for a product",
		Long:  "Start collecting release info for a product. Without --token the token of the product is looked up, which needs a login.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			env, err := c.environment()
			if err != nil {
				return err
			}
			if token == "" {
				_, identity, err := c.authenticated()
				if err != nil {
					return err
				}
				p, err := c.findProduct(cmd.Context(), env, identity.JWT, args[0])
				if err != nil {
					return err
				}
				token = p.Token
			}

			result := env.products.TriggerReleaseInfoCollection(cmd.Context(), product.TriggerURL(env.cfg.URL, id), token)
			if result.Status != product.TriggerOK {
				return ErrTriggerFailed.FormatError(id)
			}
			return c.output(cmd, env).print(result, func(w io.Writer) {
				fmt.Fprintf(w, "Release info collection for product %d triggered\n", id)
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Token of the product")
	return cmd
}
