package properties

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Properties - Root Command Properties interface for all configs to use for adding and parsing values
type Properties interface {
	// Methods for adding properties, bound to persistent command flags and env vars
	AddStringProperty(name string, defaultVal string, description string)
	AddStringPersistentFlag(name string, defaultVal string, description string)
	AddDurationProperty(name string, defaultVal time.Duration, description string)
	AddIntProperty(name string, defaultVal int, description string)
	AddBoolProperty(name string, defaultVal bool, description string)

	// Methods to get the configured properties
	StringPropertyValue(name string) string
	StringFlagValue(name string) (bool, string)
	DurationPropertyValue(name string) time.Duration
	IntPropertyValue(name string) int
	BoolPropertyValue(name string) bool
}

type properties struct {
	Properties
	rootCmd *cobra.Command
	viper   *viper.Viper
}

// NewProperties - Creates a new Properties struct. Property names map to env vars by upper
// casing them and replacing "." with "_", pqd.url is read from PQD_URL.
func NewProperties(rootCmd *cobra.Command) Properties {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cmdprops := &properties{
		rootCmd: rootCmd,
		viper:   v,
	}

	return cmdprops
}

func (p *properties) bindOrPanic(key string, flg *flag.Flag) {
	if err := p.viper.BindPFlag(key, flg); err != nil {
		panic(err)
	}
}

func (p *properties) AddStringProperty(name string, defaultVal string, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.rootCmd.PersistentFlags().String(flagName, defaultVal, description)
		p.bindOrPanic(name, p.rootCmd.PersistentFlags().Lookup(flagName))
	}
}

func (p *properties) AddStringPersistentFlag(flagName string, defaultVal string, description string) {
	if p.rootCmd != nil {
		p.rootCmd.PersistentFlags().String(flagName, defaultVal, description)
	}
}

func (p *properties) AddDurationProperty(name string, defaultVal time.Duration, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.rootCmd.PersistentFlags().Duration(flagName, defaultVal, description)
		p.bindOrPanic(name, p.rootCmd.PersistentFlags().Lookup(flagName))
	}
}

func (p *properties) AddIntProperty(name string, defaultVal int, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.rootCmd.PersistentFlags().Int(flagName, defaultVal, description)
		p.bindOrPanic(name, p.rootCmd.PersistentFlags().Lookup(flagName))
	}
}

func (p *properties) AddBoolProperty(name string, defaultVal bool, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.rootCmd.PersistentFlags().Bool(flagName, defaultVal, description)
		p.bindOrPanic(name, p.rootCmd.PersistentFlags().Lookup(flagName))
	}
}

func (p *properties) StringPropertyValue(name string) string {
	return strings.TrimSpace(p.viper.GetString(name))
}

func (p *properties) StringFlagValue(name string) (bool, string) {
	flag := p.rootCmd.PersistentFlags().Lookup(name)
	if flag == nil || flag.Value.String() == "" {
		return false, ""
	}
	return true, flag.Value.String()
}

func (p *properties) DurationPropertyValue(name string) time.Duration {
	return p.viper.GetDuration(name)
}

func (p *properties) IntPropertyValue(name string) int {
	return p.viper.GetInt(name)
}

func (p *properties) BoolPropertyValue(name string) bool {
	return p.viper.GetBool(name)
}

// nameToFlagName - log.file.name becomes logFileName
func (p *properties) nameToFlagName(name string) (flagName string) {
	parts := strings.Split(name, ".")
	flagName = parts[0]
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		flagName += strings.ToUpper(part[:1]) + part[1:]
	}
	return
}
