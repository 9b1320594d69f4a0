package properties

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func newTestProps() (*cobra.Command, Properties) {
	rootCmd := &cobra.Command{
		Use:  "test",
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	return rootCmd, NewProperties(rootCmd)
}

func TestPropertyDefaults(t *testing.T) {
	rootCmd, props := newTestProps()
	props.AddStringProperty("pqd.url", "http://localhost:8080", "api url")
	props.AddDurationProperty("pqd.timeout", 60*time.Second, "timeout")
	props.AddIntProperty("pqd.concurrency", 8, "concurrency")
	props.AddBoolProperty("log.trace", false, "trace")

	flg := rootCmd.PersistentFlags().Lookup("pqdUrl")
	assert.NotNil(t, flg)
	assert.Equal(t, "string", flg.Value.Type())
	assert.Equal(t, "api url", flg.Usage)

	assert.Equal(t, "http://localhost:8080", props.StringPropertyValue("pqd.url"))
	assert.Equal(t, 60*time.Second, props.DurationPropertyValue("pqd.timeout"))
	assert.Equal(t, 8, props.IntPropertyValue("pqd.concurrency"))
	assert.False(t, props.BoolPropertyValue("log.trace"))
}

func TestPropertyFlagsAndEnv(t *testing.T) {
	rootCmd, props := newTestProps()
	props.AddStringProperty("pqd.url", "", "api url")
	props.AddIntProperty("pqd.concurrency", 8, "concurrency")
	props.AddStringProperty("log.file.name", "pqd.log", "log file")
	props.AddStringPersistentFlag("envFile", "", "env file")

	os.Setenv("PQD_CONCURRENCY", "3")
	defer os.Unsetenv("PQD_CONCURRENCY")

	rootCmd.SetArgs([]string{"--pqdUrl", " https://pqd.example.com ", "--logFileName", "cli.log", "--envFile", "./pqd.env"})
	assert.Nil(t, rootCmd.Execute())

	assert.Equal(t, "https://pqd.example.com", props.StringPropertyValue("pqd.url"))
	assert.Equal(t, "cli.log", props.StringPropertyValue("log.file.name"))
	assert.Equal(t, 3, props.IntPropertyValue("pqd.concurrency"))

	set, value := props.StringFlagValue("envFile")
	assert.True(t, set)
	assert.Equal(t, "./pqd.env", value)

	set, _ = props.StringFlagValue("missing")
	assert.False(t, set)
}
