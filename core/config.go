package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	MailConfig struct {
		Backend        string // smtp | sendgrid | console
		SMTPAddr       string
		SendgridAPIKey string
	}

	Config struct {
		Env   string
		Debug bool
		Build string

		// submission layout
		DefaultExtension string
		DefaultDomain    string
		GradeFile        string
		ExtractLog       string
		MakeLog          string
		SanityFile       string

		// external tools
		TarCmd  string
		MakeCmd string

		ChecksFile   string
		RollbarToken string
		Mail         MailConfig
	}
)

// NewConfig reads the configuration from the environment (TURNIN_*), after loading
// the dotenv file of the current env if there is one.
func NewConfig() (*Config, error) {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", false)
	conf.SetDefault("build", "dev")
	conf.SetDefault("defaultExtension", "tar.Z")
	conf.SetDefault("defaultDomain", "cs.ucsb.edu")
	conf.SetDefault("gradeFile", "GRADE")
	conf.SetDefault("extractLog", "extract_log")
	conf.SetDefault("makeLog", "make_log")
	conf.SetDefault("sanityFile", "LOGFILE")
	conf.SetDefault("tarCmd", "tar")
	conf.SetDefault("makeCmd", "make")
	conf.SetDefault("checksFile", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("mailBackend", "smtp")
	conf.SetDefault("smtpAddr", "localhost:25")
	conf.SetDefault("sendgridApiKey", "")

	env := strings.ToUpper(os.Getenv("TURNIN_ENV")) // DEV (default), TEST, PROD
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix("turnin")

	// load the dotenv file if it exists (ignore if it does not)
	dotEnvPath := os.Getenv("TURNIN_ENV_FILE")
	if dotEnvPath == "" {
		dir, err := os.UserConfigDir()
		if err == nil {
			dotEnvPath = filepath.Join(dir, "turnin", ".env."+strings.ToLower(env))
		}
	}
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "reading %s", dotEnvPath)
		}
	}
	conf.AutomaticEnv()

	return &Config{
		Env:              env,
		Debug:            conf.GetBool("debug"),
		Build:            conf.GetString("build"),
		DefaultExtension: conf.GetString("defaultExtension"),
		DefaultDomain:    conf.GetString("defaultDomain"),
		GradeFile:        conf.GetString("gradeFile"),
		ExtractLog:       conf.GetString("extractLog"),
		MakeLog:          conf.GetString("makeLog"),
		SanityFile:       conf.GetString("sanityFile"),
		TarCmd:           conf.GetString("tarCmd"),
		MakeCmd:          conf.GetString("makeCmd"),
		ChecksFile:       conf.GetString("checksFile"),
		RollbarToken:     conf.GetString("rollbarToken"),
		Mail: MailConfig{
			Backend:        strings.ToLower(conf.GetString("mailBackend")),
			SMTPAddr:       conf.GetString("smtpAddr"),
			SendgridAPIKey: conf.GetString("sendgridApiKey"),
		},
	}, nil
}
