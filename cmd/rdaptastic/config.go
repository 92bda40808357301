package main

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/datum-labs/rdaptastic"
)

const (
	keyBootstrapURL = "bootstrap_url"
	keyDoHURL       = "doh_url"
	keyIPInfoURL    = "ipinfo_url"
	keyTimeout      = "timeout"
	keyUserAgent    = "user_agent"
	keyListen       = "listen"
	keyASNLookups   = "asn_lookups"
	keyLogLevel     = "log_level"
	keyLogFormat    = "log_format"

	defaultBootstrapURL = "https://data.iana.org/rdap/dns.json"
	defaultDoHURL       = "https://cloudflare-dns.com/dns-query"
	defaultIPInfoURL    = "https://ipinfo.io"
	defaultTimeout      = 10 * time.Second
	defaultListen       = ":8080"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
)

type config struct {
	BootstrapURL string        `mapstructure:"bootstrap_url"`
	DoHURL       string        `mapstructure:"doh_url"`
	IPInfoURL    string        `mapstructure:"ipinfo_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	Listen       string        `mapstructure:"listen"`
	ASNLookups   bool          `mapstructure:"asn_lookups"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format"`
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// loadConfig merges defaults, the optional config file, RDAPTASTIC_* environment variables
// and any flags bound to v.
func loadConfig(v *viper.Viper, file string) (*config, error) {
	v.SetDefault(keyBootstrapURL, defaultBootstrapURL)
	v.SetDefault(keyDoHURL, defaultDoHURL)
	v.SetDefault(keyIPInfoURL, defaultIPInfoURL)
	v.SetDefault(keyTimeout, defaultTimeout)
	v.SetDefault(keyUserAgent, "")
	v.SetDefault(keyListen, defaultListen)
	v.SetDefault(keyASNLookups, false)
	v.SetDefault(keyLogLevel, defaultLogLevel)
	v.SetDefault(keyLogFormat, defaultLogFormat)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", file)
		}
	}
	v.SetEnvPrefix("rdaptastic")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := &config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return cfg, nil
}

func newLogger(cfg *config, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, keyLogLevel)
	}
	log.SetLevel(lvl)

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("unknown log_format %q", cfg.LogFormat)
	}
	return log, nil
}

func newClient(cfg *config, log logrus.FieldLogger) *rdaptastic.Client {
	opts := []rdaptastic.Option{
		rdaptastic.WithLogger(log),
		rdaptastic.WithTimeout(cfg.Timeout),
		rdaptastic.WithBootstrapURL(cfg.BootstrapURL),
		rdaptastic.WithDoHURL(cfg.DoHURL),
		rdaptastic.WithIPInfoURL(cfg.IPInfoURL),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, rdaptastic.WithUserAgent(cfg.UserAgent))
	}
	return rdaptastic.New(opts...)
}
