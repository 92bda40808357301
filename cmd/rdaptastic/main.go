// Command rdaptastic looks up normalized RDAP domain records.
//
// Subcommands
//
//	lookup <domain>   fetch and normalize one domain (--asn to enrich nameservers)
//	resolve <tld>     print the RDAP base URL for a TLD
//	serve             run the HTTP API (POST /v1/rdap, GET /metrics)
//
// Configuration comes from flags, RDAPTASTIC_* environment variables and an optional
// config file (--config), in that order of precedence.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datum-labs/rdaptastic"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "rdaptastic",
		Short:         "Normalized RDAP domain lookups",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	pf.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.String("log-format", defaultLogFormat, "log format (text or json)")
	pf.Duration("timeout", defaultTimeout, "timeout for each upstream call")
	pf.String("user-agent", "", "User-Agent sent upstream")
	pf.String("bootstrap-url", defaultBootstrapURL, "IANA DNS bootstrap registry")
	pf.String("doh-url", defaultDoHURL, "DNS-over-HTTPS JSON endpoint")
	pf.String("ipinfo-url", defaultIPInfoURL, "network information service")
	bindFlags(v, pf, map[string]string{
		keyLogLevel:     "log-level",
		keyLogFormat:    "log-format",
		keyTimeout:      "timeout",
		keyUserAgent:    "user-agent",
		keyBootstrapURL: "bootstrap-url",
		keyDoHURL:       "doh-url",
		keyIPInfoURL:    "ipinfo-url",
	})

	root.AddCommand(cmdLookup(v, &cfgFile), cmdResolve(v, &cfgFile), cmdServe(v, &cfgFile))
	return root
}

// app is what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config
	log    *logrus.Logger
	client *rdaptastic.Client
}

func setup(v *viper.Viper, cfgFile string) (*app, error) {
	cfg, err := loadConfig(v, cfgFile)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, client: newClient(cfg, log)}, nil
}

func cmdLookup(v *viper.Viper, cfgFile *string) *cobra.Command {
	var withASN bool
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "lookup <domain>",
		Short: "Fetch and normalize the RDAP record of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(v, *cfgFile)
			if err != nil {
				return err
			}
			domain, err := rdaptastic.NormalizeDomain(args[0])
			if err != nil {
				return err
			}
			rec, err := a.client.Lookup(cmd.Context(), domain, withASN)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("json") {
				asJSON = !isTerminal(out)
			}
			if asJSON {
				return printJSON(out, rec, isTerminal(out))
			}
			printRecord(out, domain, rec)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withASN, "asn", false, "enrich nameservers with ASN data")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON (default when stdout is not a terminal)")
	return cmd
}

func cmdResolve(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <tld>",
		Short: "Print the RDAP base URL for a TLD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(v, *cfgFile)
			if err != nil {
				return err
			}
			base, err := a.client.ResolveBase(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base)
			return nil
		},
	}
}

func cmdServe(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(v, *cfgFile)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return serve(ctx, a)
		},
	}
	cmd.Flags().String("listen", defaultListen, "address to listen on")
	cmd.Flags().Bool("asn-lookups", false, "enrich every lookup with ASN data")
	bindFlags(v, cmd.Flags(), map[string]string{
		keyListen:     "listen",
		keyASNLookups: "asn-lookups",
	})
	return cmd
}
