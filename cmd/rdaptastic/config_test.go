package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/datum-labs/rdaptastic"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BootstrapURL != defaultBootstrapURL || cfg.Timeout != defaultTimeout || cfg.Listen != ":8080" || cfg.ASNLookups {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rdaptastic.yaml")
	body := "timeout: 3s\nasn_lookups: true\nlisten: 127.0.0.1:9000\nlog_format: json\n"
	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RDAPTASTIC_LISTEN", "127.0.0.1:9100")

	cfg, err := loadConfig(viper.New(), file)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timeout != 3*time.Second || !cfg.ASNLookups || cfg.LogFormat != "json" {
		t.Fatalf("file values: %+v", cfg)
	}
	if cfg.Listen != "127.0.0.1:9100" {
		t.Fatalf("env should override file, got %q", cfg.Listen)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing config file should fail")
	}
	v := viper.New()
	v.Set(keyTimeout, "0s")
	if _, err := loadConfig(v, ""); err == nil {
		t.Fatal("zero timeout should fail")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&config{LogLevel: "debug", LogFormat: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level %v", log.GetLevel())
	}
	log.WithField("domain", "example.com").Debug("hello")
	if !strings.Contains(buf.String(), `"domain":"example.com"`) {
		t.Fatalf("json output: %s", buf.String())
	}
	if _, err := newLogger(&config{LogLevel: "loud"}, &buf); err == nil {
		t.Fatal("bad level should fail")
	}
	if _, err := newLogger(&config{LogLevel: "info", LogFormat: "xml"}, &buf); err == nil {
		t.Fatal("bad format should fail")
	}
}

func TestPrintRecord(t *testing.T) {
	name, country, e := "Example Registrar", "US", "DNS query failed for ns2.example.com: NXDOMAIN"
	rec := &rdaptastic.DomainRecord{
		Status:      []string{"active"},
		Registrar:   rdaptastic.Registrar{Name: &name},
		Registrant:  rdaptastic.Registrant{Country: &country, Address: []string{"123 Main St"}},
		Nameservers: []string{"ns1.example.com", "ns2.example.com"},
		ASN:         []rdaptastic.ASNInfo{{Nameserver: "ns2.example.com", Error: &e}},
	}
	var buf bytes.Buffer
	printRecord(&buf, "example.com", rec)
	out := buf.String()
	for _, want := range []string{"=== DOMAIN: example.com ===", "=== REGISTRAR: Example Registrar ===", "country: US", "  123 Main St", "  - ns1.example.com", "(error: DNS query failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if isTerminal(&buf) {
		t.Fatal("a buffer is not a terminal")
	}
}

func TestResolveCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"resolve", ".DE", "--log-level", "error"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "https://rdap.denic.de" {
		t.Fatalf("resolve .DE = %q", got)
	}
}
