package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		cmdline string
		want    func(*Config)
	}{
		"empty":      {"", func(c *Config) {}},
		"debug":      {"debug", func(c *Config) { c.Debug = true }},
		"nodebug":    {"debug nodebug", func(c *Config) {}},
		"lazyfpu":    {"lazyfpu=true", func(c *Config) { c.LazyFPU = true }},
		"lazyfpuOff": {"lazyfpu=0", func(c *Config) {}},
		"fpucop":     {"fpucop=2", func(c *Config) { c.FPUCop = 2 }},
		"shortcut":   {"shortcut=0x0000000c", func(c *Config) { c.ShortcutOpcode = 0xc }},
		"quoted":     {`"loglevel=debug"  debug`, func(c *Config) { c.LogLevel = logrus.DebugLevel; c.Debug = true }},
		"all": {"debug lazyfpu fpucop=1 shortcut=0x7c03e83b loglevel=warn", func(c *Config) {
			c.Debug, c.LazyFPU, c.LogLevel = true, true, logrus.WarnLevel
		}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			want := Default()
			tc.want(&want)
			got, err := Parse(tc.cmdline)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, cmdline := range []string{
		"unknown",
		"fpucop",
		"fpucop=4",
		"shortcut=0x1_0000_0000",
		"shortcut=rdhwr",
		"loglevel=verbose",
		"nodebug=1",
		"debug=maybe",
		`"debug`,
	} {
		t.Run(cmdline, func(t *testing.T) {
			if _, err := Parse(cmdline); !errors.Is(err, ErrBadOption) {
				t.Fatalf("expected %v, got %v", ErrBadOption, err)
			}
		})
	}
}

func TestStringRoundtrip(t *testing.T) {
	want := Config{Debug: true, FPUCop: 1, ShortcutOpcode: 0x7c03e83b, LogLevel: logrus.TraceLevel}
	got, err := Parse(want.String())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
