// Package config parses the boot options that select which exception
// handler variants are installed.
//
// Options are given on the kernel command line, separated by white space and
// quoted like shell words:
//
//	debug lazyfpu fpucop=1 shortcut=0x7c03e83b loglevel=info
//
// Boolean options accept "name", "noname" and "name=<bool>".
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/sirupsen/logrus"
)

// DefaultShortcutOpcode is the reserved instruction user space executes to
// enter the kernel through the syscall shortcut. On MIPS32 it encodes
// "rdhwr $v1, $29".
const DefaultShortcutOpcode uint32 = 0x7c03e83b

var ErrBadOption = errors.New("config: bad boot option")

type Config struct {
	// Debug forwards breakpoints to the kernel debugger and reports
	// spurious interrupts.
	Debug bool

	// LazyFPU restores the FPU context on first use, which is signaled by a
	// Coprocessor Unusable exception for FPUCop.
	LazyFPU bool
	FPUCop  int

	// ShortcutOpcode is recognized by the Reserved Instruction handler as
	// syscall shortcut.
	ShortcutOpcode uint32

	LogLevel logrus.Level
}

// Default returns the configuration used if no boot options are given.
func Default() Config {
	return Config{
		FPUCop:         1,
		ShortcutOpcode: DefaultShortcutOpcode,
		LogLevel:       logrus.InfoLevel,
	}
}

// Parse applies the options in cmdline to the default configuration.
func Parse(cmdline string) (Config, error) {
	cfg := Default()
	words, err := shellquote.Split(cmdline)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrBadOption, err)
	}
	for _, w := range words {
		if err := cfg.set(w); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func (cfg *Config) set(word string) error {
	key, value, hasValue := strings.Cut(word, "=")

	var flag *bool
	switch strings.TrimPrefix(key, "no") {
	case "debug":
		flag = &cfg.Debug
	case "lazyfpu":
		flag = &cfg.LazyFPU
	}
	if flag != nil {
		on := !strings.HasPrefix(key, "no")
		if hasValue {
			if !on {
				return fmt.Errorf("%w: %q", ErrBadOption, word)
			}
			v, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrBadOption, word)
			}
			on = v
		}
		*flag = on
		return nil
	}

	if !hasValue {
		return fmt.Errorf("%w: %q", ErrBadOption, word)
	}
	switch key {
	case "fpucop":
		v, err := strconv.ParseUint(value, 0, 2)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrBadOption, word)
		}
		cfg.FPUCop = int(v)
	case "shortcut":
		v, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrBadOption, word)
		}
		cfg.ShortcutOpcode = uint32(v)
	case "loglevel":
		lvl, err := logrus.ParseLevel(value)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrBadOption, word)
		}
		cfg.LogLevel = lvl
	default:
		return fmt.Errorf("%w: %q", ErrBadOption, word)
	}
	return nil
}

// String renders cfg as boot options accepted by Parse.
func (cfg Config) String() string {
	words := []string{
		boolOption("debug", cfg.Debug),
		boolOption("lazyfpu", cfg.LazyFPU),
		fmt.Sprintf("fpucop=%d", cfg.FPUCop),
		fmt.Sprintf("shortcut=%#08x", cfg.ShortcutOpcode),
		"loglevel=" + cfg.LogLevel.String(),
	}
	return shellquote.Join(words...)
}

func boolOption(name string, on bool) string {
	if on {
		return name
	}
	return "no" + name
}
