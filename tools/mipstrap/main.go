package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/clktmr/mipstrap/config"
	"github.com/clktmr/mipstrap/tools/trapsim"
)

const usageString = `mipstrap is a tool for development of the exception dispatcher.

Usage:

	%s <command> [arguments]

The commands are:

	sim      replay traps from a TOML scenario
	cmdline  check and normalize boot options
`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.Default().SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "sim":
		trapsim.Main(flag.Args())
	case "cmdline":
		cfg, err := config.Parse(strings.Join(flag.Args()[1:], " "))
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Println(cfg)
	default:
		fmt.Fprintf(flag.CommandLine.Output(), "unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}
