package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
fleet-snapshot-system aggregates live fleet state from the upstream
taxi-dispatch platform into one canonical snapshot.

Usage:
  fleet [flags]

Flags:
  -config-path string   path to the config yaml file (default "config.yaml")
  -help                 show this message
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig prints the resolved configuration, secrets excluded.
func PrintConfig(cfg *Config) {
	fmt.Printf("service:        %s\n", cfg.App.ServiceName)
	fmt.Printf("tenants:        %v\n", cfg.Dispatch.Tenants)
	fmt.Printf("dispatch url:   %s\n", cfg.Dispatch.BaseURL)
	fmt.Printf("poll interval:  %s\n", cfg.App.PollInterval)
	fmt.Printf("roster path:    %s\n", cfg.Roster.Path)
	fmt.Printf("server port:    %s\n", cfg.Server.Port)
}
