package main

import (
	"flag"
	"fmt"
	"os"

	"drift/internal/di"
	"drift/internal/structures"

	"github.com/joho/godotenv"
)

func main() {
	var flags structures.CliFlags
	flag.StringVar(&flags.ConfigPath, "config", "config/config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "also log to the console")
	flag.Parse()

	// A missing .env is fine, the process environment is used as is.
	_ = godotenv.Load()

	if _, err := di.InitApp(&flags); err != nil {
		fmt.Fprintf(os.Stderr, "drift: %s\n", err)
		os.Exit(1)
	}
}
