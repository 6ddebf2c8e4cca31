package main

import (
	"github.com/joho/godotenv"

	"github.com/La-Salida/hypnothera-community-manager/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Credentials may live in a local .env; absence is fine.
	_ = godotenv.Load()

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
