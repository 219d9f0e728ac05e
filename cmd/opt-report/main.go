package main

import (
	"github.com/joho/godotenv"

	"github.com/opt-report/cmd/opt-report/cmd"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()
	cmd.Execute()
}
