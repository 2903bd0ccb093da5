package main

import (
	"github.com/gaurav-prasanna/pagemd/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// PAGEMD_* settings may live in a local .env file.
	_ = godotenv.Load()
	cmd.Execute()
}
