// Command gamerhub is the command line client for the gamer hub API.
package main

import (
	"fmt"
	"os"

	"gamerhub/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
