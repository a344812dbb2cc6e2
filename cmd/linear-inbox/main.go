package main

import (
	"fmt"
	"os"

	"github.com/roeyazroel/linear-inbox/internal/logger"
)

func main() {
	err := rootCmd.Execute()
	logger.Info("Application shutdown")
	logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
