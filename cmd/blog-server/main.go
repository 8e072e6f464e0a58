package main

import (
	"context"
	"fmt"
	"os"

	"blog-server-go/internal/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background(), bootstrap.ConfigPathFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "blog-server failed: %v\n", err)
		os.Exit(1)
	}
}
