package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/coursestream-backend/internal/app"
)

func main() {
	ctx := context.Background()
	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		a.Log.Error("server stopped with error", "error", err)
		a.Close()
		os.Exit(1)
	}
}
