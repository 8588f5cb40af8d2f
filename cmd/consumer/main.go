package main

import (
	"context"
	"log"

	"github.com/lendkite/loan-application-service/internal/app/bootstrap"
)

func main() {
	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, "configs/default.yaml")
	if err != nil {
		log.Fatalf("bootstrap consumer runtime: %v", err)
	}
	if err := runtime.RunConsumer(ctx); err != nil {
		log.Fatalf("run consumer: %v", err)
	}
}
