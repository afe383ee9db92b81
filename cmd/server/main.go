// Package main implements the entry point for the inkwell API server: a
// multi-tenant blog/account backend with JWT login, password-reset token
// flows, per-user notification preferences, and owner-scoped posts.
package main

import (
	"context"
	"log"
)

func main() {
	ctx := context.Background()

	app, err := newApplication(ctx)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
