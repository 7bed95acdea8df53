package cmd

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/stayline/guestqa/core/config"
	"github.com/stayline/guestqa/internal/service"
)

// init initializes all components of the application
func init() {
	ctx := context.Background()

	// Validate configuration before initializing components
	g.Log().Info(ctx, "Validating application configuration...")
	err := config.ValidateConfiguration(ctx)
	if err != nil {
		g.Log().Fatalf(ctx, "Configuration validation failed:\n%v", err)
	}

	// Initialize the answer service (collaborator clients + both caches)
	err = service.InitAnswerService(ctx)
	if err != nil {
		g.Log().Fatalf(ctx, "Answer service initialization failed: %v", err)
	}

	g.Log().Info(ctx, "✓ All components initialized successfully")
}
