package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/stride-backend/internal/clients/lifeapi"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/platform/openai"
	"github.com/yungbote/stride-backend/internal/realtime/bus"
)

type Clients struct {
	OpenAI openai.Client
	Life   lifeapi.Client
	SSEBus bus.Bus
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis is optional; without it the in-process hub is the only fan-out.
	var sseBus bus.Bus
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		b, err := bus.NewRedisBus(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		sseBus = b
	}

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	lifeClient, err := lifeapi.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init life API client: %w", err)
	}

	return Clients{
		OpenAI: openaiClient,
		Life:   lifeClient,
		SSEBus: sseBus,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
}
