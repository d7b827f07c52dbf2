package main

import (
	"context"

	"ticketsnap-backend/cmd/ticketsnap-cli/commands"
	"ticketsnap-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "ticketsnap-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
