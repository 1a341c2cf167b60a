package main

import (
	"discord-finder/cmd/discord-finder/commands"
	"discord-finder/internal/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
