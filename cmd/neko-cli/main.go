package main

import (
	"neko-backend/cmd/neko-cli/commands"
	"neko-backend/pkg/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
