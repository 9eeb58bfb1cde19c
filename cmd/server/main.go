package main

import (
	"github.com/vigia-labs/vigia/internal/server"
	"github.com/vigia-labs/vigia/internal/util"
	"github.com/vigia-labs/vigia/pkg/logger"
	"github.com/vigia-labs/vigia/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
