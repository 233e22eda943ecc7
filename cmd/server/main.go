package main

import (
	"github.com/semspace/semspace/internal/server"
	"github.com/semspace/semspace/internal/util"
	"github.com/semspace/semspace/pkg/logger"
	"github.com/semspace/semspace/pkg/logger/console"
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
