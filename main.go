package main

import (
	"fmt"
	"os"

	"mlog/cmd"
	"mlog/config"
)

func main() {
	cfg, err := config.Load(config.ResolvePath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "mlog: loading config:", err)
		os.Exit(2)
	}
	config.SetConfig(cfg)

	cmd.Execute()
}
