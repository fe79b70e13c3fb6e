package main

import (
	"github.com/ColonelBlimp/ptamp/cmd"
	"github.com/ColonelBlimp/ptamp/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
