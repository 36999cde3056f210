package main

import (
	"github.com/nisim1010/Bingo-Game/internal/cli"
)

func main() {
	cli.Execute()
}
