package main

import (
	"github.com/mcoot/nertsleague-go/internal/cli"
)

func main() {
	cli.Execute()
}
