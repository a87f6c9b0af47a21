package main

import "github.com/trueeth/cw20-reflection/internal/cli"

func main() {
	cli.Execute()
}
