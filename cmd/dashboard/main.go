package main

import "github.com/wssxwz/stock-strategy/internal/cli"

func main() {
	cli.Execute()
}
