package main

import "github.com/pbroekroelofs/sports-heroes-schedule/internal/cli"

func main() {
	cli.Execute()
}
