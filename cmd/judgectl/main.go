package main

import "github.com/mcoot/judgecore/internal/cli"

func main() {
	cli.Execute()
}
