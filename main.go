package main

import "github.com/walshb/ncspot/internal/cli"

func main() {
	cli.Execute()
}
