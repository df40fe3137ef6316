package main

import "github.com/JonMunkholm/dgref/internal/cli"

func main() {
	cli.Execute()
}
