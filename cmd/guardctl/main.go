package main

import "github.com/hey-granth/profile-guard/internal/cli"

func main() {
	cli.Execute()
}
