package main

import "github.com/KaramelBytes/dsvalidate-cli/cmd"

func main() {
	cmd.Execute()
}
