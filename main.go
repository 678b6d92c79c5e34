package main

import "github.com/inference-gateway/pasteboard/cmd"

func main() {
	cmd.Execute()
}
