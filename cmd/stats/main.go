package main

import "github.com/gatherhub/server/cmd/stats/cmd"

func main() {
	cmd.Execute()
}
