package main

import "github.com/nikogura/portfolio-client/cmd"

func main() {
	cmd.Execute()
}
