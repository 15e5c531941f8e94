package main

import "vertigo-backend/cli"

func main() {
	cli.Execute()
}
