package main

import "beerchek/webapp-svc/cmd"

func main() {
	cmd.Execute()
}
