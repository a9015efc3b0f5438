package main

import "github.com/dfryer1193/travelcatalog/cmd/catalogctl/cmd"

func main() {
	cmd.Execute()
}
