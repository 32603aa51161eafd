package main

import "github.com/mselser95/sportsbook-arb/cmd"

func main() {
	cmd.Execute()
}
