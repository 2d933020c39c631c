package main

import "github.com/jdeanwallace/jinjabread/cmd"

func main() {
	cmd.Execute()
}
