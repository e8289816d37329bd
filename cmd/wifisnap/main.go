package main

import "wifisnap/cmd/wifisnap/cmd"

func main() {
	cmd.Execute()
}
