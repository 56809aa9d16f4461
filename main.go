package main

import "github.com/klytics/gy/cmd"

func main() {
	cmd.Execute()
}
