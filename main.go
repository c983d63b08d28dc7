package main

import "github.com/corpotravel/trip-management/cmd"

func main() {
	cmd.Execute()
}
