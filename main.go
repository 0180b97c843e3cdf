package main

import "candle-backend/cmd"

func main() {
	cmd.Run()
}
