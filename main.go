package main

import "github.com/jmehdipour/order-service/cmd"

func main() {
	cmd.Execute()
}
