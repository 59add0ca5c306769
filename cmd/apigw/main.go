package main

import (
	"apigw-modules/pkg/cli"
)

func main() {
	cli.Main()
}
