package main

import "github.com/loukys/storefront/internal/cmd"

func main() {
	cmd.Execute()
}
