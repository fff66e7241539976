package main

import "github.com/yourusername/catalog-admin/internal/cli"

func main() {
	cli.Execute()
}
