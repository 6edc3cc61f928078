// Точка входа catalogctl — операторской утилиты Catalog Gateway.
package main

import (
	"context"
	"os"

	"github.com/habibulloh333/project-uas-prod/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), cli.DefaultRuntime(), os.Args[1:], os.Stdout, os.Stderr))
}
