package main

import (
	"embed"
	"os"

	"github.com/klabast/wb-services/shop-directory/internal/commands"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var indexHTML []byte

func main() {
	root := commands.RootCmd(commands.Assets{
		Static:    staticFiles,
		IndexHTML: indexHTML,
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
