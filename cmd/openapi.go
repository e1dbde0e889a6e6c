/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/krushiiq/apiserver/internal/handlers"
	"github.com/krushiiq/apiserver/internal/openapi"
	"github.com/krushiiq/apiserver/internal/server"
	"github.com/spf13/cobra"
)

var openapiFormat string

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the OpenAPI document of the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := openapi.Build(handlers.Routes(), server.APIPrefix)

		var (
			out []byte
			err error
		)
		switch strings.ToLower(openapiFormat) {
		case "json":
			out, err = doc.JSON()
		case "yaml", "yml":
			out, err = doc.YAML()
		default:
			return fmt.Errorf("unsupported format %q (want json or yaml)", openapiFormat)
		}
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
		return err
	},
}

func init() {
	rootCmd.AddCommand(openapiCmd)
	openapiCmd.Flags().StringVar(&openapiFormat, "format", "yaml", "output format: json or yaml")
}
