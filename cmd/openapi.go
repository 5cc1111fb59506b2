package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"
)

var (
	openapiCmd = &cobra.Command{
		Use:   "openapi",
		Short: "OpenAPI spec commands",
	}

	openapiValidateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate the OpenAPI spec",
		Long:  `Load api/openapi.yml and validate it against the OpenAPI 3 schema`,
		RunE:  runOpenAPIValidate,
	}

	openapiSpecPath string
)

func runOpenAPIValidate(_ *cobra.Command, _ []string) error {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromFile(openapiSpecPath)
	if err != nil {
		log.Fatalf("failed to load spec %s: %v", openapiSpecPath, err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		log.Fatalf("spec validation failed: %v", err)
	}

	fmt.Printf("%s is valid (%d paths)\n", openapiSpecPath, len(doc.Paths.Map()))
	return nil
}

func init() {
	openapiValidateCmd.Flags().StringVar(&openapiSpecPath, "spec", "api/openapi.yml", "Path to the OpenAPI spec file")

	openapiCmd.AddCommand(openapiValidateCmd)
	rootCmd.AddCommand(openapiCmd)
}
