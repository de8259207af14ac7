package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drewhammond/folio-api/internal/ai"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Print the provider rate tables",
	RunE:  runPricing,
}

func init() {
	rootCmd.AddCommand(pricingCmd)
}

func runPricing(_ *cobra.Command, _ []string) error {
	for _, provider := range []ai.ProviderType{ai.ProviderOpenAI, ai.ProviderGemini} {
		pricing, err := ai.PricingFor(provider)
		if err != nil {
			return err
		}
		fmt.Printf("%-8s input $%.2f/1M tokens, output $%.2f/1M tokens\n",
			provider, pricing.InputCostPer1M, pricing.OutputCostPer1M)
	}
	return nil
}
