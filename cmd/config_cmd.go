/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/neurotech/internal/config"
	"github.com/josephgoksu/neurotech/internal/llm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	setLLMModel string
	setLLMKey   string
)

// configCmd is the parent config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		llmCfg, err := config.LoadLLMConfig()
		if err != nil {
			return err
		}
		view := map[string]any{
			"configFile": viper.ConfigFileUsed(),
			"llm": map[string]any{
				"provider":       llmCfg.Provider,
				"model":          llmCfg.ModelName(),
				"baseURL":        llmCfg.BaseURL,
				"timeoutSeconds": int(llmCfg.CallTimeout().Seconds()),
				"apiKey":         maskSecret(llmCfg.APIKey),
			},
			"server":    cfg.Server,
			"user":      cfg.User,
			"seed":      cfg.Seed,
			"log":       cfg.Log,
			"telemetry": map[string]any{"enabled": cfg.Telemetry.Enabled},
		}
		return printJSON(cmd.OutOrStdout(), view)
	},
}

var configSetLLMCmd = &cobra.Command{
	Use:   "set-llm [provider]",
	Short: "Save the LLM provider, model and API key",
	Long: `Write the provider (openai, ollama, anthropic or gemini), model and API key
to the config file. Other settings in the file are kept. The provider may be
left out when --model names a known model.

Examples:
  neurotech config set-llm gemini --key $GEMINI_API_KEY
  neurotech config set-llm --model gpt-4.1-mini`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var provider string
		if len(args) == 1 {
			provider = args[0]
		} else {
			p, ok := llm.InferProviderFromModel(setLLMModel)
			if !ok {
				return fmt.Errorf("cannot infer a provider from model %q; pass one of openai, ollama, anthropic or gemini", setLLMModel)
			}
			provider = p
		}
		path := viper.ConfigFileUsed()
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		if err := config.SaveLLMConfig(fs, path, provider, setLLMModel, setLLMKey); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved LLM settings to %s\n", path)
		return nil
	},
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetLLMCmd)
	configSetLLMCmd.Flags().StringVar(&setLLMModel, "model", "", "model ID (default depends on provider)")
	configSetLLMCmd.Flags().StringVar(&setLLMKey, "key", "", "API key to store for this provider")
}
